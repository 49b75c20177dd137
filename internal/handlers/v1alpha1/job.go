package v1alpha1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/service"
)

func (h *ServiceHandler) ProcessDocumentsBatch(w http.ResponseWriter, r *http.Request) {
	var body api.BatchProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := h.validator.Struct(body); err != nil {
		renderError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("validation failed: %v", err))
		return
	}

	job, err := h.batchSrv.CreateBatch(r.Context(), body.DocumentIds)
	if err != nil {
		var invalid *service.ErrInvalidRequest
		var notFound *service.ErrResourceNotFound
		switch {
		case errors.As(err, &invalid):
			renderError(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &notFound):
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			zap.S().Named("job_handler").Errorf("failed to create batch: %v", err)
			renderError(w, r, http.StatusInternalServerError, "failed to create batch job")
		}
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, api.BatchProcessReply{
		JobId:   job.ID.String(),
		Message: "Batch processing started successfully",
	})
}

func (h *ServiceHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.batchSrv.GetJob(r.Context(), id)
	if err != nil {
		var notFound *service.ErrResourceNotFound
		if errors.As(err, &notFound) {
			renderError(w, r, http.StatusNotFound, "Job not found")
			return
		}
		zap.S().Named("job_handler").Errorf("failed to get job %s: %v", id, err)
		renderError(w, r, http.StatusInternalServerError, "failed to get job")
		return
	}

	render.JSON(w, r, job.ToApiResource())
}
