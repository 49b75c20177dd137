package v1alpha1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/service"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

func (h *ServiceHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body api.DocumentCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := h.validator.Struct(body); err != nil {
		renderError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("validation failed: %v", err))
		return
	}

	document, err := h.documentSrv.CreateDocument(r.Context(), string(body.InvoiceType), body.Amount, body.Metadata)
	if err != nil {
		zap.S().Named("document_handler").Errorf("failed to create document: %v", err)
		renderError(w, r, http.StatusInternalServerError, "failed to create document")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, document.ToApiResource())
}

func (h *ServiceHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	document, err := h.documentSrv.GetDocument(r.Context(), id)
	if err != nil {
		var notFound *service.ErrResourceNotFound
		if errors.As(err, &notFound) {
			renderError(w, r, http.StatusNotFound, "Document not found")
			return
		}
		zap.S().Named("document_handler").Errorf("failed to get document %s: %v", id, err)
		renderError(w, r, http.StatusInternalServerError, "failed to get document")
		return
	}

	render.JSON(w, r, document.ToApiResource())
}

func (h *ServiceHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilterFromQuery(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	documents, total, err := h.documentSrv.ListDocuments(r.Context(), filter)
	if err != nil {
		zap.S().Named("document_handler").Errorf("failed to list documents: %v", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list documents")
		return
	}

	render.JSON(w, r, documents.ToApiResource(total, filter.Skip, filter.Limit))
}

func documentFilterFromQuery(r *http.Request) (*service.DocumentFilter, error) {
	filter := &service.DocumentFilter{Skip: 0, Limit: defaultListLimit}
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return nil, fmt.Errorf("skip must be a non-negative integer")
		}
		filter.Skip = skip
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxListLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", maxListLimit)
		}
		filter.Limit = limit
	}
	if v := q.Get("invoice_type"); v != "" {
		filter.InvoiceType = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("min_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("min_amount must be a number")
		}
		filter.MinAmount = &amount
	}
	if v := q.Get("max_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("max_amount must be a number")
		}
		filter.MaxAmount = &amount
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("start_date must be an RFC3339 timestamp")
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("end_date must be an RFC3339 timestamp")
		}
		filter.EndDate = &t
	}

	return filter, nil
}
