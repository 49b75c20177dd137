package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/handlers/validator"
	"github.com/docflow/docflow/internal/service"
)

type ServiceHandler struct {
	documentSrv *service.DocumentService
	batchSrv    *service.BatchService
	validator   *validator.Validator
}

func NewServiceHandler(documentSrv *service.DocumentService, batchSrv *service.BatchService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewDocumentValidationRules()...)

	return &ServiceHandler{
		documentSrv: documentSrv,
		batchSrv:    batchSrv,
		validator:   v,
	}
}

// RegisterRoutes mounts every endpoint of the v1alpha1 API on the router.
func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/documents", h.CreateDocument)
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{id}", h.GetDocument)
	r.Post("/documents/batch/process", h.ProcessDocumentsBatch)
	r.Get("/jobs/{id}", h.GetJobStatus)
}

// renderError writes the {"detail": ...} error body every non-2xx
// response carries.
func renderError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Detail: detail})
}
