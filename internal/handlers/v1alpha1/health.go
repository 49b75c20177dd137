package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/docflow/docflow/api/v1alpha1"
)

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Health{Status: "ok", Message: "nitido"})
}
