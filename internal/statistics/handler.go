// AngelaMos | 2026
// handler.go

package statistics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techzone/backoffice/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, backOffice func(http.Handler) http.Handler,
) {
	r.With(authenticator, backOffice).Get("/statistics", h.Report)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	report, err := h.service.Report(r.Context(), q.Get("preset"), q.Get("from"), q.Get("to"))
	if err != nil {
		core.HandleError(w, err, "statistics")
		return
	}

	core.OK(w, report)
}
