// AngelaMos | 2026
// handler.go

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techzone/backoffice/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts public reads and back-office writes under
// /category.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, backOffice func(http.Handler) http.Handler,
) {
	r.Route("/category", func(r chi.Router) {
		r.Get("/", h.list(FilterAll))
		r.Get("/has-parent", h.list(FilterChildren))
		r.Get("/no-parent", h.list(FilterRoots))
		r.Get("/by-category/{categoryID}", h.Products)
		r.Get("/{categoryID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator, backOffice)

			r.Post("/", h.Create)
			r.Put("/{categoryID}", h.Update)
			r.Delete("/{categoryID}", h.Delete)
		})
	})
}

func (h *Handler) list(filter Filter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.service.List(r.Context(), filter)
		if err != nil {
			core.HandleError(w, err, "category")
			return
		}

		core.OK(w, ToCategoryResponseList(categories))
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "categoryID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "category")
		return
	}

	core.OK(w, ToCategoryResponse(c))
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "categoryID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	products, err := h.service.Products(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "category")
		return
	}

	core.OK(w, products)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "category")
		return
	}

	core.Created(w, ToCategoryResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "categoryID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req CategoryRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, err, "category")
		return
	}

	core.OK(w, ToCategoryResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "categoryID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.HandleError(w, err, "category")
		return
	}

	core.NoContent(w)
}
