// AngelaMos | 2026
// handler.go

package product

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, backOffice func(http.Handler) http.Handler,
) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{productID}", h.Get)
		r.Get("/GetColors/{productID}", h.Colors)
		r.Get("/GetByCategory/{categoryID}", h.ByCategory)

		r.Group(func(r chi.Router) {
			r.Use(authenticator, backOffice)

			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		core.HandleError(w, err, "product")
		return
	}

	core.OK(w, products)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "productID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Colors(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "productID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	colors, err := h.service.Colors(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "product colors")
		return
	}

	core.OK(w, colors)
}

func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "categoryID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	products, err := h.service.ByCategory(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "products")
		return
	}

	core.OK(w, products)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "product")
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "productID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateProductRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, err, "product")
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "productID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.HandleError(w, err, "product")
		return
	}

	core.NoContent(w)
}
