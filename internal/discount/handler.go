// AngelaMos | 2026
// handler.go

package discount

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

// RegisterRoutes mounts the public validation endpoint and the
// back-office CRUD.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, backOffice func(http.Handler) http.Handler,
) {
	r.Post("/discount/validate", h.Validate)

	r.Route("/discounts", func(r chi.Router) {
		r.Use(authenticator, backOffice)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{discountID}", h.Get)
		r.Put("/{discountID}", h.Update)
	})
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Validate(r.Context(), req.Code, req.UserID)
	if err != nil {
		core.HandleError(w, err, "discount")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.service.List(r.Context())
	if err != nil {
		core.HandleError(w, err, "discount")
		return
	}

	core.OK(w, ToDiscountResponseList(discounts))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "discountID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "discount")
		return
	}

	core.OK(w, ToDiscountResponse(d))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "discount")
		return
	}

	core.Created(w, ToDiscountResponse(d))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "discountID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req DiscountRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	d, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, err, "discount")
		return
	}

	core.OK(w, ToDiscountResponse(d))
}
