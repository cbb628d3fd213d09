// AngelaMos | 2026
// handler.go

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/middleware"
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
	r.Route("/order", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/Create", h.Create)
		r.Get("/UserOrders/{userID}", h.UserOrders)
		r.Get("/CheckDeposit/{userID}", h.CheckDeposit)
		r.Post("/ConfirmOrder", h.Confirm)
		r.Post("/SendConfirmEmail", h.SendConfirmEmail)
		r.Get("/{orderID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(backOffice)

			r.Get("/All", h.All)
			r.Put("/UpdateStatus/{orderID}", h.UpdateStatus)
			r.Delete("/DeleteAllByUser/{userID}", h.DeleteAllByUser)
			r.Post("/notify-preorder-customers", h.NotifyPreorderCustomers)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if !middleware.CanActFor(r.Context(), req.UserID) {
		core.Forbidden(w, "cannot place an order for another user")
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "orderID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	if !middleware.CanActFor(r.Context(), d.UserID) {
		core.NotFound(w, "order")
		return
	}

	core.OK(w, ToDetailResponse(d))
}

func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}

	details, err := h.service.UserOrders(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToDetailResponseList(details))
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.All(r.Context())
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToDetailResponseList(details))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "orderID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req StatusRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), id, *req.Status)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedOrder(w, r)
	if !ok {
		return
	}

	if err := h.service.Confirm(r.Context(), id); err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, map[string]string{"message": "order confirmed"})
}

func (h *Handler) SendConfirmEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedOrder(w, r)
	if !ok {
		return
	}

	if err := h.service.SendConfirmEmail(r.Context(), id); err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, map[string]string{"message": "confirmation email sent"})
}

func (h *Handler) DeleteAllByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	deleted, err := h.service.DeleteAllByUser(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "orders")
		return
	}

	core.OK(w, map[string]int64{"deleted": deleted})
}

func (h *Handler) CheckDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.CheckDeposit(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) NotifyPreorderCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.NotifyPreorderCustomers(r.Context())
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, result)
}

func (h *Handler) userParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return 0, false
	}

	if !middleware.CanActFor(r.Context(), userID) {
		core.Forbidden(w, "cannot access another user's orders")
		return 0, false
	}

	return userID, true
}

// ownedOrder reads ?orderId= and hides orders the caller does not own.
func (h *Handler) ownedOrder(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := core.QueryID(r, "orderId")
	if err != nil {
		core.JSONError(w, err)
		return 0, false
	}

	owner, err := h.service.OwnerOf(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "order")
		return 0, false
	}

	if !middleware.CanActFor(r.Context(), owner) {
		core.NotFound(w, "order")
		return 0, false
	}

	return id, true
}
