// AngelaMos | 2026
// handler.go

package payment

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/middleware"
)

// WebhookPath is where the payment provider posts status callbacks,
// relative to the API mount point.
const WebhookPath = "/payment/webhook"

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
	r.Post(WebhookPath, h.Webhook)

	r.Route("/create-payment-link", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.CreateLink)
		r.Post("/confirm", h.Confirm)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator, backOffice)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/ByOrder/{orderID}", h.ByOrder)
		r.Get("/{paymentID}", h.Get)
		r.Put("/{paymentID}", h.Update)
	})
}

// Webhook always acknowledges so the provider never retries. Failures
// are only logged.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "payment webhook body invalid", "error", err)
	} else if err := h.service.HandleWebhook(r.Context(), req); err != nil {
		slog.WarnContext(r.Context(), "payment webhook not applied", "error", err)
	}

	core.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if !h.ownsOrder(w, r, req.OrderID) {
		return
	}

	resp, err := h.service.CreateLink(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	orderID, err := decodeOrderID(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if !h.ownsOrder(w, r, orderID) {
		return
	}

	p, err := h.service.Confirm(r.Context(), orderID)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToPaymentResponse(p))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.List(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ToPaymentResponseList(payments))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "paymentID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ToPaymentResponse(p))
}

func (h *Handler) ByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := core.URLParamID(r, "orderID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	payments, err := h.service.ByOrder(r.Context(), orderID)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToPaymentResponseList(payments))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.Created(w, ToPaymentResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "paymentID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ToPaymentResponse(p))
}

func (h *Handler) ownsOrder(w http.ResponseWriter, r *http.Request, orderID int64) bool {
	owner, err := h.service.OrderOwner(r.Context(), orderID)
	if err != nil {
		core.HandleError(w, err, "order")
		return false
	}

	if !middleware.CanActFor(r.Context(), owner) {
		core.NotFound(w, "order")
		return false
	}

	return true
}

// decodeOrderID accepts either a bare JSON number or {"order_id": n}.
func decodeOrderID(r *http.Request) (int64, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return 0, core.BadRequestError("invalid request body")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, core.BadRequestError("request body is empty")
	}

	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		var req ConfirmRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return 0, core.BadRequestError("invalid request body")
		}
		id = req.OrderID
	}

	if id <= 0 {
		return 0, core.BadRequestError("order_id must be a positive integer")
	}

	return id, nil
}
