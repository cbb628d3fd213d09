// AngelaMos | 2026
// handler.go

package cart

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
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/shoppingcart", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/Add", h.Add)
		r.Get("/GetCartItems/{userID}", h.Items)
		r.Get("/ItemCount/{userID}", h.ItemCount)
		r.Delete("/Delete", h.Remove)
		r.Delete("/Clear", h.Clear)
	})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if !middleware.CanActFor(r.Context(), req.UserID) {
		core.Forbidden(w, "cannot modify another user's cart")
		return
	}

	resp, err := h.service.Add(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "product variant")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r, core.URLParamID, "userID")
	if !ok {
		return
	}

	resp, err := h.service.Items(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "cart")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ItemCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r, core.URLParamID, "userID")
	if !ok {
		return
	}

	count, err := h.service.ItemCount(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "cart")
		return
	}

	core.OK(w, map[string]int{"item_count": count})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r, core.QueryID, "userId")
	if !ok {
		return
	}

	variantID, err := core.QueryID(r, "productVariantId")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), userID, variantID); err != nil {
		core.HandleError(w, err, "cart item")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r, core.QueryID, "userId")
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		core.HandleError(w, err, "cart")
		return
	}

	core.NoContent(w)
}

// owner resolves the target user id and checks the caller may act on it.
func (h *Handler) owner(
	w http.ResponseWriter,
	r *http.Request,
	parse func(*http.Request, string) (int64, error),
	name string,
) (int64, bool) {
	userID, err := parse(r, name)
	if err != nil {
		core.JSONError(w, err)
		return 0, false
	}

	if !middleware.CanActFor(r.Context(), userID) {
		core.Forbidden(w, "cannot access another user's cart")
		return 0, false
	}

	return userID, true
}
