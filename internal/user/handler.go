// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/user", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Put("/me/password", h.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBackOffice)

			r.Get("/", h.ListUsers)
			r.Get("/search", h.SearchUsers)
			r.Get("/{userID}", h.GetUser)
			r.Put("/{userID}", h.UpdateUser)
			r.Put("/{userID}/toggle-active", h.ToggleActive)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Put("/{userID}/role", h.UpdateRole)
			r.Delete("/by-username/{username}", h.DeleteByUsername)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, middleware.GetUserID(r.Context()))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     Role(core.QueryInt(r, "role", 0)),
	}
	h.list(w, r, params)
}

// SearchUsers matches keyword against username, name, email and phone.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		core.BadRequest(w, "keyword is required")
		return
	}

	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   keyword,
	}
	h.list(w, r, params)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, params ListUsersParams) {
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.updateProfile(w, r, userID)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	var req UpdateProfileRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateRoleRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	active, err := h.service.ToggleActive(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, map[string]any{"id": userID, "is_active": active})
}

func (h *Handler) DeleteByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	err := h.service.DeleteByUsername(
		r.Context(),
		middleware.GetUserID(r.Context()),
		username,
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.NoContent(w)
}
