// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"net/mail"

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

// RegisterRoutes mounts the account endpoints. limiter throttles the
// unauthenticated credential and OTP endpoints.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, limiter func(http.Handler) http.Handler,
) {
	r.Route("/login", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter)

			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/send-otp", h.SendOTP)
			r.Post("/reset-password", h.ResetPassword)
			r.Get("/check-otp/{email}/{otp}", h.CheckOTP)
			r.Put("/update-password/{email}", h.UpdatePassword)
		})

		r.With(authenticator).Post("/logout", h.Logout)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("invalid username or password"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	if err := h.service.SendOTP(r.Context(), email); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, map[string]string{"message": "verification code sent"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	if err := h.service.ResetPassword(r.Context(), email); err != nil {
		core.HandleError(w, err, "email")
		return
	}

	core.OK(w, map[string]string{"message": "reset code sent"})
}

func (h *Handler) CheckOTP(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	code := chi.URLParam(r, "otp")

	if err := h.service.CheckOTP(r.Context(), email, code); err != nil {
		core.HandleError(w, err, "otp")
		return
	}

	core.OK(w, map[string]bool{"verified": true})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req UpdatePasswordRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), email, req.NewPassword); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		core.HandleError(w, err, "token")
		return
	}

	core.NoContent(w)
}

// emailParam accepts the address as ?email= or as a JSON body.
func emailParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.URL.Query().Get("email")
	if email == "" {
		var req EmailRequest
		if err := core.DecodeJSON(r, nil, &req); err != nil {
			core.JSONError(w, err)
			return "", false
		}
		email = req.Email
	}

	if _, err := mail.ParseAddress(email); err != nil {
		core.BadRequest(w, "email must be a valid email")
		return "", false
	}

	return email, true
}
