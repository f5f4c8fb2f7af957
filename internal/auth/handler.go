package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/memora-app/memora-api/internal/identity"
	"github.com/memora-app/memora-api/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/signin", h.handleSignin)
	r.Post("/google-signup", h.handleGoogleSignup)
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type googleSignupRequest struct {
	Provider string `json:"provider" validate:"required"`
	IDToken  string `json:"idToken" validate:"required"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}

	token, err := h.service.Signup(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.Message(w, http.StatusConflict, "User already exists")
			return
		}
		h.logger.Error("signup", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	httpx.MessageToken(w, http.StatusOK, "User created successfully", token)
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}

	token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			// 409 kept for compatibility with the existing web client.
			httpx.Message(w, http.StatusConflict, "User not found")
		case errors.Is(err, ErrFederatedOnly):
			httpx.Message(w, http.StatusBadRequest, "Use federated login")
		case errors.Is(err, ErrWrongPassword):
			httpx.Message(w, http.StatusForbidden, "Incorrect password")
		default:
			h.logger.Error("signin", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "An error occured")
		}
		return
	}
	httpx.MessageToken(w, http.StatusOK, "Logged in successfully", token)
}

func (h *Handler) handleGoogleSignup(w http.ResponseWriter, r *http.Request) {
	var req googleSignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}
	if err := h.validator.Struct(req); err != nil || !strings.EqualFold(req.Provider, "google") {
		httpx.Message(w, http.StatusBadRequest, "Incorrect credentials")
		return
	}

	token, created, err := h.service.GoogleSignup(r.Context(), req.Provider, req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrExchangeFailed):
			h.logger.Warn("google signup exchange", slog.Any("error", err))
			httpx.Message(w, http.StatusForbidden, "Unexpected error occured")
		case errors.Is(err, ErrEmailUnverified):
			httpx.Message(w, http.StatusBadRequest, "Unauthorized")
		default:
			h.logger.Error("google signup", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Unexpected error")
		}
		return
	}
	if created {
		httpx.MessageToken(w, http.StatusOK, "User created successfully", token)
		return
	}
	httpx.MessageToken(w, http.StatusOK, "Logged in successfully exists", token)
}
