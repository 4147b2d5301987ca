package account

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterPublicRoutes mounts the unauthenticated sign-in route.
func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
}

// RegisterRoutes mounts routes that need a session.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.me).Methods(http.MethodGet)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			h.logger.Info("login_rejected", "Invalid credentials", requestID, map[string]interface{}{
				"login": req.Login,
			})
		}
		httpx.WriteError(w, r, h.logger, "login_failed", err)
		return
	}

	h.logger.Info("login_succeeded", "User signed in", requestID, map[string]interface{}{
		"login": result.Session.Login,
		"role":  result.Session.Role,
	})
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "auth_failed", apperr.ErrUnauthorized)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, session)
}
