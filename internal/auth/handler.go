package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

// Handler exposes login, logout and the session probe.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	rbac     *rbac.Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, rbacService *rbac.Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		rbac:     rbacService,
		validate: validator.New(),
	}
}

// MountRoutes registers the auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type meResponse struct {
	Account      Account           `json:"account"`
	Capabilities []rbac.Capability `json:"capabilities"`
}

// Login authenticates and issues a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, account.ID); err != nil {
		h.logger.Error("create session", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
		h.logger.Error("destroy session", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the current account and its capability tokens. Clients resolve
// capabilities once per session load and gate actions with a local lookup.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	account, err := h.service.Lookup(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	granted, err := h.rbac.EffectiveCapabilities(r.Context(), userID)
	if err != nil {
		h.logger.Error("resolve capabilities", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Error loading session")
		return
	}

	caps := make([]rbac.Capability, 0, len(granted))
	for _, c := range rbac.All() {
		if granted.Has(c) {
			caps = append(caps, c)
		}
	}
	httpx.JSON(w, http.StatusOK, meResponse{Account: account, Capabilities: caps})
}
