package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mahesh-atx/capro/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the sign-in flow.
type Handler struct {
	logger   *slog.Logger
	sessions *SessionManager
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, sessions *SessionManager) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
	r.Put("/session/client", h.handleSetClient)
}

type loginRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=80"`
	Password string `json:"password" validate:"required,min=1"`
}

type sessionResponse struct {
	User         string `json:"user"`
	ActiveClient string `json:"activeClient,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sess := SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.SetUser(req.Name)
	h.logger.Info("user signed in", slog.String("user", req.Name))

	httpx.JSON(w, http.StatusOK, sessionResponse{User: req.Name})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "not signed in")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: sess.User(), ActiveClient: sess.ActiveClient()})
}

type setClientRequest struct {
	ClientID string `json:"clientId" validate:"required,uuid4"`
}

func (h *Handler) handleSetClient(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "not signed in")
		return
	}

	var req setClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sess.SetActiveClient(req.ClientID)
	httpx.JSON(w, http.StatusOK, sessionResponse{User: sess.User(), ActiveClient: req.ClientID})
}
