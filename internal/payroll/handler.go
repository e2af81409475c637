package payroll

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/platform/httpx"
)

// Handler exposes payroll endpoints under /clients/{clientID}/payroll.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers payroll routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/employees", h.listEmployees)
	r.Post("/employees", h.createEmployee)
	r.Put("/employees/{id}", h.updateEmployee)
	r.Delete("/employees/{id}", h.deleteEmployee)
	r.Post("/employees/{id}/slip", h.slip)
	r.Post("/run", h.run)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	employees, err := h.service.ListEmployees(r.Context(), clientID)
	if err != nil {
		h.logger.Error("list employees failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	var in Input
	if !h.decode(w, r, &in) {
		return
	}
	emp, err := h.service.SaveEmployee(r.Context(), clientID, nil, in)
	if err != nil {
		h.respondError(w, "create employee failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, emp)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	var in Input
	if !h.decode(w, r, &in) {
		return
	}
	emp, err := h.service.SaveEmployee(r.Context(), clientID, &id, in)
	if err != nil {
		h.respondError(w, "update employee failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	if err := h.service.DeleteEmployee(r.Context(), clientID, id); err != nil {
		h.respondError(w, "delete employee failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) slip(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid employee id")
		return
	}
	var in SlipInput
	if !h.decode(w, r, &in) {
		return
	}
	slip, err := h.service.Slip(r.Context(), clientID, id, in)
	if err != nil {
		h.respondError(w, "compute slip failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, slip)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDParam(w, r)
	if !ok {
		return
	}
	var in RunInput
	if !h.decode(w, r, &in) {
		return
	}
	summary, err := h.service.RunMonth(r.Context(), clientID, in)
	if err != nil {
		h.logger.Error("payroll run failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	h.logger.Error(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func clientIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return uuid.Nil, false
	}
	return id, true
}
