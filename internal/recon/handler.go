package recon

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/platform/httpx"
)

// Handler exposes bank reconciliation under /clients/{clientID}/recon.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers reconciliation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{ledgerID}", h.statement)
	r.Put("/vouchers/{voucherID}", h.mark)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return
	}
	ledgerID, err := uuid.Parse(chi.URLParam(r, "ledgerID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ledger id")
		return
	}
	period := reports.Period{
		From: r.URL.Query().Get("startDate"),
		To:   r.URL.Query().Get("endDate"),
	}

	transactions, summary, err := h.service.Statement(r.Context(), clientID, ledgerID, period)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "bank ledger not found")
			return
		}
		h.logger.Error("reconciliation statement failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"summary":      summary,
	})
}

type markRequest struct {
	Reconciled    bool   `json:"reconciled"`
	ReconcileDate string `json:"reconcileDate" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request) {
	voucherID, err := uuid.Parse(chi.URLParam(r, "voucherID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return
	}
	var req markRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Mark(r.Context(), voucherID, req.Reconciled, req.ReconcileDate); err != nil {
		switch {
		case errors.Is(err, books.ErrBadDate):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "reconcile date must be YYYY-MM-DD")
		case errors.Is(err, books.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "voucher not found")
		default:
			h.logger.Error("mark reconciled failed", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
