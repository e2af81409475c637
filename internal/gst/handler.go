package gst

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/platform/httpx"
)

// Handler exposes GST returns under /clients/{clientID}/gst.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers GST routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/gstr1", h.gstr1)
	r.Get("/gstr1.csv", h.gstr1CSV)
	r.Get("/gstr3b", h.gstr3b)
	r.Get("/filings", h.filings)
	r.Put("/filings", h.recordFiling)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "gst summary failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) gstr1(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ret, err := h.service.GSTR1(r.Context(), clientID, periodFromQuery(r))
	if err != nil {
		h.respondError(w, "gstr1 failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ret)
}

func (h *Handler) gstr1CSV(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ret, err := h.service.GSTR1(r.Context(), clientID, periodFromQuery(r))
	if err != nil {
		h.respondError(w, "gstr1 export failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="gstr1.csv"`)
	if err := WriteGSTR1CSV(w, ret); err != nil {
		h.logger.Error("gstr1 csv stream", slog.Any("error", err))
	}
}

func (h *Handler) gstr3b(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ret, err := h.service.GSTR3B(r.Context(), clientID, periodFromQuery(r))
	if err != nil {
		h.respondError(w, "gstr3b failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ret)
}

func (h *Handler) filings(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	filings, err := h.service.Filings(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "list filings failed", err)
		return
	}
	if filings == nil {
		filings = []Filing{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"filings": filings})
}

type filingRequest struct {
	Period     string `json:"period" validate:"required,max=20"`
	ReturnType string `json:"returnType" validate:"required,oneof=GSTR-1 GSTR-3B"`
	Status     string `json:"status" validate:"required,oneof=pending filed late"`
	FiledOn    string `json:"filedOn" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) recordFiling(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	var req filingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	filing := Filing{
		Period:     req.Period,
		ReturnType: req.ReturnType,
		Status:     req.Status,
		FiledOn:    req.FiledOn,
	}
	if err := h.service.RecordFiling(r.Context(), clientID, filing); err != nil {
		h.respondError(w, "record filing failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, filing)
}

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, books.ErrBadDate) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.logger.Error(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func periodFromQuery(r *http.Request) Period {
	return Period{
		From: r.URL.Query().Get("startDate"),
		To:   r.URL.Query().Get("endDate"),
	}
}
