package http

import (
	"log/slog"
	"net/http"

	"github.com/mahesh-atx/capro/internal/platform/httpx"
)

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	tb, err := h.reports.TrialBalance(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "trial balance failed", err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		httpx.JSON(w, http.StatusOK, tb)
	case "csv":
		h.serveCSV(w, "trial-balance.csv", func(s *csvStreamer) error {
			return writeTrialBalanceCSV(s, tb)
		})
	case "pdf":
		h.servePDF(w, r, "trial-balance.pdf", trialBalanceHTML(tb))
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported format")
	}
}

func (h *Handler) profitLoss(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	pl, err := h.reports.ProfitLoss(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "profit and loss failed", err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		httpx.JSON(w, http.StatusOK, pl)
	case "csv":
		h.serveCSV(w, "profit-loss.csv", func(s *csvStreamer) error {
			return writeProfitLossCSV(s, pl)
		})
	case "pdf":
		h.servePDF(w, r, "profit-loss.pdf", profitLossHTML(pl))
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported format")
	}
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	bs, err := h.reports.BalanceSheet(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "balance sheet failed", err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		httpx.JSON(w, http.StatusOK, bs)
	case "csv":
		h.serveCSV(w, "balance-sheet.csv", func(s *csvStreamer) error {
			return writeBalanceSheetCSV(s, bs)
		})
	case "pdf":
		h.servePDF(w, r, "balance-sheet.pdf", balanceSheetHTML(bs))
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported format")
	}
}

func (h *Handler) dayBook(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	book, err := h.reports.DayBook(r.Context(), clientID, periodFromQuery(r))
	if err != nil {
		h.respondError(w, "day book failed", err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		httpx.JSON(w, http.StatusOK, book)
	case "csv":
		h.serveCSV(w, "day-book.csv", func(s *csvStreamer) error {
			return writeDayBookCSV(s, book)
		})
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported format")
	}
}

func (h *Handler) serveCSV(w http.ResponseWriter, filename string, write func(*csvStreamer) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	streamer := newCSVStreamer(w)
	if err := write(streamer); err != nil {
		h.logger.Error("csv export failed", slog.Any("error", err))
	}
}

func (h *Handler) servePDF(w http.ResponseWriter, r *http.Request, filename, html string) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "PDF rendering is not configured")
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("pdf render failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", "PDF rendering failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
