// Package http exposes a client's books over JSON: ledgers, vouchers,
// settings, the integrity scan, and the financial reports with CSV and PDF
// export.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/observability"
	"github.com/mahesh-atx/capro/internal/platform/httpx"
	"github.com/mahesh-atx/capro/report"
)

// Handler wires the books endpoints. Routes are mounted under
// /clients/{clientID} so every operation carries an explicit client scope.
type Handler struct {
	logger   *slog.Logger
	books    *books.Service
	reports  *reports.Service
	pdf      *report.Client
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler constructs a Handler. The PDF client may be nil; PDF export
// then responds 503.
func NewHandler(logger *slog.Logger, booksSvc *books.Service, reportsSvc *reports.Service, pdf *report.Client, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		books:    booksSvc,
		reports:  reportsSvc,
		pdf:      pdf,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// MountRoutes registers the books routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledgers", h.listLedgers)
	r.Post("/ledgers", h.createLedger)
	r.Get("/ledgers/{id}", h.showLedger)
	r.Put("/ledgers/{id}", h.updateLedger)
	r.Delete("/ledgers/{id}", h.deleteLedger)
	r.Get("/ledgers/{id}/balance", h.ledgerBalance)
	r.Get("/ledgers/{id}/statement", h.ledgerStatement)

	r.Get("/vouchers", h.listVouchers)
	r.Post("/vouchers", h.saveVoucher)
	r.Post("/vouchers/validate", h.validateVoucher)
	r.Get("/vouchers/{id}", h.showVoucher)
	r.Delete("/vouchers/{id}", h.deleteVoucher)

	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.saveSettings)
	r.Get("/integrity", h.integrity)

	r.Get("/reports/trial-balance", h.trialBalance)
	r.Get("/reports/profit-loss", h.profitLoss)
	r.Get("/reports/balance-sheet", h.balanceSheet)
	r.Get("/reports/day-book", h.dayBook)

	r.Get("/groups", h.groups)
}

type ledgerRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=120"`
	Group          string     `json:"group" validate:"required"`
	SubGroup       string     `json:"subGroup"`
	OpeningBalance float64    `json:"openingBalance" validate:"gte=0"`
	OpeningSide    books.Side `json:"openingBalanceType" validate:"omitempty,oneof=Dr Cr"`
	GSTApplicable  bool       `json:"gstApplicable"`
	GSTRate        float64    `json:"gstRate" validate:"gte=0,lte=100"`
	GSTIN          string     `json:"gstin" validate:"omitempty,len=15"`
	State          string     `json:"state" validate:"max=50"`
}

func (req ledgerRequest) toInput() books.LedgerInput {
	return books.LedgerInput{
		Name:           req.Name,
		Group:          req.Group,
		SubGroup:       req.SubGroup,
		OpeningBalance: req.OpeningBalance,
		OpeningSide:    req.OpeningSide,
		GSTApplicable:  req.GSTApplicable,
		GSTRate:        req.GSTRate,
		GSTIN:          req.GSTIN,
		State:          req.State,
	}
}

type ledgerResponse struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Group          string             `json:"group"`
	SubGroup       string             `json:"subGroup,omitempty"`
	OpeningBalance float64            `json:"openingBalance"`
	OpeningSide    books.Side         `json:"openingBalanceType"`
	GSTApplicable  bool               `json:"gstApplicable"`
	GSTRate        float64            `json:"gstRate"`
	GSTIN          string             `json:"gstin,omitempty"`
	State          string             `json:"state,omitempty"`
	TaxComponent   books.TaxComponent `json:"taxComponent,omitempty"`
	TaxFlow        books.TaxFlow      `json:"taxFlow,omitempty"`
}

func toLedgerResponse(l books.Ledger) ledgerResponse {
	return ledgerResponse{
		ID:             l.ID,
		Name:           l.Name,
		Group:          l.Group,
		SubGroup:       l.SubGroup,
		OpeningBalance: l.OpeningBalance,
		OpeningSide:    l.OpeningSide,
		GSTApplicable:  l.GSTApplicable,
		GSTRate:        l.GSTRate,
		GSTIN:          l.GSTIN,
		State:          l.State,
		TaxComponent:   l.TaxComponent,
		TaxFlow:        l.TaxFlow,
	}
}

func (h *Handler) listLedgers(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ledgers, err := h.books.ListLedgers(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "list ledgers failed", err)
		return
	}
	out := make([]ledgerResponse, 0, len(ledgers))
	for _, l := range ledgers {
		out = append(out, toLedgerResponse(l))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ledgers": out})
}

func (h *Handler) createLedger(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	var req ledgerRequest
	if !h.decode(w, r, &req) {
		return
	}
	ledger, err := h.books.CreateLedger(r.Context(), clientID, req.toInput())
	if err != nil {
		h.respondError(w, "create ledger failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toLedgerResponse(ledger))
}

func (h *Handler) showLedger(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ledger, ok := h.clientLedger(w, r, clientID)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, toLedgerResponse(ledger))
}

func (h *Handler) updateLedger(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	existing, ok := h.clientLedger(w, r, clientID)
	if !ok {
		return
	}
	var req ledgerRequest
	if !h.decode(w, r, &req) {
		return
	}
	ledger, err := h.books.UpdateLedger(r.Context(), existing.ID, req.toInput())
	if err != nil {
		h.respondError(w, "update ledger failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toLedgerResponse(ledger))
}

func (h *Handler) deleteLedger(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ledger, ok := h.clientLedger(w, r, clientID)
	if !ok {
		return
	}
	if err := h.books.DeleteLedger(r.Context(), ledger.ID); err != nil {
		h.respondError(w, "delete ledger failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ledgerBalance(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ledger, ok := h.clientLedger(w, r, clientID)
	if !ok {
		return
	}
	vouchers, err := h.books.ListVouchers(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "ledger balance failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, books.BalanceOf(ledger, vouchers))
}

func (h *Handler) ledgerStatement(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	ledgerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ledger id")
		return
	}
	statement, err := h.reports.Statement(r.Context(), clientID, ledgerID, periodFromQuery(r))
	if err != nil {
		h.respondError(w, "ledger statement failed", err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		httpx.JSON(w, http.StatusOK, statement)
	case "csv":
		h.serveCSV(w, "statement.csv", func(s *csvStreamer) error {
			return writeStatementCSV(s, statement)
		})
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported format")
	}
}

type voucherRequest struct {
	Type          books.VoucherType `json:"type" validate:"required"`
	Date          string            `json:"date" validate:"required"`
	Reference     string            `json:"reference"`
	PartyLedgerID uuid.UUID         `json:"partyLedgerId"`
	Narration     string            `json:"narration" validate:"max=500"`
	ChequeNo      string            `json:"chequeNo" validate:"max=30"`
	ChequeDate    string            `json:"chequeDate" validate:"omitempty,datetime=2006-01-02"`
	Entries       []entryRequest    `json:"entries" validate:"required,min=2,dive"`
}

type entryRequest struct {
	LedgerID uuid.UUID  `json:"ledgerId" validate:"required"`
	Amount   float64    `json:"amount" validate:"required,gt=0"`
	Side     books.Side `json:"type" validate:"required,oneof=Dr Cr"`
}

func (req voucherRequest) toInput() books.VoucherInput {
	entries := make([]books.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, books.Entry{LedgerID: e.LedgerID, Amount: e.Amount, Side: e.Side})
	}
	return books.VoucherInput{
		Type:          req.Type,
		Date:          req.Date,
		Reference:     req.Reference,
		PartyLedgerID: req.PartyLedgerID,
		Narration:     req.Narration,
		ChequeNo:      req.ChequeNo,
		ChequeDate:    req.ChequeDate,
		Entries:       entries,
	}
}

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	vouchers, err := h.books.ListVouchers(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "list vouchers failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vouchers": vouchers})
}

// validateVoucher is the dry-run half of the entry flow: it reports the
// Dr/Cr totals and difference without persisting anything.
func (h *Handler) validateVoucher(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.clientID(w, r); !ok {
		return
	}
	var req voucherRequest
	if !h.decode(w, r, &req) {
		return
	}
	result := h.books.ValidateEntries(req.toInput().Entries)
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) saveVoucher(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	var req voucherRequest
	if !h.decode(w, r, &req) {
		return
	}
	voucher, err := h.books.SaveVoucher(r.Context(), clientID, req.toInput())
	if err != nil {
		h.respondError(w, "save voucher failed", err)
		return
	}
	h.metrics.VoucherSaved(string(voucher.Type))
	httpx.JSON(w, http.StatusCreated, voucher)
}

func (h *Handler) showVoucher(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	voucher, ok := h.clientVoucher(w, r, clientID)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, voucher)
}

func (h *Handler) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	voucher, ok := h.clientVoucher(w, r, clientID)
	if !ok {
		return
	}
	if err := h.books.DeleteVoucher(r.Context(), voucher.ID); err != nil {
		h.respondError(w, "delete voucher failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settingsRequest struct {
	FinancialYear  string  `json:"financialYear" validate:"omitempty,len=9"`
	DefaultGSTRate float64 `json:"defaultGstRate" validate:"gte=0,lte=100"`
	CompanyName    string  `json:"companyName" validate:"max=120"`
	Address        string  `json:"address" validate:"max=500"`
	GSTIN          string  `json:"gstin" validate:"omitempty,len=15"`
	PAN            string  `json:"pan" validate:"omitempty,len=10"`
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	settings, err := h.books.GetSettings(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "get settings failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	var req settingsRequest
	if !h.decode(w, r, &req) {
		return
	}
	settings := books.Settings{
		FinancialYear:  req.FinancialYear,
		DefaultGSTRate: req.DefaultGSTRate,
		CompanyName:    req.CompanyName,
		Address:        req.Address,
		GSTIN:          req.GSTIN,
		PAN:            req.PAN,
	}
	if err := h.books.SaveSettings(r.Context(), clientID, settings); err != nil {
		h.respondError(w, "save settings failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *Handler) integrity(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	issues, err := h.books.CheckIntegrity(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "integrity check failed", err)
		return
	}
	if issues == nil {
		issues = []books.IntegrityIssue{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"issues": issues})
}

// groups exposes the fixed chart-of-accounts catalogue for entry screens.
func (h *Handler) groups(w http.ResponseWriter, r *http.Request) {
	type groupEntry struct {
		Name      string          `json:"name"`
		Type      books.GroupType `json:"type"`
		Nature    books.Side      `json:"nature"`
		SubGroups []string        `json:"subGroups,omitempty"`
	}
	out := make([]groupEntry, 0, len(books.Groups))
	for name, info := range books.Groups {
		out = append(out, groupEntry{Name: name, Type: info.Type, Nature: info.Nature, SubGroups: info.SubGroups})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": out, "gstRates": books.GSTRates})
}

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) clientLedger(w http.ResponseWriter, r *http.Request, clientID uuid.UUID) (books.Ledger, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ledger id")
		return books.Ledger{}, false
	}
	ledger, err := h.books.GetLedger(r.Context(), id)
	if err != nil || ledger.ClientID != clientID {
		if err == nil {
			err = books.ErrNotFound
		}
		h.respondError(w, "get ledger failed", err)
		return books.Ledger{}, false
	}
	return ledger, true
}

func (h *Handler) clientVoucher(w http.ResponseWriter, r *http.Request, clientID uuid.UUID) (books.Voucher, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return books.Voucher{}, false
	}
	voucher, err := h.books.GetVoucher(r.Context(), id)
	if err != nil || voucher.ClientID != clientID {
		if err == nil {
			err = books.ErrNotFound
		}
		h.respondError(w, "get voucher failed", err)
		return books.Voucher{}, false
	}
	return voucher, true
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
	switch {
	case errors.Is(err, books.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, books.ErrUnbalanced),
		errors.Is(err, books.ErrDanglingLedger),
		errors.Is(err, books.ErrImmutableVoucher):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
	case errors.Is(err, books.ErrBadDate),
		errors.Is(err, books.ErrTooFewEntries),
		errors.Is(err, books.ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(msg, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func periodFromQuery(r *http.Request) reports.Period {
	return reports.Period{
		From: r.URL.Query().Get("startDate"),
		To:   r.URL.Query().Get("endDate"),
	}
}
