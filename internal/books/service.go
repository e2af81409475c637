package books

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeNow is swapped out in tests for deterministic timestamps.
var timeNow = time.Now

// Service owns ledger and voucher lifecycle for a client's books. Every
// operation takes an explicit client scope; nothing ambient.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs the books service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: timeNow}
}

// WithClock overrides the clock for deterministic tests.
func (s *Service) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// LedgerInput carries the fields accepted when creating or editing a ledger.
type LedgerInput struct {
	Name           string
	Group          string
	SubGroup       string
	OpeningBalance float64
	OpeningSide    Side
	GSTApplicable  bool
	GSTRate        float64
	GSTIN          string
	State          string
}

func (in LedgerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: ledger name is required", ErrInvalidInput)
	}
	if _, ok := Groups[in.Group]; !ok {
		return fmt.Errorf("%w: unknown ledger group %q", ErrInvalidInput, in.Group)
	}
	if in.OpeningBalance < 0 {
		return fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidInput)
	}
	if in.OpeningSide != "" && !in.OpeningSide.Valid() {
		return fmt.Errorf("%w: invalid opening side %q", ErrInvalidInput, in.OpeningSide)
	}
	if in.GSTIN != "" && len(in.GSTIN) != 15 {
		return fmt.Errorf("%w: GSTIN must be 15 characters", ErrInvalidInput)
	}
	if in.GSTRate < 0 || in.GSTRate > 100 {
		return fmt.Errorf("%w: GST rate must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// CreateLedger validates the input, tags the GST component from the ledger
// name, and persists a new ledger for the client.
func (s *Service) CreateLedger(ctx context.Context, clientID uuid.UUID, in LedgerInput) (Ledger, error) {
	if err := in.validate(); err != nil {
		return Ledger{}, err
	}
	now := s.now().UTC()
	ledger := s.applyInput(Ledger{ID: uuid.New(), ClientID: clientID, CreatedAt: now}, in, now)
	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return Ledger{}, err
	}
	return ledger, nil
}

// UpdateLedger edits an existing ledger, re-resolving its GST tags so the
// classification follows the current name.
func (s *Service) UpdateLedger(ctx context.Context, id uuid.UUID, in LedgerInput) (Ledger, error) {
	if err := in.validate(); err != nil {
		return Ledger{}, err
	}
	existing, err := s.repo.GetLedger(ctx, id)
	if err != nil {
		return Ledger{}, err
	}
	ledger := s.applyInput(existing, in, s.now().UTC())
	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return Ledger{}, err
	}
	return ledger, nil
}

func (s *Service) applyInput(ledger Ledger, in LedgerInput, now time.Time) Ledger {
	ledger.Name = strings.TrimSpace(in.Name)
	ledger.Group = in.Group
	ledger.SubGroup = in.SubGroup
	ledger.OpeningBalance = in.OpeningBalance
	ledger.OpeningSide = in.OpeningSide
	if ledger.OpeningSide == "" {
		ledger.OpeningSide = Groups[in.Group].Nature
	}
	ledger.GSTApplicable = in.GSTApplicable
	ledger.GSTRate = in.GSTRate
	ledger.GSTIN = in.GSTIN
	ledger.State = in.State
	ledger.TaxComponent, ledger.TaxFlow = ResolveTax(ledger.Name)
	ledger.UpdatedAt = now
	return ledger
}

// GetLedger returns one ledger by id.
func (s *Service) GetLedger(ctx context.Context, id uuid.UUID) (Ledger, error) {
	return s.repo.GetLedger(ctx, id)
}

// ListLedgers returns all ledgers for the client, sorted by name.
func (s *Service) ListLedgers(ctx context.Context, clientID uuid.UUID) ([]Ledger, error) {
	return s.repo.ListLedgers(ctx, clientID)
}

// DeleteLedger removes a ledger without touching vouchers that reference it.
// Dangling references are reported by CheckIntegrity, not silently repaired.
func (s *Service) DeleteLedger(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteLedger(ctx, id)
}

// VoucherInput carries the fields accepted when recording a voucher.
type VoucherInput struct {
	Type          VoucherType
	Date          string
	Reference     string
	PartyLedgerID uuid.UUID
	Narration     string
	ChequeNo      string
	ChequeDate    string
	Entries       []Entry
}

// ValidateEntries is the first half of the explicit validate-then-persist
// contract: it returns the balance result without touching storage, so the
// entry screen can show the running difference while the user types.
func (s *Service) ValidateEntries(entries []Entry) BalanceResult {
	return CheckBalance(entries)
}

// SaveVoucher is the second half: it re-runs every check and persists only a
// balanced voucher with fully resolved ledger references. The voucher number
// is assigned here, scoped per prefix per financial year.
func (s *Service) SaveVoucher(ctx context.Context, clientID uuid.UUID, in VoucherInput) (Voucher, error) {
	now := s.now().UTC()
	voucher := Voucher{
		ID:            uuid.New(),
		ClientID:      clientID,
		Type:          in.Type,
		Date:          in.Date,
		Reference:     in.Reference,
		PartyLedgerID: in.PartyLedgerID,
		Narration:     in.Narration,
		ChequeNo:      in.ChequeNo,
		ChequeDate:    in.ChequeDate,
		Entries:       in.Entries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := voucher.Validate(); err != nil {
		return Voucher{}, err
	}

	ledgers, err := s.repo.ListLedgers(ctx, clientID)
	if err != nil {
		return Voucher{}, err
	}
	known := make(map[uuid.UUID]Ledger, len(ledgers))
	for _, l := range ledgers {
		known[l.ID] = l
	}
	for i := range voucher.Entries {
		ledger, ok := known[voucher.Entries[i].LedgerID]
		if !ok {
			return Voucher{}, fmt.Errorf("%w: entry %d ledger %s", ErrDanglingLedger, i, voucher.Entries[i].LedgerID)
		}
		voucher.Entries[i].LedgerName = ledger.Name
	}
	if voucher.PartyLedgerID != uuid.Nil {
		if _, ok := known[voucher.PartyLedgerID]; !ok {
			return Voucher{}, fmt.Errorf("%w: party ledger %s", ErrDanglingLedger, voucher.PartyLedgerID)
		}
	}

	result := CheckBalance(voucher.Entries)
	if !result.Balanced {
		return Voucher{}, fmt.Errorf("%w: difference %.2f", ErrUnbalanced, result.Difference)
	}

	fy := FinancialYearOf(voucher.Date)
	count, err := s.repo.CountVouchersByNumber(ctx, clientID, voucher.Type.Prefix(), fy)
	if err != nil {
		return Voucher{}, err
	}
	voucher.Number = FormatVoucherNumber(voucher.Type.Prefix(), fy, count+1)

	if err := s.repo.CreateVoucher(ctx, voucher); err != nil {
		return Voucher{}, err
	}
	return voucher, nil
}

// GetVoucher returns one voucher with its entries.
func (s *Service) GetVoucher(ctx context.Context, id uuid.UUID) (Voucher, error) {
	return s.repo.GetVoucher(ctx, id)
}

// ListVouchers returns all vouchers for the client in date order.
func (s *Service) ListVouchers(ctx context.Context, clientID uuid.UUID) ([]Voucher, error) {
	return s.repo.ListVouchers(ctx, clientID)
}

// DeleteVoucher removes a voucher. Balances are always recomputed from
// scratch, so there is no cache to invalidate.
func (s *Service) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVoucher(ctx, id)
}

// SetReconciled flips the bank reconciliation flag, the only mutation a
// saved voucher permits.
func (s *Service) SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool, date string) error {
	if reconciled && !CanonicalDate(date) {
		return ErrBadDate
	}
	if !reconciled {
		date = ""
	}
	return s.repo.SetReconciled(ctx, id, reconciled, date)
}

// GetSettings returns the practice settings for a client, with defaults when
// none are stored yet.
func (s *Service) GetSettings(ctx context.Context, clientID uuid.UUID) (Settings, error) {
	return s.repo.GetSettings(ctx, clientID)
}

// SaveSettings persists the practice settings.
func (s *Service) SaveSettings(ctx context.Context, clientID uuid.UUID, settings Settings) error {
	return s.repo.SaveSettings(ctx, clientID, settings)
}

// IntegrityIssue describes one integrity finding in a client's books.
type IntegrityIssue struct {
	VoucherID     uuid.UUID `json:"voucherId"`
	VoucherNumber string    `json:"voucherNumber"`
	Detail        string    `json:"detail"`
}

// CheckIntegrity scans the client's books for conditions the entry screens
// cannot create but deleted ledgers or imported data can: dangling entry and
// party references, non-canonical dates, and unbalanced vouchers. Findings
// are reported, never repaired.
func (s *Service) CheckIntegrity(ctx context.Context, clientID uuid.UUID) ([]IntegrityIssue, error) {
	ledgers, err := s.repo.ListLedgers(ctx, clientID)
	if err != nil {
		return nil, err
	}
	vouchers, err := s.repo.ListVouchers(ctx, clientID)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(ledgers))
	for _, l := range ledgers {
		known[l.ID] = struct{}{}
	}

	var issues []IntegrityIssue
	report := func(v Voucher, format string, args ...any) {
		issues = append(issues, IntegrityIssue{
			VoucherID:     v.ID,
			VoucherNumber: v.Number,
			Detail:        fmt.Sprintf(format, args...),
		})
	}
	for _, v := range vouchers {
		if !CanonicalDate(v.Date) {
			report(v, "non-canonical date %q", v.Date)
		}
		if result := CheckBalance(v.Entries); !result.Balanced {
			report(v, "entries unbalanced by %.2f", result.Difference)
		}
		for i, e := range v.Entries {
			if _, ok := known[e.LedgerID]; !ok {
				report(v, "entry %d references deleted ledger %q", i, e.LedgerName)
			}
		}
		if v.PartyLedgerID != uuid.Nil {
			if _, ok := known[v.PartyLedgerID]; !ok {
				report(v, "party ledger %s no longer exists", v.PartyLedgerID)
			}
		}
	}
	return issues, nil
}
