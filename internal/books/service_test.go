package books

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	ledgers  map[uuid.UUID]Ledger
	vouchers map[uuid.UUID]Voucher
	settings map[uuid.UUID]Settings
}

func newMemRepo() *memRepo {
	return &memRepo{
		ledgers:  map[uuid.UUID]Ledger{},
		vouchers: map[uuid.UUID]Voucher{},
		settings: map[uuid.UUID]Settings{},
	}
}

func (m *memRepo) ListLedgers(_ context.Context, clientID uuid.UUID) ([]Ledger, error) {
	var out []Ledger
	for _, l := range m.ledgers {
		if l.ClientID == clientID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) GetLedger(_ context.Context, id uuid.UUID) (Ledger, error) {
	l, ok := m.ledgers[id]
	if !ok {
		return Ledger{}, ErrNotFound
	}
	return l, nil
}

func (m *memRepo) SaveLedger(_ context.Context, l Ledger) error {
	m.ledgers[l.ID] = l
	return nil
}

func (m *memRepo) DeleteLedger(_ context.Context, id uuid.UUID) error {
	if _, ok := m.ledgers[id]; !ok {
		return ErrNotFound
	}
	delete(m.ledgers, id)
	return nil
}

func (m *memRepo) ListVouchers(_ context.Context, clientID uuid.UUID) ([]Voucher, error) {
	var out []Voucher
	for _, v := range m.vouchers {
		if v.ClientID == clientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memRepo) GetVoucher(_ context.Context, id uuid.UUID) (Voucher, error) {
	v, ok := m.vouchers[id]
	if !ok {
		return Voucher{}, ErrNotFound
	}
	return v, nil
}

func (m *memRepo) CreateVoucher(_ context.Context, v Voucher) error {
	m.vouchers[v.ID] = v
	return nil
}

func (m *memRepo) DeleteVoucher(_ context.Context, id uuid.UUID) error {
	if _, ok := m.vouchers[id]; !ok {
		return ErrNotFound
	}
	delete(m.vouchers, id)
	return nil
}

func (m *memRepo) SetReconciled(_ context.Context, id uuid.UUID, reconciled bool, date string) error {
	v, ok := m.vouchers[id]
	if !ok {
		return ErrNotFound
	}
	v.IsReconciled = reconciled
	v.ReconcileDate = date
	m.vouchers[id] = v
	return nil
}

func (m *memRepo) CountVouchersByNumber(_ context.Context, clientID uuid.UUID, prefix, fy string) (int, error) {
	count := 0
	for _, v := range m.vouchers {
		if v.ClientID == clientID && strings.HasPrefix(v.Number, prefix+"/"+fy+"/") {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) GetSettings(_ context.Context, clientID uuid.UUID) (Settings, error) {
	s, ok := m.settings[clientID]
	if !ok {
		return Settings{FinancialYear: CurrentFinancialYear(time.Now()), DefaultGSTRate: 18}, nil
	}
	return s, nil
}

func (m *memRepo) SaveSettings(_ context.Context, clientID uuid.UUID, s Settings) error {
	m.settings[clientID] = s
	return nil
}

func newTestService() (*Service, *memRepo, uuid.UUID) {
	repo := newMemRepo()
	svc := NewService(repo)
	svc.WithClock(func() time.Time {
		return time.Date(2024, time.December, 5, 10, 0, 0, 0, time.UTC)
	})
	return svc, repo, uuid.New()
}

func mustLedger(t *testing.T, svc *Service, clientID uuid.UUID, in LedgerInput) Ledger {
	t.Helper()
	ledger, err := svc.CreateLedger(context.Background(), clientID, in)
	if err != nil {
		t.Fatalf("create ledger %q: %v", in.Name, err)
	}
	return ledger
}

func TestCreateLedgerResolvesTaxTags(t *testing.T) {
	svc, _, clientID := newTestService()

	ledger := mustLedger(t, svc, clientID, LedgerInput{
		Name:  "CGST Output",
		Group: "Current Liabilities", SubGroup: "Duties & Taxes",
	})
	if ledger.TaxComponent != TaxCGST || ledger.TaxFlow != FlowOutput {
		t.Fatalf("expected CGST Output tags, got %q %q", ledger.TaxComponent, ledger.TaxFlow)
	}
	if ledger.OpeningSide != SideCr {
		t.Fatalf("opening side should default to the group nature, got %q", ledger.OpeningSide)
	}
}

func TestCreateLedgerRejectsUnknownGroup(t *testing.T) {
	svc, _, clientID := newTestService()
	_, err := svc.CreateLedger(context.Background(), clientID, LedgerInput{Name: "Misc", Group: "No Such Group"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestUpdateLedgerReResolvesTags(t *testing.T) {
	svc, _, clientID := newTestService()
	ledger := mustLedger(t, svc, clientID, LedgerInput{Name: "Misc Taxes", Group: "Current Liabilities"})
	if ledger.TaxComponent != TaxNone {
		t.Fatalf("expected untagged ledger, got %q", ledger.TaxComponent)
	}

	updated, err := svc.UpdateLedger(context.Background(), ledger.ID, LedgerInput{
		Name: "IGST Output", Group: "Current Liabilities",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TaxComponent != TaxIGST || updated.TaxFlow != FlowOutput {
		t.Fatalf("rename must re-resolve tags, got %q %q", updated.TaxComponent, updated.TaxFlow)
	}
}

func TestSaveVoucherAssignsScopedNumber(t *testing.T) {
	svc, _, clientID := newTestService()
	sales := mustLedger(t, svc, clientID, LedgerInput{Name: "Sales Account", Group: "Direct Income"})
	debtor := mustLedger(t, svc, clientID, LedgerInput{Name: "XYZ Traders", Group: "Current Assets", SubGroup: "Sundry Debtors"})

	in := VoucherInput{
		Type: VoucherSales,
		Date: "2024-12-05",
		Entries: []Entry{
			{LedgerID: debtor.ID, Amount: 1180, Side: SideDr},
			{LedgerID: sales.ID, Amount: 1180, Side: SideCr},
		},
	}
	first, err := svc.SaveVoucher(context.Background(), clientID, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Number != "SAL/2024-2025/0001" {
		t.Fatalf("unexpected first number %q", first.Number)
	}
	second, err := svc.SaveVoucher(context.Background(), clientID, in)
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if second.Number != "SAL/2024-2025/0002" {
		t.Fatalf("unexpected second number %q", second.Number)
	}
	if first.Entries[0].LedgerName != "XYZ Traders" {
		t.Fatalf("entry must carry the resolved ledger name, got %q", first.Entries[0].LedgerName)
	}
}

func TestSaveVoucherRejectsUnbalanced(t *testing.T) {
	svc, _, clientID := newTestService()
	sales := mustLedger(t, svc, clientID, LedgerInput{Name: "Sales Account", Group: "Direct Income"})
	cash := mustLedger(t, svc, clientID, LedgerInput{Name: "Cash in Hand", Group: "Current Assets"})

	_, err := svc.SaveVoucher(context.Background(), clientID, VoucherInput{
		Type: VoucherSales,
		Date: "2024-12-05",
		Entries: []Entry{
			{LedgerID: cash.ID, Amount: 1000, Side: SideDr},
			{LedgerID: sales.ID, Amount: 900, Side: SideCr},
		},
	})
	if !errors.Is(err, ErrUnbalanced) {
		t.Fatalf("got %v, want ErrUnbalanced", err)
	}
}

func TestSaveVoucherRejectsDanglingLedger(t *testing.T) {
	svc, _, clientID := newTestService()
	cash := mustLedger(t, svc, clientID, LedgerInput{Name: "Cash in Hand", Group: "Current Assets"})

	_, err := svc.SaveVoucher(context.Background(), clientID, VoucherInput{
		Type: VoucherPayment,
		Date: "2024-12-05",
		Entries: []Entry{
			{LedgerID: uuid.New(), Amount: 500, Side: SideDr},
			{LedgerID: cash.ID, Amount: 500, Side: SideCr},
		},
	})
	if !errors.Is(err, ErrDanglingLedger) {
		t.Fatalf("got %v, want ErrDanglingLedger", err)
	}
}

func TestSaveVoucherRejectsForeignPartyLedger(t *testing.T) {
	svc, _, clientID := newTestService()
	cash := mustLedger(t, svc, clientID, LedgerInput{Name: "Cash in Hand", Group: "Current Assets"})
	rent := mustLedger(t, svc, clientID, LedgerInput{Name: "Rent Expense", Group: "Indirect Expenses"})

	_, err := svc.SaveVoucher(context.Background(), clientID, VoucherInput{
		Type:          VoucherPayment,
		Date:          "2024-12-05",
		PartyLedgerID: uuid.New(),
		Entries: []Entry{
			{LedgerID: rent.ID, Amount: 500, Side: SideDr},
			{LedgerID: cash.ID, Amount: 500, Side: SideCr},
		},
	})
	if !errors.Is(err, ErrDanglingLedger) {
		t.Fatalf("got %v, want ErrDanglingLedger", err)
	}
}

func TestSetReconciledRequiresCanonicalDate(t *testing.T) {
	svc, repo, clientID := newTestService()
	id := uuid.New()
	repo.vouchers[id] = Voucher{ID: id, ClientID: clientID, Number: "RCT/2024-2025/0001"}

	if err := svc.SetReconciled(context.Background(), id, true, "26/12/2024"); !errors.Is(err, ErrBadDate) {
		t.Fatalf("got %v, want ErrBadDate", err)
	}
	if err := svc.SetReconciled(context.Background(), id, true, "2024-12-26"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if v := repo.vouchers[id]; !v.IsReconciled || v.ReconcileDate != "2024-12-26" {
		t.Fatalf("flag not persisted: %+v", v)
	}
	// Unmarking clears the date regardless of input.
	if err := svc.SetReconciled(context.Background(), id, false, "garbage"); err != nil {
		t.Fatalf("unmark: %v", err)
	}
	if v := repo.vouchers[id]; v.IsReconciled || v.ReconcileDate != "" {
		t.Fatalf("unmark must clear the date: %+v", v)
	}
}

func TestCheckIntegrityReportsFindings(t *testing.T) {
	svc, repo, clientID := newTestService()
	cash := mustLedger(t, svc, clientID, LedgerInput{Name: "Cash in Hand", Group: "Current Assets"})

	deleted := uuid.New()
	repo.vouchers[uuid.New()] = Voucher{
		ID: uuid.New(), ClientID: clientID, Number: "JRN/2024-2025/0001", Type: VoucherJournal,
		Date: "2024-12-31",
		Entries: []Entry{
			{LedgerID: cash.ID, LedgerName: "Cash in Hand", Amount: 120, Side: SideDr},
			{LedgerID: deleted, LedgerName: "Old Ledger", Amount: 100, Side: SideCr},
		},
	}

	issues, err := svc.CheckIntegrity(context.Background(), clientID)
	if err != nil {
		t.Fatalf("integrity: %v", err)
	}
	// The voucher is both unbalanced and references a deleted ledger.
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
}

func TestCheckIntegrityCleanBooks(t *testing.T) {
	svc, _, clientID := newTestService()
	sales := mustLedger(t, svc, clientID, LedgerInput{Name: "Sales Account", Group: "Direct Income"})
	cash := mustLedger(t, svc, clientID, LedgerInput{Name: "Cash in Hand", Group: "Current Assets"})
	if _, err := svc.SaveVoucher(context.Background(), clientID, VoucherInput{
		Type: VoucherSales,
		Date: "2024-12-05",
		Entries: []Entry{
			{LedgerID: cash.ID, Amount: 100, Side: SideDr},
			{LedgerID: sales.ID, Amount: 100, Side: SideCr},
		},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	issues, err := svc.CheckIntegrity(context.Background(), clientID)
	if err != nil {
		t.Fatalf("integrity: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected clean books, got %+v", issues)
	}
}
