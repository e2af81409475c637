package gst

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	_ "github.com/mahesh-atx/capro/testing"
)

func taggedLedger(clientID uuid.UUID, name, group string) books.Ledger {
	component, flow := books.ResolveTax(name)
	return books.Ledger{
		ID: uuid.New(), ClientID: clientID, Name: name, Group: group,
		TaxComponent: component, TaxFlow: flow,
	}
}

func TestSplitRate(t *testing.T) {
	intra := SplitRate(1000, 18, false)
	if intra.CGST != 90 || intra.SGST != 90 || intra.IGST != 0 || intra.Total != 1180 {
		t.Fatalf("intra-state split wrong: %+v", intra)
	}
	inter := SplitRate(1000, 18, true)
	if inter.IGST != 180 || inter.CGST != 0 || inter.SGST != 0 || inter.Total != 1180 {
		t.Fatalf("inter-state split wrong: %+v", inter)
	}
}

func TestBuildSummary(t *testing.T) {
	clientID := uuid.New()
	sales := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Sales Account", Group: "Direct Income"}
	cgstOut := taggedLedger(clientID, "CGST Output", "Current Liabilities")
	sgstOut := taggedLedger(clientID, "SGST Output", "Current Liabilities")
	cgstIn := taggedLedger(clientID, "CGST Input", "Current Assets")
	sgstIn := taggedLedger(clientID, "SGST Input", "Current Assets")
	party := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "XYZ Traders", Group: "Current Assets"}
	purchase := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Purchase Account", Group: "Direct Expenses"}

	ledgers := []books.Ledger{sales, cgstOut, sgstOut, cgstIn, sgstIn, party, purchase}
	vouchers := []books.Voucher{
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherSales, Date: "2024-12-05",
			Entries: []books.Entry{
				{LedgerID: party.ID, Amount: 1180, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 1000, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 90, Side: books.SideCr},
				{LedgerID: sgstOut.ID, Amount: 90, Side: books.SideCr},
			},
		},
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherPurchase, Date: "2024-12-10",
			Entries: []books.Entry{
				{LedgerID: purchase.ID, Amount: 500, Side: books.SideDr},
				{LedgerID: cgstIn.ID, Amount: 45, Side: books.SideDr},
				{LedgerID: sgstIn.ID, Amount: 45, Side: books.SideDr},
				{LedgerID: party.ID, Amount: 590, Side: books.SideCr},
			},
		},
	}

	s := BuildSummary(ledgers, vouchers)
	if s.OutputCGST != 90 || s.OutputSGST != 90 {
		t.Fatalf("output heads wrong: %+v", s)
	}
	if s.InputCGST != 45 || s.InputSGST != 45 {
		t.Fatalf("input heads wrong: %+v", s)
	}
	if s.TotalOutput != 180 || s.TotalInput != 90 || s.NetPayable != 90 {
		t.Fatalf("totals wrong: %+v", s)
	}
}

func gstr1Fixture() (uuid.UUID, []books.Ledger, []books.Voucher) {
	clientID := uuid.New()
	sales := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Sales Account", Group: "Direct Income"}
	cgstOut := taggedLedger(clientID, "CGST Output", "Current Liabilities")
	sgstOut := taggedLedger(clientID, "SGST Output", "Current Liabilities")
	igstOut := taggedLedger(clientID, "IGST Output", "Current Liabilities")
	registered := books.Ledger{
		ID: uuid.New(), ClientID: clientID, Name: "XYZ Traders", Group: "Current Assets",
		GSTIN: "27AABCT1234R1ZQ", State: "Maharashtra",
	}
	walkin := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Walk-in Customer", Group: "Current Assets"}
	interstate := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Out of State Buyer", Group: "Current Assets", State: "Karnataka"}

	ledgers := []books.Ledger{sales, cgstOut, sgstOut, igstOut, registered, walkin, interstate}
	vouchers := []books.Voucher{
		{
			// B2B: registered party.
			ID: uuid.New(), ClientID: clientID, Number: "SAL/2024-2025/0001",
			Type: books.VoucherSales, Date: "2024-12-05", PartyLedgerID: registered.ID,
			Entries: []books.Entry{
				{LedgerID: registered.ID, Amount: 236000, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 200000, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 18000, Side: books.SideCr},
				{LedgerID: sgstOut.ID, Amount: 18000, Side: books.SideCr},
			},
		},
		{
			// B2C-Large: unregistered, IGST, taxable over 2.5 lakh.
			ID: uuid.New(), ClientID: clientID, Number: "SAL/2024-2025/0002",
			Type: books.VoucherSales, Date: "2024-12-10", PartyLedgerID: interstate.ID,
			Entries: []books.Entry{
				{LedgerID: interstate.ID, Amount: 354000, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 300000, Side: books.SideCr},
				{LedgerID: igstOut.ID, Amount: 54000, Side: books.SideCr},
			},
		},
		{
			// B2C-Small: unregistered intra-state.
			ID: uuid.New(), ClientID: clientID, Number: "SAL/2024-2025/0003",
			Type: books.VoucherSales, Date: "2024-12-15", PartyLedgerID: walkin.ID,
			Entries: []books.Entry{
				{LedgerID: walkin.ID, Amount: 1180, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 1000, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 90, Side: books.SideCr},
				{LedgerID: sgstOut.ID, Amount: 90, Side: books.SideCr},
			},
		},
		{
			// Credit note, bucketed separately.
			ID: uuid.New(), ClientID: clientID, Number: "CN/2024-2025/0001",
			Type: books.VoucherCreditNote, Date: "2024-12-20", PartyLedgerID: registered.ID,
			Entries: []books.Entry{
				{LedgerID: sales.ID, Amount: 10000, Side: books.SideDr},
				{LedgerID: registered.ID, Amount: 10000, Side: books.SideCr},
			},
		},
		{
			// Outside the period.
			ID: uuid.New(), ClientID: clientID, Number: "SAL/2024-2025/0004",
			Type: books.VoucherSales, Date: "2025-01-02", PartyLedgerID: walkin.ID,
			Entries: []books.Entry{
				{LedgerID: walkin.ID, Amount: 118, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 100, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 9, Side: books.SideCr},
				{LedgerID: sgstOut.ID, Amount: 9, Side: books.SideCr},
			},
		},
	}
	return clientID, ledgers, vouchers
}

func TestBuildGSTR1Bucketing(t *testing.T) {
	_, ledgers, vouchers := gstr1Fixture()
	period := Period{From: "2024-12-01", To: "2024-12-31"}
	r := BuildGSTR1(ledgers, vouchers, period)

	if got := len(r.B2B.Items); got != 1 {
		t.Fatalf("B2B count = %d, want 1", got)
	}
	if r.B2B.Items[0].GSTIN != "27AABCT1234R1ZQ" || r.B2B.Items[0].TaxableValue != 200000 {
		t.Fatalf("B2B invoice wrong: %+v", r.B2B.Items[0])
	}
	if got := len(r.B2CLarge.Items); got != 1 {
		t.Fatalf("B2C-Large count = %d, want 1", got)
	}
	if r.B2CLarge.Items[0].IGST != 54000 {
		t.Fatalf("B2C-Large IGST = %v, want 54000", r.B2CLarge.Items[0].IGST)
	}
	if got := len(r.B2CSmall.Items); got != 1 {
		t.Fatalf("B2C-Small count = %d, want 1", got)
	}
	if got := len(r.CreditDebitNotes.Items); got != 1 {
		t.Fatalf("credit/debit note count = %d, want 1", got)
	}

	// Grand totals cover supplies only, not notes.
	if r.GrandTotals.Count != 3 {
		t.Fatalf("GrandTotals.Count = %d, want 3", r.GrandTotals.Count)
	}
	if r.GrandTotals.TaxableValue != 501000 {
		t.Fatalf("GrandTotals.TaxableValue = %v, want 501000", r.GrandTotals.TaxableValue)
	}
}

func TestBuildGSTR1SectionTotals(t *testing.T) {
	_, ledgers, vouchers := gstr1Fixture()
	r := BuildGSTR1(ledgers, vouchers, Period{From: "2024-12-01", To: "2024-12-31"})
	if r.B2B.Totals.CGST != 18000 || r.B2B.Totals.SGST != 18000 {
		t.Fatalf("B2B totals wrong: %+v", r.B2B.Totals)
	}
	if r.B2B.Totals.TotalValue != 236000 {
		t.Fatalf("B2B total value = %v, want 236000", r.B2B.Totals.TotalValue)
	}
}

func TestBuildGSTR3BHeadIsolation(t *testing.T) {
	clientID := uuid.New()
	sales := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Sales Account", Group: "Direct Income"}
	cgstOut := taggedLedger(clientID, "CGST Output", "Current Liabilities")
	sgstOut := taggedLedger(clientID, "SGST Output", "Current Liabilities")
	igstIn := taggedLedger(clientID, "IGST Input", "Current Assets")
	purchase := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Purchase Account", Group: "Direct Expenses"}
	party := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "XYZ Traders", Group: "Current Assets"}

	ledgers := []books.Ledger{sales, cgstOut, sgstOut, igstIn, purchase, party}
	vouchers := []books.Voucher{
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherSales, Date: "2024-12-05",
			Entries: []books.Entry{
				{LedgerID: party.ID, Amount: 1180, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 1000, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 90, Side: books.SideCr},
				{LedgerID: sgstOut.ID, Amount: 90, Side: books.SideCr},
			},
		},
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherPurchase, Date: "2024-12-10",
			Entries: []books.Entry{
				{LedgerID: purchase.ID, Amount: 2000, Side: books.SideDr},
				{LedgerID: igstIn.ID, Amount: 360, Side: books.SideDr},
				{LedgerID: party.ID, Amount: 2360, Side: books.SideCr},
			},
		},
	}

	r := BuildGSTR3B(ledgers, vouchers, Period{From: "2024-12-01", To: "2024-12-31"})

	if r.TaxPayable.CGST != 90 || r.TaxPayable.SGST != 90 || r.TaxPayable.IGST != 0 {
		t.Fatalf("payable wrong: %+v", r.TaxPayable)
	}
	if r.EligibleITC.Net.IGST != 360 {
		t.Fatalf("net ITC IGST = %v, want 360", r.EligibleITC.Net.IGST)
	}
	// IGST credit must not settle CGST or SGST payable.
	if r.TaxPaidITC.CGST != 0 || r.TaxPaidITC.SGST != 0 {
		t.Fatalf("cross-head settlement happened: %+v", r.TaxPaidITC)
	}
	if r.TaxPaidCash.CGST != 90 || r.TaxPaidCash.SGST != 90 {
		t.Fatalf("cash payment wrong: %+v", r.TaxPaidCash)
	}
	if r.OutwardSupplies.TaxableOutward.TaxableValue != 1000 {
		t.Fatalf("taxable value = %v, want 1000", r.OutwardSupplies.TaxableOutward.TaxableValue)
	}
}

func TestBuildGSTR3BITCSettlement(t *testing.T) {
	clientID := uuid.New()
	sales := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Sales Account", Group: "Direct Income"}
	cgstOut := taggedLedger(clientID, "CGST Output", "Current Liabilities")
	cgstIn := taggedLedger(clientID, "CGST Input", "Current Assets")
	purchase := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "Purchase Account", Group: "Direct Expenses"}
	party := books.Ledger{ID: uuid.New(), ClientID: clientID, Name: "XYZ Traders", Group: "Current Assets"}

	ledgers := []books.Ledger{sales, cgstOut, cgstIn, purchase, party}
	vouchers := []books.Voucher{
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherSales, Date: "2024-12-05",
			Entries: []books.Entry{
				{LedgerID: party.ID, Amount: 1090, Side: books.SideDr},
				{LedgerID: sales.ID, Amount: 1000, Side: books.SideCr},
				{LedgerID: cgstOut.ID, Amount: 90, Side: books.SideCr},
			},
		},
		{
			ID: uuid.New(), ClientID: clientID, Type: books.VoucherPurchase, Date: "2024-12-10",
			Entries: []books.Entry{
				{LedgerID: purchase.ID, Amount: 400, Side: books.SideDr},
				{LedgerID: cgstIn.ID, Amount: 36, Side: books.SideDr},
				{LedgerID: party.ID, Amount: 436, Side: books.SideCr},
			},
		},
	}

	r := BuildGSTR3B(ledgers, vouchers, Period{})
	// Credit 36 offsets payable 90; the rest is cash.
	if r.TaxPaidITC.CGST != 36 {
		t.Fatalf("TaxPaidITC.CGST = %v, want 36", r.TaxPaidITC.CGST)
	}
	if r.TaxPaidCash.CGST != 54 {
		t.Fatalf("TaxPaidCash.CGST = %v, want 54", r.TaxPaidCash.CGST)
	}
}

// fakeGSTSource serves fixed collections.
type fakeGSTSource struct {
	ledgers  []books.Ledger
	vouchers []books.Voucher
}

func (s fakeGSTSource) ListLedgers(_ context.Context, _ uuid.UUID) ([]books.Ledger, error) {
	return s.ledgers, nil
}

func (s fakeGSTSource) ListVouchers(_ context.Context, _ uuid.UUID) ([]books.Voucher, error) {
	return s.vouchers, nil
}

func TestServiceRejectsBadPeriod(t *testing.T) {
	svc := NewService(fakeGSTSource{}, nil)
	_, err := svc.GSTR1(context.Background(), uuid.New(), Period{From: "01-12-2024"})
	if !errors.Is(err, books.ErrBadDate) {
		t.Fatalf("got %v, want ErrBadDate", err)
	}
	_, err = svc.GSTR3B(context.Background(), uuid.New(), Period{To: "2024-13-40"})
	if !errors.Is(err, books.ErrBadDate) {
		t.Fatalf("got %v, want ErrBadDate", err)
	}
}

func TestRecordFilingValidation(t *testing.T) {
	store := &memFilings{filings: map[uuid.UUID][]Filing{}}
	svc := NewService(fakeGSTSource{}, store)
	clientID := uuid.New()

	if err := svc.RecordFiling(context.Background(), clientID, Filing{ReturnType: "GSTR-1"}); err == nil {
		t.Fatal("missing period must be rejected")
	}
	if err := svc.RecordFiling(context.Background(), clientID, Filing{Period: "12-2024"}); err == nil {
		t.Fatal("missing return type must be rejected")
	}
	filing := Filing{Period: "12-2024", ReturnType: "GSTR-1", Status: "filed", FiledOn: "2025-01-10"}
	if err := svc.RecordFiling(context.Background(), clientID, filing); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := svc.Filings(context.Background(), clientID)
	if err != nil {
		t.Fatalf("filings: %v", err)
	}
	if len(got) != 1 || got[0].Status != "filed" {
		t.Fatalf("unexpected filings: %+v", got)
	}
}

type memFilings struct {
	filings map[uuid.UUID][]Filing
}

func (m *memFilings) ListFilings(_ context.Context, clientID uuid.UUID) ([]Filing, error) {
	return m.filings[clientID], nil
}

func (m *memFilings) SaveFiling(_ context.Context, clientID uuid.UUID, f Filing) error {
	m.filings[clientID] = append(m.filings[clientID], f)
	return nil
}
