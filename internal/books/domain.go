package books

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side is one of the two sides of a double-entry posting.
type Side string

const (
	SideDr Side = "Dr"
	SideCr Side = "Cr"
)

// Valid reports whether the side is one of the two enumerators.
func (s Side) Valid() bool {
	return s == SideDr || s == SideCr
}

// Opposite returns the other posting side.
func (s Side) Opposite() Side {
	if s == SideDr {
		return SideCr
	}
	return SideDr
}

// GroupType classifies a ledger group for statement bucketing.
type GroupType string

const (
	TypeAsset     GroupType = "Asset"
	TypeLiability GroupType = "Liability"
	TypeIncome    GroupType = "Income"
	TypeExpense   GroupType = "Expense"
	TypeCapital   GroupType = "Capital"
)

// GroupInfo describes the fixed nature of an accounting group.
type GroupInfo struct {
	Type      GroupType
	Nature    Side
	SubGroups []string
}

// Groups is the fixed chart-of-accounts group catalogue. Every ledger belongs
// to exactly one group; the group's nature interprets raw Dr/Cr totals.
var Groups = map[string]GroupInfo{
	"Capital Account":     {Type: TypeCapital, Nature: SideCr},
	"Reserves & Surplus":  {Type: TypeCapital, Nature: SideCr},
	"Current Assets":      {Type: TypeAsset, Nature: SideDr, SubGroups: []string{"Cash-in-Hand", "Bank Accounts", "Sundry Debtors", "Stock-in-Trade", "Deposits", "Loans & Advances"}},
	"Fixed Assets":        {Type: TypeAsset, Nature: SideDr, SubGroups: []string{"Land & Building", "Plant & Machinery", "Furniture & Fixtures", "Vehicles", "Computers"}},
	"Investments":         {Type: TypeAsset, Nature: SideDr},
	"Current Liabilities": {Type: TypeLiability, Nature: SideCr, SubGroups: []string{"Sundry Creditors", "Duties & Taxes", "Provisions", "Other Liabilities"}},
	"Loans (Liability)":   {Type: TypeLiability, Nature: SideCr, SubGroups: []string{"Secured Loans", "Unsecured Loans"}},
	"Direct Income":       {Type: TypeIncome, Nature: SideCr, SubGroups: []string{"Sales Account", "Service Revenue"}},
	"Indirect Income":     {Type: TypeIncome, Nature: SideCr, SubGroups: []string{"Interest Received", "Discount Received", "Commission Received"}},
	"Direct Expenses":     {Type: TypeExpense, Nature: SideDr, SubGroups: []string{"Purchases Account", "Freight Inward", "Wages"}},
	"Indirect Expenses":   {Type: TypeExpense, Nature: SideDr, SubGroups: []string{"Salaries", "Rent", "Electricity", "Telephone", "Printing & Stationery", "Travelling", "Professional Fees", "Bank Charges", "Depreciation", "Miscellaneous Expenses"}},
}

// GroupTypeOf returns the statement type for a group name, or false when the
// group is not part of the catalogue.
func GroupTypeOf(group string) (GroupType, bool) {
	info, ok := Groups[group]
	return info.Type, ok
}

// TaxComponent tags a ledger that carries a GST head. It is resolved once at
// ledger save time so report generation never depends on ledger naming.
type TaxComponent string

const (
	TaxCGST TaxComponent = "CGST"
	TaxSGST TaxComponent = "SGST"
	TaxIGST TaxComponent = "IGST"
	TaxCess TaxComponent = "CESS"
	TaxNone TaxComponent = ""
)

// TaxFlow marks a GST ledger as collecting output tax or accruing input credit.
type TaxFlow string

const (
	FlowOutput TaxFlow = "Output"
	FlowInput  TaxFlow = "Input"
	FlowNone   TaxFlow = ""
)

// ResolveTax derives the GST component and flow from a ledger name. The
// substring rules mirror how practices actually name these ledgers
// ("Output CGST", "IGST Input A/c"). Ledgers created through the service are
// tagged with the result, so a later rename cannot silently drop the ledger
// from tax totals.
func ResolveTax(name string) (TaxComponent, TaxFlow) {
	n := strings.ToLower(name)
	var component TaxComponent
	switch {
	case strings.Contains(n, "cgst"):
		component = TaxCGST
	case strings.Contains(n, "sgst"):
		component = TaxSGST
	case strings.Contains(n, "igst"):
		component = TaxIGST
	case strings.Contains(n, "cess"):
		component = TaxCess
	default:
		return TaxNone, FlowNone
	}
	switch {
	case strings.Contains(n, "input"):
		return component, FlowInput
	case strings.Contains(n, "output"):
		return component, FlowOutput
	}
	return component, FlowNone
}

// VoucherType enumerates the supported voucher kinds.
type VoucherType string

const (
	VoucherSales      VoucherType = "sales"
	VoucherPurchase   VoucherType = "purchase"
	VoucherPayment    VoucherType = "payment"
	VoucherReceipt    VoucherType = "receipt"
	VoucherJournal    VoucherType = "journal"
	VoucherContra     VoucherType = "contra"
	VoucherDebitNote  VoucherType = "debit-note"
	VoucherCreditNote VoucherType = "credit-note"
)

// VoucherPrefixes maps voucher types to their numbering prefixes.
var VoucherPrefixes = map[VoucherType]string{
	VoucherSales:      "SAL",
	VoucherPurchase:   "PUR",
	VoucherPayment:    "PAY",
	VoucherReceipt:    "REC",
	VoucherJournal:    "JRN",
	VoucherContra:     "CON",
	VoucherDebitNote:  "DN",
	VoucherCreditNote: "CN",
}

// Valid reports whether the voucher type is known.
func (t VoucherType) Valid() bool {
	_, ok := VoucherPrefixes[t]
	return ok
}

// Prefix returns the numbering prefix for the voucher type.
func (t VoucherType) Prefix() string {
	return VoucherPrefixes[t]
}

// GSTRates are the statutory slab rates offered at ledger entry.
var GSTRates = []float64{0, 5, 12, 18, 28}

// Ledger is one account in a client's chart of accounts.
type Ledger struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	Name           string
	Group          string
	SubGroup       string
	OpeningBalance float64
	OpeningSide    Side
	GSTApplicable  bool
	GSTRate        float64
	GSTIN          string
	State          string
	TaxComponent   TaxComponent
	TaxFlow        TaxFlow
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Entry is one debit or credit line within a voucher. LedgerName is a
// denormalised display copy; LedgerID is authoritative.
type Entry struct {
	LedgerID   uuid.UUID
	LedgerName string
	Amount     float64
	Side       Side
}

// Voucher is one recorded double-entry transaction. Vouchers are immutable
// after save except for the bank reconciliation flag.
type Voucher struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	Number        string
	Type          VoucherType
	Date          string
	Reference     string
	PartyLedgerID uuid.UUID
	Narration     string
	ChequeNo      string
	ChequeDate    string
	Entries       []Entry
	IsReconciled  bool
	ReconcileDate string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Settings holds per-practice defaults.
type Settings struct {
	FinancialYear  string
	DefaultGSTRate float64
	CompanyName    string
	Address        string
	GSTIN          string
	PAN            string
}

var (
	// ErrNotFound indicates a missing ledger, voucher, or client record.
	ErrNotFound = errors.New("books: not found")
	// ErrInvalidInput indicates ledger or voucher input that fails a
	// structural check.
	ErrInvalidInput = errors.New("books: invalid input")
	// ErrUnbalanced indicates voucher entries whose debits and credits differ.
	ErrUnbalanced = errors.New("books: voucher entries do not balance")
	// ErrDanglingLedger indicates an entry referencing an unknown ledger id.
	ErrDanglingLedger = errors.New("books: entry references unknown ledger")
	// ErrBadDate indicates a date that is not canonical YYYY-MM-DD.
	ErrBadDate = errors.New("books: date must be YYYY-MM-DD")
	// ErrTooFewEntries indicates fewer than two voucher lines.
	ErrTooFewEntries = errors.New("books: voucher requires at least two entries")
	// ErrImmutableVoucher indicates an attempt to edit a saved voucher.
	ErrImmutableVoucher = errors.New("books: saved vouchers cannot be edited")
)

// CanonicalDate reports whether s is a valid YYYY-MM-DD date. GST period
// filtering compares dates lexically, which is only sound in this form.
func CanonicalDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

// Validate checks the structural invariants of a voucher prior to the
// balance check: known type, canonical date, positive amounts, valid sides.
func (v Voucher) Validate() error {
	if !v.Type.Valid() {
		return fmt.Errorf("%w: unknown voucher type %q", ErrInvalidInput, v.Type)
	}
	if !CanonicalDate(v.Date) {
		return ErrBadDate
	}
	if len(v.Entries) < 2 {
		return ErrTooFewEntries
	}
	for i, e := range v.Entries {
		if e.LedgerID == uuid.Nil {
			return fmt.Errorf("%w: entry %d missing ledger", ErrInvalidInput, i)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("%w: entry %d amount must be positive", ErrInvalidInput, i)
		}
		if !e.Side.Valid() {
			return fmt.Errorf("%w: entry %d has invalid side %q", ErrInvalidInput, i, e.Side)
		}
	}
	return nil
}
