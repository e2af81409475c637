package gst

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// Filing records the filing status of one return for one period.
type Filing struct {
	Period     string `json:"period"`
	ReturnType string `json:"returnType"`
	Status     string `json:"status"`
	FiledOn    string `json:"filedOn"`
}

// DataSource abstracts the reads the GST service needs.
type DataSource interface {
	ListLedgers(ctx context.Context, clientID uuid.UUID) ([]books.Ledger, error)
	ListVouchers(ctx context.Context, clientID uuid.UUID) ([]books.Voucher, error)
}

// FilingStore persists filing status per client and period.
type FilingStore interface {
	ListFilings(ctx context.Context, clientID uuid.UUID) ([]Filing, error)
	SaveFiling(ctx context.Context, clientID uuid.UUID, filing Filing) error
}

// Service builds GST returns for a client. Like the financial reports, every
// return is recomputed from the full current collections.
type Service struct {
	source  DataSource
	filings FilingStore
}

// NewService constructs the GST service. The filing store may be nil when
// filing tracking is not wired (e.g. in report-only tooling).
func NewService(source DataSource, filings FilingStore) *Service {
	return &Service{source: source, filings: filings}
}

func (s *Service) load(ctx context.Context, clientID uuid.UUID) ([]books.Ledger, []books.Voucher, error) {
	if s == nil || s.source == nil {
		return nil, nil, errors.New("gst: service not initialised")
	}
	ledgers, err := s.source.ListLedgers(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	vouchers, err := s.source.ListVouchers(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	return ledgers, vouchers, nil
}

func validatePeriod(period Period) error {
	if period.From != "" && !books.CanonicalDate(period.From) {
		return fmt.Errorf("%w: start %q", books.ErrBadDate, period.From)
	}
	if period.To != "" && !books.CanonicalDate(period.To) {
		return fmt.Errorf("%w: end %q", books.ErrBadDate, period.To)
	}
	return nil
}

// Summary builds the GST dashboard summary.
func (s *Service) Summary(ctx context.Context, clientID uuid.UUID) (Summary, error) {
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(ledgers, vouchers), nil
}

// GSTR1 builds the outward-supply return for the period.
func (s *Service) GSTR1(ctx context.Context, clientID uuid.UUID, period Period) (GSTR1, error) {
	if err := validatePeriod(period); err != nil {
		return GSTR1{}, err
	}
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return GSTR1{}, err
	}
	return BuildGSTR1(ledgers, vouchers, period), nil
}

// GSTR3B builds the monthly summary return for the period.
func (s *Service) GSTR3B(ctx context.Context, clientID uuid.UUID, period Period) (GSTR3B, error) {
	if err := validatePeriod(period); err != nil {
		return GSTR3B{}, err
	}
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return GSTR3B{}, err
	}
	return BuildGSTR3B(ledgers, vouchers, period), nil
}

// Filings lists the recorded filing statuses for a client.
func (s *Service) Filings(ctx context.Context, clientID uuid.UUID) ([]Filing, error) {
	if s == nil || s.filings == nil {
		return nil, errors.New("gst: filing store not configured")
	}
	return s.filings.ListFilings(ctx, clientID)
}

// RecordFiling saves or updates the filing status for a period.
func (s *Service) RecordFiling(ctx context.Context, clientID uuid.UUID, filing Filing) error {
	if s == nil || s.filings == nil {
		return errors.New("gst: filing store not configured")
	}
	if filing.Period == "" {
		return errors.New("gst: filing period is required")
	}
	if filing.ReturnType == "" {
		return errors.New("gst: return type is required")
	}
	return s.filings.SaveFiling(ctx, clientID, filing)
}
