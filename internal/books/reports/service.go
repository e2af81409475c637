package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// DataSource abstracts the reads the report service needs. The books
// repository satisfies it; tests substitute an in-memory fake.
type DataSource interface {
	ListLedgers(ctx context.Context, clientID uuid.UUID) ([]books.Ledger, error)
	ListVouchers(ctx context.Context, clientID uuid.UUID) ([]books.Voucher, error)
	GetLedger(ctx context.Context, id uuid.UUID) (books.Ledger, error)
}

// Service loads a client's books and runs the pure builders. It holds no
// state between calls; each report is recomputed from the current data.
type Service struct {
	source DataSource
}

// NewService constructs the report service.
func NewService(source DataSource) *Service {
	return &Service{source: source}
}

func (s *Service) load(ctx context.Context, clientID uuid.UUID) ([]books.Ledger, []books.Voucher, error) {
	if s == nil || s.source == nil {
		return nil, nil, errors.New("reports: service not initialised")
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

// TrialBalance builds the trial balance for a client.
func (s *Service) TrialBalance(ctx context.Context, clientID uuid.UUID) (TrialBalance, error) {
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(ledgers, vouchers), nil
}

// ProfitLoss builds the profit and loss statement for a client.
func (s *Service) ProfitLoss(ctx context.Context, clientID uuid.UUID) (ProfitLoss, error) {
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return ProfitLoss{}, err
	}
	return BuildProfitLoss(ledgers, vouchers), nil
}

// BalanceSheet builds the balance sheet for a client.
func (s *Service) BalanceSheet(ctx context.Context, clientID uuid.UUID) (BalanceSheet, error) {
	ledgers, vouchers, err := s.load(ctx, clientID)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(ledgers, vouchers), nil
}

// DayBook builds the voucher register for a client over a period.
func (s *Service) DayBook(ctx context.Context, clientID uuid.UUID, period Period) (DayBook, error) {
	if s == nil || s.source == nil {
		return DayBook{}, errors.New("reports: service not initialised")
	}
	vouchers, err := s.source.ListVouchers(ctx, clientID)
	if err != nil {
		return DayBook{}, err
	}
	return BuildDayBook(vouchers, period), nil
}

// Statement builds the account statement for one ledger over a period.
func (s *Service) Statement(ctx context.Context, clientID, ledgerID uuid.UUID, period Period) (Statement, error) {
	if s == nil || s.source == nil {
		return Statement{}, errors.New("reports: service not initialised")
	}
	ledger, err := s.source.GetLedger(ctx, ledgerID)
	if err != nil {
		return Statement{}, err
	}
	if ledger.ClientID != clientID {
		return Statement{}, books.ErrNotFound
	}
	vouchers, err := s.source.ListVouchers(ctx, clientID)
	if err != nil {
		return Statement{}, err
	}
	return BuildStatement(ledger, vouchers, period), nil
}
