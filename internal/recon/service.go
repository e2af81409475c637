package recon

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
)

// DataSource is the slice of the books layer the reconciliation view reads.
type DataSource interface {
	GetLedger(ctx context.Context, id uuid.UUID) (books.Ledger, error)
	ListVouchers(ctx context.Context, clientID uuid.UUID) ([]books.Voucher, error)
	SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool, date string) error
}

// Service builds reconciliation views and flips voucher reconciliation flags.
type Service struct {
	source DataSource
}

// NewService constructs a Service.
func NewService(source DataSource) *Service {
	return &Service{source: source}
}

// Statement returns the bank ledger's transactions and summary for a period.
func (s *Service) Statement(ctx context.Context, clientID, bankLedgerID uuid.UUID, period reports.Period) ([]Transaction, Summary, error) {
	ledger, err := s.source.GetLedger(ctx, bankLedgerID)
	if err != nil {
		return nil, Summary{}, err
	}
	if ledger.ClientID != clientID {
		return nil, Summary{}, books.ErrNotFound
	}
	vouchers, err := s.source.ListVouchers(ctx, clientID)
	if err != nil {
		return nil, Summary{}, err
	}

	transactions := Transactions(bankLedgerID, vouchers, period)
	summary := BuildSummary(transactions, ledger.OpeningBalance, ledger.OpeningSide)
	return transactions, summary, nil
}

// Mark flips the reconciliation flag on one voucher. A canonical reconcile
// date is required when marking reconciled.
func (s *Service) Mark(ctx context.Context, voucherID uuid.UUID, reconciled bool, date string) error {
	if err := s.source.SetReconciled(ctx, voucherID, reconciled, date); err != nil {
		return fmt.Errorf("mark voucher %s: %w", voucherID, err)
	}
	return nil
}
