package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahesh-atx/capro/internal/platform/db"
)

// Repository defines the persistence surface required by the books service.
// Report builders stay pure; everything stateful goes through here.
type Repository interface {
	ListLedgers(ctx context.Context, clientID uuid.UUID) ([]Ledger, error)
	GetLedger(ctx context.Context, id uuid.UUID) (Ledger, error)
	SaveLedger(ctx context.Context, ledger Ledger) error
	DeleteLedger(ctx context.Context, id uuid.UUID) error

	ListVouchers(ctx context.Context, clientID uuid.UUID) ([]Voucher, error)
	GetVoucher(ctx context.Context, id uuid.UUID) (Voucher, error)
	CreateVoucher(ctx context.Context, voucher Voucher) error
	DeleteVoucher(ctx context.Context, id uuid.UUID) error
	SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool, date string) error
	CountVouchersByNumber(ctx context.Context, clientID uuid.UUID, prefix, financialYear string) (int, error)

	GetSettings(ctx context.Context, clientID uuid.UUID) (Settings, error)
	SaveSettings(ctx context.Context, clientID uuid.UUID, settings Settings) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const ledgerColumns = `id, client_id, name, account_group, sub_group, opening_balance, opening_side,
	gst_applicable, gst_rate, gstin, state, tax_component, tax_flow, created_at, updated_at`

func scanLedger(row pgx.Row) (Ledger, error) {
	var l Ledger
	err := row.Scan(&l.ID, &l.ClientID, &l.Name, &l.Group, &l.SubGroup, &l.OpeningBalance,
		&l.OpeningSide, &l.GSTApplicable, &l.GSTRate, &l.GSTIN, &l.State,
		&l.TaxComponent, &l.TaxFlow, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *repository) ListLedgers(ctx context.Context, clientID uuid.UUID) ([]Ledger, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledgers WHERE client_id = $1 ORDER BY name`, clientID)
	if err != nil {
		return nil, fmt.Errorf("books: list ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []Ledger
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("books: scan ledger: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

func (r *repository) GetLedger(ctx context.Context, id uuid.UUID) (Ledger, error) {
	l, err := scanLedger(r.pool.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledgers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Ledger{}, ErrNotFound
	}
	if err != nil {
		return Ledger{}, fmt.Errorf("books: get ledger: %w", err)
	}
	return l, nil
}

func (r *repository) SaveLedger(ctx context.Context, l Ledger) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ledgers (id, client_id, name, account_group, sub_group, opening_balance, opening_side,
			gst_applicable, gst_rate, gstin, state, tax_component, tax_flow, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			account_group = EXCLUDED.account_group,
			sub_group = EXCLUDED.sub_group,
			opening_balance = EXCLUDED.opening_balance,
			opening_side = EXCLUDED.opening_side,
			gst_applicable = EXCLUDED.gst_applicable,
			gst_rate = EXCLUDED.gst_rate,
			gstin = EXCLUDED.gstin,
			state = EXCLUDED.state,
			tax_component = EXCLUDED.tax_component,
			tax_flow = EXCLUDED.tax_flow,
			updated_at = EXCLUDED.updated_at`,
		l.ID, l.ClientID, l.Name, l.Group, l.SubGroup, l.OpeningBalance, l.OpeningSide,
		l.GSTApplicable, l.GSTRate, l.GSTIN, l.State, l.TaxComponent, l.TaxFlow,
		l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("books: save ledger: %w", err)
	}
	return nil
}

// DeleteLedger removes the ledger only. Vouchers referencing it become
// dangling; the integrity scan reports them rather than cascading.
func (r *repository) DeleteLedger(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ledgers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("books: delete ledger: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListVouchers(ctx context.Context, clientID uuid.UUID) ([]Voucher, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, number, voucher_type, voucher_date, reference, party_ledger_id,
			narration, cheque_no, cheque_date, is_reconciled, reconcile_date, created_at, updated_at
		FROM vouchers WHERE client_id = $1 ORDER BY voucher_date, number`, clientID)
	if err != nil {
		return nil, fmt.Errorf("books: list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []Voucher
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var v Voucher
		var party *uuid.UUID
		if err := rows.Scan(&v.ID, &v.ClientID, &v.Number, &v.Type, &v.Date, &v.Reference,
			&party, &v.Narration, &v.ChequeNo, &v.ChequeDate, &v.IsReconciled,
			&v.ReconcileDate, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("books: scan voucher: %w", err)
		}
		if party != nil {
			v.PartyLedgerID = *party
		}
		index[v.ID] = len(vouchers)
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := r.pool.Query(ctx, `
		SELECT e.voucher_id, e.ledger_id, e.ledger_name, e.amount, e.side
		FROM voucher_entries e
		JOIN vouchers v ON v.id = e.voucher_id
		WHERE v.client_id = $1
		ORDER BY e.voucher_id, e.line_no`, clientID)
	if err != nil {
		return nil, fmt.Errorf("books: list entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var voucherID uuid.UUID
		var e Entry
		if err := entryRows.Scan(&voucherID, &e.LedgerID, &e.LedgerName, &e.Amount, &e.Side); err != nil {
			return nil, fmt.Errorf("books: scan entry: %w", err)
		}
		if i, ok := index[voucherID]; ok {
			vouchers[i].Entries = append(vouchers[i].Entries, e)
		}
	}
	return vouchers, entryRows.Err()
}

func (r *repository) GetVoucher(ctx context.Context, id uuid.UUID) (Voucher, error) {
	var v Voucher
	var party *uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id, client_id, number, voucher_type, voucher_date, reference, party_ledger_id,
			narration, cheque_no, cheque_date, is_reconciled, reconcile_date, created_at, updated_at
		FROM vouchers WHERE id = $1`, id).
		Scan(&v.ID, &v.ClientID, &v.Number, &v.Type, &v.Date, &v.Reference, &party,
			&v.Narration, &v.ChequeNo, &v.ChequeDate, &v.IsReconciled, &v.ReconcileDate,
			&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, ErrNotFound
	}
	if err != nil {
		return Voucher{}, fmt.Errorf("books: get voucher: %w", err)
	}
	if party != nil {
		v.PartyLedgerID = *party
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ledger_id, ledger_name, amount, side
		FROM voucher_entries WHERE voucher_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return Voucher{}, fmt.Errorf("books: get entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.LedgerID, &e.LedgerName, &e.Amount, &e.Side); err != nil {
			return Voucher{}, fmt.Errorf("books: scan entry: %w", err)
		}
		v.Entries = append(v.Entries, e)
	}
	return v, rows.Err()
}

// CreateVoucher writes the voucher header and its entries in one transaction
// so a partial voucher can never corrupt report data.
func (r *repository) CreateVoucher(ctx context.Context, v Voucher) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var party *uuid.UUID
		if v.PartyLedgerID != uuid.Nil {
			party = &v.PartyLedgerID
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO vouchers (id, client_id, number, voucher_type, voucher_date, reference,
				party_ledger_id, narration, cheque_no, cheque_date, is_reconciled, reconcile_date,
				created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			v.ID, v.ClientID, v.Number, v.Type, v.Date, v.Reference, party, v.Narration,
			v.ChequeNo, v.ChequeDate, v.IsReconciled, v.ReconcileDate, v.CreatedAt, v.UpdatedAt); err != nil {
			return fmt.Errorf("books: insert voucher: %w", err)
		}
		for i, e := range v.Entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO voucher_entries (voucher_id, line_no, ledger_id, ledger_name, amount, side)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				v.ID, i, e.LedgerID, e.LedgerName, e.Amount, e.Side); err != nil {
				return fmt.Errorf("books: insert entry %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *repository) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM voucher_entries WHERE voucher_id = $1`, id); err != nil {
			return fmt.Errorf("books: delete entries: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("books: delete voucher: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repository) SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool, date string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vouchers SET is_reconciled = $2, reconcile_date = $3, updated_at = now()
		WHERE id = $1`, id, reconciled, date)
	if err != nil {
		return fmt.Errorf("books: set reconciled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CountVouchersByNumber(ctx context.Context, clientID uuid.UUID, prefix, financialYear string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM vouchers
		WHERE client_id = $1 AND number LIKE $2`,
		clientID, prefix+"/"+financialYear+"/%").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("books: count vouchers: %w", err)
	}
	return count, nil
}

func (r *repository) GetSettings(ctx context.Context, clientID uuid.UUID) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT financial_year, default_gst_rate, company_name, address, gstin, pan
		FROM practice_settings WHERE client_id = $1`, clientID).
		Scan(&s.FinancialYear, &s.DefaultGSTRate, &s.CompanyName, &s.Address, &s.GSTIN, &s.PAN)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{FinancialYear: CurrentFinancialYear(timeNow()), DefaultGSTRate: 18}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("books: get settings: %w", err)
	}
	return s, nil
}

func (r *repository) SaveSettings(ctx context.Context, clientID uuid.UUID, s Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO practice_settings (client_id, financial_year, default_gst_rate, company_name, address, gstin, pan)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (client_id) DO UPDATE SET
			financial_year = EXCLUDED.financial_year,
			default_gst_rate = EXCLUDED.default_gst_rate,
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			gstin = EXCLUDED.gstin,
			pan = EXCLUDED.pan`,
		clientID, s.FinancialYear, s.DefaultGSTRate, s.CompanyName, s.Address, s.GSTIN, s.PAN)
	if err != nil {
		return fmt.Errorf("books: save settings: %w", err)
	}
	return nil
}
