package gst

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type filingRepository struct {
	pool *pgxpool.Pool
}

// NewFilingRepository constructs the Postgres-backed filing store.
func NewFilingRepository(pool *pgxpool.Pool) FilingStore {
	return &filingRepository{pool: pool}
}

func (r *filingRepository) ListFilings(ctx context.Context, clientID uuid.UUID) ([]Filing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT period, return_type, status, filed_on
		FROM gst_filings WHERE client_id = $1 ORDER BY period DESC, return_type`, clientID)
	if err != nil {
		return nil, fmt.Errorf("gst: list filings: %w", err)
	}
	defer rows.Close()

	var filings []Filing
	for rows.Next() {
		var f Filing
		if err := rows.Scan(&f.Period, &f.ReturnType, &f.Status, &f.FiledOn); err != nil {
			return nil, fmt.Errorf("gst: scan filing: %w", err)
		}
		filings = append(filings, f)
	}
	return filings, rows.Err()
}

func (r *filingRepository) SaveFiling(ctx context.Context, clientID uuid.UUID, f Filing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO gst_filings (client_id, period, return_type, status, filed_on)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (client_id, period, return_type) DO UPDATE SET
			status = EXCLUDED.status,
			filed_on = EXCLUDED.filed_on`,
		clientID, f.Period, f.ReturnType, f.Status, f.FiledOn)
	if err != nil {
		return fmt.Errorf("gst: save filing: %w", err)
	}
	return nil
}
