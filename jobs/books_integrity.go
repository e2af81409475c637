package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/clients"
	jobmetrics "github.com/mahesh-atx/capro/internal/jobs"
)

const integrityConcurrency = 4

// BooksIntegrityJob recomputes every client's trial balance and runs the
// integrity scan. Findings are logged at WARN; the job never mutates data.
type BooksIntegrityJob struct {
	Clients *clients.Service
	Books   *books.Service
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewBooksIntegrityJob constructs the job handler.
func NewBooksIntegrityJob(clientsSvc *clients.Service, booksSvc *books.Service, reportsSvc *reports.Service, logger *slog.Logger) *BooksIntegrityJob {
	return &BooksIntegrityJob{
		Clients: clientsSvc,
		Books:   booksSvc,
		Reports: reportsSvc,
		Logger:  logger,
		Metrics: jobmetrics.NewMetrics(nil),
	}
}

// Handle executes the scan, fanning out across clients.
func (j *BooksIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Clients == nil || j.Books == nil || j.Reports == nil {
		return errors.New("books integrity: handler not configured")
	}
	tracker := j.Metrics.Track("books_integrity")
	var payload BooksIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	ids := payload.ClientIDs
	if len(ids) == 0 {
		all, err := j.Clients.List(ctx)
		if err != nil {
			return tracker.End(err)
		}
		for _, c := range all {
			ids = append(ids, c.ID)
		}
	}

	j.logger().Info("starting books integrity scan", slog.Int("clients", len(ids)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(integrityConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return j.scanClient(ctx, id)
		})
	}
	return tracker.End(g.Wait())
}

func (j *BooksIntegrityJob) scanClient(ctx context.Context, clientID uuid.UUID) error {
	logger := j.logger().With(slog.String("client_id", clientID.String()))

	tb, err := j.Reports.TrialBalance(ctx, clientID)
	if err != nil {
		return err
	}
	if !tb.Balanced {
		logger.Warn("trial balance out of balance",
			slog.Float64("total_dr", tb.TotalDr),
			slog.Float64("total_cr", tb.TotalCr))
		j.Metrics.AddFindings("trial_balance", clientID.String(), 1)
	}

	issues, err := j.Books.CheckIntegrity(ctx, clientID)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		logger.Warn("integrity issue",
			slog.String("voucher", issue.VoucherNumber),
			slog.String("detail", issue.Detail))
	}
	j.Metrics.AddFindings("voucher", clientID.String(), len(issues))
	if len(issues) == 0 && tb.Balanced {
		logger.Info("books clean")
	}
	return nil
}

func (j *BooksIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
