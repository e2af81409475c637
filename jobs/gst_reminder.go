package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mahesh-atx/capro/internal/clients"
	"github.com/mahesh-atx/capro/internal/gst"
	jobmetrics "github.com/mahesh-atx/capro/internal/jobs"
)

// GSTReminderJob flags clients with no recorded filing for the period.
type GSTReminderJob struct {
	Clients *clients.Service
	GST     *gst.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewGSTReminderJob constructs the job handler.
func NewGSTReminderJob(clientsSvc *clients.Service, gstSvc *gst.Service, logger *slog.Logger) *GSTReminderJob {
	return &GSTReminderJob{
		Clients: clientsSvc,
		GST:     gstSvc,
		Logger:  logger,
		Metrics: jobmetrics.NewMetrics(nil),
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// Handle checks every client's filings for the period.
func (j *GSTReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Clients == nil || j.GST == nil {
		return errors.New("gst reminder: handler not configured")
	}
	tracker := j.Metrics.Track("gst_reminder")
	var payload GSTReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	period := payload.Period
	if period == "" {
		prev := j.clock().AddDate(0, -1, 0)
		period = fmt.Sprintf("%02d-%d", prev.Month(), prev.Year())
	}

	all, err := j.Clients.List(ctx)
	if err != nil {
		return tracker.End(err)
	}

	logger := j.logger().With(slog.String("period", period))
	for _, c := range all {
		filings, err := j.GST.Filings(ctx, c.ID)
		if err != nil {
			return tracker.End(fmt.Errorf("filings for client %s: %w", c.ID, err))
		}
		missing := map[string]bool{"GSTR-1": true, "GSTR-3B": true}
		for _, f := range filings {
			if f.Period == period && f.Status == "filed" {
				delete(missing, f.ReturnType)
			}
		}
		for returnType := range missing {
			logger.Warn("gst return not filed",
				slog.String("client", c.Name),
				slog.String("return", returnType))
		}
		j.Metrics.AddFindings("unfiled_return", c.ID.String(), len(missing))
	}
	return tracker.End(nil)
}

func (j *GSTReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
