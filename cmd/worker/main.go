package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/mahesh-atx/capro/internal/app"
	"github.com/mahesh-atx/capro/internal/books"
	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/clients"
	"github.com/mahesh-atx/capro/internal/gst"
	"github.com/mahesh-atx/capro/internal/platform/db"
	"github.com/mahesh-atx/capro/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo)

	booksRepo := books.NewRepository(pool)
	booksService := books.NewService(booksRepo)
	reportsService := reports.NewService(booksRepo)

	filingStore := gst.NewFilingRepository(pool)
	gstService := gst.NewService(booksRepo, filingStore)

	integrityJob := jobs.NewBooksIntegrityJob(clientsService, booksService, reportsService, logger)
	reminderJob := jobs.NewGSTReminderJob(clientsService, gstService, logger)

	integrityTask, err := jobs.NewBooksIntegrityTask(jobs.BooksIntegrityPayload{})
	if err != nil {
		logger.Error("build integrity task", slog.Any("error", err))
		os.Exit(1)
	}
	reminderTask, err := jobs.NewGSTReminderTask(jobs.GSTReminderPayload{})
	if err != nil {
		logger.Error("build reminder task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBooksIntegrityScan, Handler: integrityJob.Handle},
			{Type: jobs.TaskGSTFilingReminder, Handler: reminderJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 1 * * *", Task: integrityTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			// GST returns for a month fall due on the 11th (GSTR-1) and the
			// 20th (GSTR-3B); remind a few days ahead of each.
			{Spec: "0 9 8,17 * *", Task: reminderTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
