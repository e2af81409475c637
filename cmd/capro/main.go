package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mahesh-atx/capro/internal/app"
	"github.com/mahesh-atx/capro/internal/auth"
	"github.com/mahesh-atx/capro/internal/books"
	bookshttp "github.com/mahesh-atx/capro/internal/books/http"
	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/clients"
	"github.com/mahesh-atx/capro/internal/gst"
	"github.com/mahesh-atx/capro/internal/observability"
	"github.com/mahesh-atx/capro/internal/payroll"
	"github.com/mahesh-atx/capro/internal/platform/cache"
	"github.com/mahesh-atx/capro/internal/platform/db"
	"github.com/mahesh-atx/capro/internal/recon"
	"github.com/mahesh-atx/capro/jobs"
	"github.com/mahesh-atx/capro/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := auth.NewSessionManager(redisClient, "capro_session", cfg.SessionTTL, cfg.IsProduction())
	authHandler := auth.NewHandler(logger, sessionManager)

	metrics := observability.NewMetrics()

	clientsRepo := clients.NewRepository(dbpool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	booksRepo := books.NewRepository(dbpool)
	booksService := books.NewService(booksRepo)
	reportsService := reports.NewService(booksRepo)

	reportClient := report.NewClient(cfg.GotenbergURL)
	booksHandler := bookshttp.NewHandler(logger, booksService, reportsService, reportClient, metrics)

	filingStore := gst.NewFilingRepository(dbpool)
	gstService := gst.NewService(booksRepo, filingStore)
	gstHandler := gst.NewHandler(logger, gstService)

	payrollRepo := payroll.NewRepository(dbpool)
	payrollService := payroll.NewService(payrollRepo)
	payrollHandler := payroll.NewHandler(logger, payrollService)

	reconService := recon.NewService(booksService)
	reconHandler := recon.NewHandler(logger, reconService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		AuthHandler:    authHandler,
		ClientsHandler: clientsHandler,
		BooksHandler:   booksHandler,
		GSTHandler:     gstHandler,
		PayrollHandler: payrollHandler,
		ReconHandler:   reconHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
