package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/config"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/repository/sheets"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/repository/workbook"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/scheduler"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/server/handlers"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/server/router"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/insights"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/planning"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/pkg/clients/anthropic"
	whatsappclient "github.com/ROTRMO/Sugeridos-Tienda-Vargas/pkg/clients/whatsapp"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Left as a nil interface when Sheets is not configured.
	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets not configured, only workbook uploads are available")
	}

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, anthropic.WithModel(cfg.AI.Model))
		baseLogger.Info("anthropic ai client enabled", zap.String("model", cfg.AI.Model))
	} else {
		baseLogger.Warn("anthropic api key missing, insights will use the fallback message")
	}

	insightSvc := insights.NewService(aiClient, baseLogger.Named("svc.insights"))
	planSvc := planning.NewService(
		sheetsRepo,
		workbook.NewXLSXReader(baseLogger.Named("repo.workbook")),
		insightSvc,
		cfg.Sheets,
		cfg.Policy,
		baseLogger.Named("svc.planning"),
	)

	planHandler := handlers.NewPlanHandler(planSvc, baseLogger.Named("handlers.plans"))
	engine := router.New(planHandler, baseLogger.Named("router"))

	if sheetsRepo != nil {
		var notifier scheduler.Notifier
		if cfg.WhatsApp.Enabled() {
			notifier = whatsappclient.NewClient(cfg.WhatsApp)
		}

		sched, err := scheduler.NewScheduler(*cfg, planSvc, notifier, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
