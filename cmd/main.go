package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	api "github.com/nominadocs/payslip-server/internal/api/http"
	"github.com/nominadocs/payslip-server/internal/config"
	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/reconcile"
	"github.com/nominadocs/payslip-server/internal/repository/postgres"
	"github.com/nominadocs/payslip-server/internal/service"
	"github.com/nominadocs/payslip-server/internal/storage"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.Storage.Root, 0o755); err != nil {
		logger.Fatal("failed to create storage root", "root", cfg.Storage.Root, "error", err)
	}

	employeeRepo := postgres.NewEmployeeRepository(db)
	payslipRepo := postgres.NewPayslipRepository(db)

	committer := reconcile.NewCommitter(employeeRepo, logger)
	importSvc := service.NewImport(employeeRepo, committer, logger)
	payslipSvc := service.NewPayslip(employeeRepo, payslipRepo, cfg.Storage.Root, logger)
	relocator := storage.NewRelocator(cfg.Storage.Root, logger)
	normalizeSvc := service.NewNormalize(payslipRepo, relocator, logger)

	handler := api.NewHandler(importSvc, payslipSvc, normalizeSvc, db, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler: handler.Router(cfg.HTTP.PublicDir),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Addr)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
