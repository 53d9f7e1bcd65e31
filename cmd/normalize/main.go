// Command normalize brings every payslip file on disk back to its
// canonical location and prints the run summary.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nominadocs/payslip-server/internal/config"
	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/repository/postgres"
	"github.com/nominadocs/payslip-server/internal/service"
	"github.com/nominadocs/payslip-server/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
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

	payslipRepo := postgres.NewPayslipRepository(db)
	relocator := storage.NewRelocator(cfg.Storage.Root, logger)
	normalizeSvc := service.NewNormalize(payslipRepo, relocator, logger)

	logger.Info("normalizing payslip storage", "root", cfg.Storage.Root)
	summary, err := normalizeSvc.Run(ctx)
	if err != nil {
		logger.Fatal("normalization failed", "error", err)
	}

	logger.Info("done",
		"moved", summary.Moved,
		"already_correct", summary.AlreadyCorrect,
		"missing", summary.Missing,
		"failed", summary.Failed)
}
