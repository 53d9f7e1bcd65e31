package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/storage"
)

// Normalize reconciles payslip files on disk against the canonical layout
// derived from the store. The relative_path column is not rewritten after a
// move: the canonical location is always derivable from the row itself.
type Normalize struct {
	payslipStore model.PayslipStore
	relocator    *storage.Relocator
	logger       *logger.Logger
}

func NewNormalize(
	payslipStore model.PayslipStore,
	relocator *storage.Relocator,
	logger *logger.Logger,
) *Normalize {
	return &Normalize{
		payslipStore: payslipStore,
		relocator:    relocator,
		logger:       logger,
	}
}

// Run loads every payslip location and relocates misplaced files. A second
// run over the same tree reports moved = 0.
func (s *Normalize) Run(ctx context.Context) (model.RelocationSummary, error) {
	runID := uuid.New()

	locs, err := s.payslipStore.ListLocations(ctx)
	if err != nil {
		return model.RelocationSummary{}, fmt.Errorf("failed to load payslip locations: %w", err)
	}

	summary := s.relocator.Reconcile(locs)
	s.logger.Info("storage normalization finished",
		"run_id", runID,
		"total", len(locs),
		"moved", summary.Moved,
		"already_correct", summary.AlreadyCorrect,
		"missing", summary.Missing,
		"failed", summary.Failed)

	return summary, nil
}
