package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/reconcile"
	"github.com/nominadocs/payslip-server/internal/roster"
)

// Import synchronizes the employee directory from uploaded roster files.
type Import struct {
	employeeStore model.EmployeeStore
	committer     *reconcile.Committer
	logger        *logger.Logger
}

func NewImport(
	employeeStore model.EmployeeStore,
	committer *reconcile.Committer,
	logger *logger.Logger,
) *Import {
	return &Import{
		employeeStore: employeeStore,
		committer:     committer,
		logger:        logger,
	}
}

// DryRun parses the roster and returns the preview report without touching
// the directory.
func (s *Import) DryRun(ctx context.Context, fileName string, r io.Reader) (model.ImportReport, error) {
	runID := uuid.New()

	rows, err := roster.Parse(fileName, r)
	if err != nil {
		return model.ImportReport{}, fmt.Errorf("failed to parse roster: %w", err)
	}

	idx, err := s.buildIndex(ctx, rows)
	if err != nil {
		return model.ImportReport{}, err
	}

	report := reconcile.Analyze(rows, idx)
	s.logger.Info("roster dry-run",
		"run_id", runID,
		"file", fileName,
		"total", report.Total,
		"will_insert", report.WillInsert,
		"will_update", report.WillUpdate,
		"will_deactivate", report.WillDeactivate,
		"invalid", len(report.Invalid))

	return report, nil
}

// Commit parses the roster and applies it atomically, returning the report
// of actions actually taken.
func (s *Import) Commit(ctx context.Context, fileName string, r io.Reader) (model.ImportReport, error) {
	runID := uuid.New()

	rows, err := roster.Parse(fileName, r)
	if err != nil {
		return model.ImportReport{}, fmt.Errorf("failed to parse roster: %w", err)
	}

	report, err := s.committer.Commit(ctx, rows)
	if err != nil {
		return model.ImportReport{}, err
	}

	s.logger.Info("roster committed",
		"run_id", runID,
		"file", fileName,
		"total", report.Total,
		"inserted", report.WillInsert,
		"updated", report.WillUpdate,
		"deactivated", report.WillDeactivate)

	return report, nil
}

// buildIndex bulk-fetches the employees referenced by the roster into one
// consistent snapshot for the analysis pass.
func (s *Import) buildIndex(ctx context.Context, rows []model.RosterRow) (reconcile.Index, error) {
	cedulas := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Cedula != "" {
			cedulas = append(cedulas, row.Cedula)
		}
	}

	employees, err := s.employeeStore.GetByCedulas(ctx, cedulas)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing employees: %w", err)
	}

	return reconcile.BuildIndex(employees), nil
}
