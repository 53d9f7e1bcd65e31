package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/model"
)

// Candidate resolves one possible current location of a misplaced payslip
// file, relative to the storage root. It returns "" when the strategy does
// not apply to the record.
type Candidate func(loc model.PayslipLocation, targetRel string) string

// recordedPath tries the location the store has on file, when it differs
// from the canonical target.
func recordedPath(loc model.PayslipLocation, targetRel string) string {
	if loc.RelativePath == "" || filepath.Clean(loc.RelativePath) == targetRel {
		return ""
	}
	return filepath.Clean(loc.RelativePath)
}

// looseFile tries an unsorted file sitting directly under the storage root.
func looseFile(loc model.PayslipLocation, _ string) string {
	return loc.FileName
}

// legacyFortnight tries the historical layout that nested an extra "2"
// fortnight directory under the month.
func legacyFortnight(loc model.PayslipLocation, _ string) string {
	return filepath.Join(
		loc.Cedula,
		strconv.Itoa(loc.PeriodYear),
		fmt.Sprintf("%02d", loc.PeriodMonth),
		"2",
		loc.FileName,
	)
}

// DefaultCandidates is the ordered recovery strategy list: recorded store
// location, loose file under the root, then legacy layouts.
func DefaultCandidates() []Candidate {
	return []Candidate{recordedPath, looseFile, legacyFortnight}
}

// Relocator reconciles payslip files on disk against their canonical
// locations. Each record is handled independently and best-effort; a run
// over an already-normalized tree changes nothing.
type Relocator struct {
	root       string
	candidates []Candidate
	logger     *logger.Logger
}

// NewRelocator creates a Relocator over root using the default strategies.
func NewRelocator(root string, logger *logger.Logger) *Relocator {
	return &Relocator{
		root:       root,
		candidates: DefaultCandidates(),
		logger:     logger,
	}
}

// Reconcile walks the records and moves every recoverable file to its
// canonical location. Files already in place are never overwritten. A miss
// or a rename failure is counted and logged for that record only; the run
// always continues.
func (r *Relocator) Reconcile(locs []model.PayslipLocation) model.RelocationSummary {
	summary := model.RelocationSummary{}

	for _, loc := range locs {
		targetRel := CanonicalPath(loc.Cedula, loc.PeriodYear, loc.PeriodMonth, loc.FileName)
		targetAbs := filepath.Join(r.root, targetRel)

		if exists(targetAbs) {
			summary.AlreadyCorrect++
			continue
		}

		source := r.findSource(loc, targetRel)
		if source == "" {
			summary.Missing++
			summary.Misses = append(summary.Misses, model.RelocationMiss{ID: loc.ID, Expected: targetRel})
			r.logger.Warn("payslip file missing",
				"id", loc.ID,
				"expected", targetRel,
				"recorded", loc.RelativePath)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(targetAbs), 0o755); err != nil {
			summary.Failed++
			r.logger.Error("failed to create target directory", "id", loc.ID, "target", targetRel, "error", err)
			continue
		}
		if err := os.Rename(source, targetAbs); err != nil {
			summary.Failed++
			r.logger.Error("failed to move payslip file", "id", loc.ID, "source", source, "target", targetRel, "error", err)
			continue
		}

		summary.Moved++
		r.logger.Info("moved payslip file", "id", loc.ID, "source", source, "target", targetRel)
	}

	return summary
}

// findSource evaluates the candidate strategies in order and returns the
// absolute path of the first one that exists on disk.
func (r *Relocator) findSource(loc model.PayslipLocation, targetRel string) string {
	for _, candidate := range r.candidates {
		rel := candidate(loc, targetRel)
		if rel == "" {
			continue
		}
		abs := filepath.Join(r.root, rel)
		if exists(abs) {
			return abs
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
