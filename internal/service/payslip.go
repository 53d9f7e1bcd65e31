package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/roster"
	"github.com/nominadocs/payslip-server/internal/storage"
)

// cedulaPrefixRe extracts the cedula from batch file names shaped like
// CEDULA_LASTNAME_FIRSTNAME.pdf.
var cedulaPrefixRe = regexp.MustCompile(`^(\d{5,12})_`)

// Payslip stores payslip files at their canonical location and records
// them through the versioned store.
type Payslip struct {
	employeeStore model.EmployeeStore
	payslipStore  model.PayslipStore
	root          string
	logger        *logger.Logger
}

func NewPayslip(
	employeeStore model.EmployeeStore,
	payslipStore model.PayslipStore,
	root string,
	logger *logger.Logger,
) *Payslip {
	return &Payslip{
		employeeStore: employeeStore,
		payslipStore:  payslipStore,
		root:          root,
		logger:        logger,
	}
}

// UploadParams carries one payslip upload.
type UploadParams struct {
	Cedula      string
	PeriodYear  int
	PeriodMonth int
	Fortnight   *int
	FileName    string
	Data        io.Reader
	Note        string
}

// UploadResult reports where the payslip landed and the identity the store
// assigned.
type UploadResult struct {
	ID           int64  `json:"id"`
	Version      int    `json:"version"`
	FileName     string `json:"filename"`
	RelativePath string `json:"path"`
}

// Upload validates the request, writes the file to its canonical location
// and records the payslip. Version assignment belongs to the store. If the
// metadata insert fails the written file is removed so no orphan remains.
func (s *Payslip) Upload(ctx context.Context, params UploadParams) (UploadResult, error) {
	if !roster.ValidCedula(params.Cedula) {
		return UploadResult{}, fmt.Errorf("invalid cedula %q", params.Cedula)
	}
	if params.PeriodMonth < 1 || params.PeriodMonth > 12 {
		return UploadResult{}, fmt.Errorf("invalid period month %d", params.PeriodMonth)
	}

	emp, err := s.employeeStore.GetActiveByCedula(ctx, params.Cedula)
	if err != nil {
		if errors.Is(err, model.ErrInactiveEmployee) {
			return UploadResult{}, fmt.Errorf("%w: %s", model.ErrInactiveEmployee, params.Cedula)
		}
		return UploadResult{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	fileName := storage.SafeFileName(params.FileName)
	relPath := storage.CanonicalPath(params.Cedula, params.PeriodYear, params.PeriodMonth, fileName)
	absPath := filepath.Join(s.root, relPath)

	size, hashHex, err := s.writeFile(absPath, params.Data)
	if err != nil {
		return UploadResult{}, err
	}

	id, version, err := s.payslipStore.Add(ctx, model.AddPayslipParams{
		UserID:        emp.ID,
		PeriodYear:    params.PeriodYear,
		PeriodMonth:   params.PeriodMonth,
		Fortnight:     params.Fortnight,
		FileName:      fileName,
		StoragePath:   absPath,
		RelativePath:  relPath,
		FileHashHex:   hashHex,
		FileSizeBytes: size,
		Note:          params.Note,
	})
	if err != nil {
		// Do not leave an unrecorded file behind.
		if rmErr := os.Remove(absPath); rmErr != nil {
			s.logger.Error("failed to remove orphan payslip file", "path", absPath, "error", rmErr)
		}
		return UploadResult{}, fmt.Errorf("failed to record payslip: %w", err)
	}

	s.logger.Info("payslip stored",
		"cedula", params.Cedula,
		"path", relPath,
		"id", id,
		"version", version)

	return UploadResult{
		ID:           id,
		Version:      version,
		FileName:     fileName,
		RelativePath: relPath,
	}, nil
}

// BatchFile is one file of a batch upload.
type BatchFile struct {
	Name string
	Data io.Reader
}

// BatchItem is the per-file outcome of a batch upload.
type BatchItem struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Msg      string `json:"msg,omitempty"`
	DBID     int64  `json:"dbId,omitempty"`
	Version  int    `json:"version,omitempty"`
	Path     string `json:"path,omitempty"`
}

// BatchResult accumulates per-file outcomes; one failure never aborts the
// rest of the batch.
type BatchResult struct {
	Success bool        `json:"success"`
	Totals  BatchTotals `json:"totals"`
	Items   []BatchItem `json:"items"`
}

type BatchTotals struct {
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// UploadBatch stores several payslips for one period. The cedula comes from
// cedulaOverride when valid, otherwise from the file name prefix.
func (s *Payslip) UploadBatch(ctx context.Context, periodYear, periodMonth int, fortnight *int, cedulaOverride string, files []BatchFile) BatchResult {
	result := BatchResult{Items: make([]BatchItem, 0, len(files))}

	for _, f := range files {
		item := BatchItem{Filename: f.Name}

		cedula := cedulaOverride
		if !roster.ValidCedula(cedula) {
			cedula = parseCedulaFromFilename(f.Name)
		}
		if cedula == "" {
			item.Msg = "invalid file name, expected CEDULA_LASTNAME_FIRSTNAME.pdf"
			result.Items = append(result.Items, item)
			continue
		}

		res, err := s.Upload(ctx, UploadParams{
			Cedula:      cedula,
			PeriodYear:  periodYear,
			PeriodMonth: periodMonth,
			Fortnight:   fortnight,
			FileName:    f.Name,
			Data:        f.Data,
			Note:        "batch upload",
		})
		if err != nil {
			item.Msg = err.Error()
			result.Items = append(result.Items, item)
			continue
		}

		item.OK = true
		item.DBID = res.ID
		item.Version = res.Version
		item.Path = res.RelativePath
		result.Items = append(result.Items, item)
	}

	for _, item := range result.Items {
		if item.OK {
			result.Totals.OK++
		} else {
			result.Totals.Failed++
		}
	}
	result.Success = result.Totals.Failed == 0

	return result
}

// ListByCedula returns the payslips recorded for a cedula, newest period
// and highest version first.
func (s *Payslip) ListByCedula(ctx context.Context, cedula string) ([]model.Payslip, error) {
	if !roster.ValidCedula(cedula) {
		return nil, fmt.Errorf("invalid cedula %q", cedula)
	}
	payslips, err := s.payslipStore.ListByCedula(ctx, cedula)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	return payslips, nil
}

// Open returns the stored file of one payslip for download, along with its
// recorded metadata. model.ErrNotFound covers both a missing row and a
// missing file on disk.
func (s *Payslip) Open(ctx context.Context, id int64) (model.Payslip, io.ReadCloser, error) {
	p, err := s.payslipStore.GetByID(ctx, id)
	if err != nil {
		return model.Payslip{}, nil, err
	}

	f, err := os.Open(p.StoragePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Payslip{}, nil, fmt.Errorf("file %s: %w", p.StoragePath, model.ErrNotFound)
		}
		return model.Payslip{}, nil, fmt.Errorf("failed to open payslip file: %w", err)
	}

	return p, f, nil
}

// FormatPeriod renders a payslip period for listings: "2024-03", with a
// fortnight suffix when present ("2024-03 Q2").
func FormatPeriod(p model.Payslip) string {
	period := fmt.Sprintf("%d-%02d", p.PeriodYear, p.PeriodMonth)
	if p.Fortnight != nil {
		period += fmt.Sprintf(" Q%d", *p.Fortnight)
	}
	return period
}

// writeFile writes data to path, creating parent directories, and returns
// the byte count and SHA-256 of what was written.
func (s *Payslip) writeFile(path string, data io.Reader) (int64, string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create payslip directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create payslip file: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hash), data)
	if err != nil {
		os.Remove(path)
		return 0, "", fmt.Errorf("failed to write payslip file: %w", err)
	}

	return size, strings.ToUpper(hex.EncodeToString(hash.Sum(nil))), nil
}

func parseCedulaFromFilename(name string) string {
	m := cedulaPrefixRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return ""
	}
	return m[1]
}
