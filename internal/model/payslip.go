package model

import (
	"context"
	"time"
)

// PayslipStore defines persistence operations for payslip metadata.
// Version numbers are assigned by the store on Add and never computed here.
type PayslipStore interface {
	Add(ctx context.Context, params AddPayslipParams) (id int64, version int, err error)
	GetByID(ctx context.Context, id int64) (Payslip, error)
	ListByCedula(ctx context.Context, cedula string) ([]Payslip, error)
	ListLocations(ctx context.Context) ([]PayslipLocation, error)
}

// Payslip is one stored payslip document version.
type Payslip struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Cedula        string     `json:"cedula,omitempty"`
	PeriodYear    int        `json:"year"`
	PeriodMonth   int        `json:"month"`
	Fortnight     *int       `json:"fortnight"`
	FileName      string     `json:"fileName"`
	StoragePath   string     `json:"-"`
	RelativePath  string     `json:"-"`
	FileHashHex   string     `json:"-"`
	FileSizeBytes int64      `json:"sizeBytes"`
	Version       int        `json:"version"`
	Note          string     `json:"-"`
	UploadedAt    time.Time  `json:"uploadedAt"`
}

// AddPayslipParams carries one versioned payslip insert.
type AddPayslipParams struct {
	UserID        int64
	PeriodYear    int
	PeriodMonth   int
	Fortnight     *int
	FileName      string
	StoragePath   string
	RelativePath  string
	FileHashHex   string
	FileSizeBytes int64
	Note          string
}

// PayslipLocation is the subset of a payslip row the storage relocator
// needs: identity fields for the canonical path plus the recorded location.
type PayslipLocation struct {
	ID           int64
	Cedula       string
	PeriodYear   int
	PeriodMonth  int
	FileName     string
	RelativePath string
}

// RelocationMiss identifies a document whose file could not be found by any
// recovery strategy.
type RelocationMiss struct {
	ID       int64  `json:"id"`
	Expected string `json:"expected"`
}

// RelocationSummary reports one storage reconciliation run.
type RelocationSummary struct {
	Moved          int              `json:"moved"`
	AlreadyCorrect int              `json:"alreadyCorrect"`
	Missing        int              `json:"missing"`
	Failed         int              `json:"failed"`
	Misses         []RelocationMiss `json:"misses,omitempty"`
}
