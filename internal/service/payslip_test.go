package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/testutil"
)

// MockPayslipStore mocks the PayslipStore interface
type MockPayslipStore struct {
	mock.Mock
}

func (m *MockPayslipStore) Add(ctx context.Context, params model.AddPayslipParams) (int64, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

func (m *MockPayslipStore) GetByID(ctx context.Context, id int64) (model.Payslip, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Payslip), args.Error(1)
}

func (m *MockPayslipStore) ListByCedula(ctx context.Context, cedula string) ([]model.Payslip, error) {
	args := m.Called(ctx, cedula)
	return args.Get(0).([]model.Payslip), args.Error(1)
}

func (m *MockPayslipStore) ListLocations(ctx context.Context) ([]model.PayslipLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PayslipLocation), args.Error(1)
}

func activeEmployee(id int64, cedula string) model.Employee {
	return model.Employee{ID: id, Cedula: cedula, IsActive: true}
}

func TestPayslip_Upload(t *testing.T) {
	root := t.TempDir()

	employees := &MockEmployeeStore{}
	employees.On("GetActiveByCedula", mock.Anything, "12345678").
		Return(activeEmployee(7, "12345678"), nil)

	payslips := &MockPayslipStore{}
	payslips.On("Add", mock.Anything, mock.MatchedBy(func(p model.AddPayslipParams) bool {
		return p.UserID == 7 &&
			p.FileName == "RECIBO_MARZO.pdf" &&
			p.RelativePath == filepath.Join("12345678", "2024", "03", "RECIBO_MARZO.pdf") &&
			p.FileSizeBytes == int64(len("pdf bytes")) &&
			p.FileHashHex != ""
	})).Return(int64(42), 3, nil)

	svc := NewPayslip(employees, payslips, root, testutil.MakeNoopLogger())

	result, err := svc.Upload(context.Background(), UploadParams{
		Cedula:      "12345678",
		PeriodYear:  2024,
		PeriodMonth: 3,
		FileName:    "RECIBO MARZO.pdf",
		Data:        strings.NewReader("pdf bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.ID)
	assert.Equal(t, 3, result.Version)
	assert.Equal(t, "RECIBO_MARZO.pdf", result.FileName)

	stored := filepath.Join(root, "12345678", "2024", "03", "RECIBO_MARZO.pdf")
	b, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(b))

	payslips.AssertExpectations(t)
}

func TestPayslip_Upload_InvalidParams(t *testing.T) {
	svc := NewPayslip(&MockEmployeeStore{}, &MockPayslipStore{}, t.TempDir(), testutil.MakeNoopLogger())

	_, err := svc.Upload(context.Background(), UploadParams{Cedula: "abc", PeriodYear: 2024, PeriodMonth: 3})
	assert.Error(t, err)

	_, err = svc.Upload(context.Background(), UploadParams{Cedula: "12345678", PeriodYear: 2024, PeriodMonth: 13})
	assert.Error(t, err)
}

func TestPayslip_Upload_NoActiveEmployee(t *testing.T) {
	employees := &MockEmployeeStore{}
	employees.On("GetActiveByCedula", mock.Anything, "12345678").
		Return(model.Employee{}, model.ErrInactiveEmployee)

	svc := NewPayslip(employees, &MockPayslipStore{}, t.TempDir(), testutil.MakeNoopLogger())

	_, err := svc.Upload(context.Background(), UploadParams{
		Cedula: "12345678", PeriodYear: 2024, PeriodMonth: 3,
		FileName: "x.pdf", Data: strings.NewReader("x"),
	})
	require.ErrorIs(t, err, model.ErrInactiveEmployee)
}

func TestPayslip_Upload_RemovesFileWhenStoreFails(t *testing.T) {
	root := t.TempDir()

	employees := &MockEmployeeStore{}
	employees.On("GetActiveByCedula", mock.Anything, "12345678").
		Return(activeEmployee(7, "12345678"), nil)

	payslips := &MockPayslipStore{}
	payslips.On("Add", mock.Anything, mock.Anything).
		Return(int64(0), 0, assert.AnError)

	svc := NewPayslip(employees, payslips, root, testutil.MakeNoopLogger())

	_, err := svc.Upload(context.Background(), UploadParams{
		Cedula: "12345678", PeriodYear: 2024, PeriodMonth: 3,
		FileName: "x.pdf", Data: strings.NewReader("x"),
	})
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(root, "12345678", "2024", "03", "x.pdf"))
}

func TestPayslip_UploadBatch_PartialFailure(t *testing.T) {
	root := t.TempDir()

	employees := &MockEmployeeStore{}
	employees.On("GetActiveByCedula", mock.Anything, "11111111").
		Return(activeEmployee(1, "11111111"), nil)
	employees.On("GetActiveByCedula", mock.Anything, "22222222").
		Return(model.Employee{}, model.ErrInactiveEmployee)

	payslips := &MockPayslipStore{}
	payslips.On("Add", mock.Anything, mock.Anything).Return(int64(1), 1, nil)

	svc := NewPayslip(employees, payslips, root, testutil.MakeNoopLogger())

	result := svc.UploadBatch(context.Background(), 2024, 3, nil, "", []BatchFile{
		{Name: "11111111_GOMEZ_ANA.pdf", Data: strings.NewReader("a")},
		{Name: "22222222_PEREZ_LUIS.pdf", Data: strings.NewReader("b")},
		{Name: "sin_cedula.pdf", Data: strings.NewReader("c")},
	})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Totals.OK)
	assert.Equal(t, 2, result.Totals.Failed)
	require.Len(t, result.Items, 3)
	assert.True(t, result.Items[0].OK)
	assert.False(t, result.Items[1].OK)
	assert.False(t, result.Items[2].OK)
	assert.Contains(t, result.Items[2].Msg, "invalid file name")
}

func TestPayslip_UploadBatch_CedulaOverride(t *testing.T) {
	employees := &MockEmployeeStore{}
	employees.On("GetActiveByCedula", mock.Anything, "99999999").
		Return(activeEmployee(9, "99999999"), nil)

	payslips := &MockPayslipStore{}
	payslips.On("Add", mock.Anything, mock.Anything).Return(int64(5), 1, nil)

	svc := NewPayslip(employees, payslips, t.TempDir(), testutil.MakeNoopLogger())

	result := svc.UploadBatch(context.Background(), 2024, 3, nil, "99999999", []BatchFile{
		{Name: "whatever.pdf", Data: strings.NewReader("a")},
	})

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Totals.OK)
}

func TestPayslip_Open_FileGone(t *testing.T) {
	payslips := &MockPayslipStore{}
	payslips.On("GetByID", mock.Anything, int64(4)).Return(model.Payslip{
		ID: 4, StoragePath: filepath.Join(t.TempDir(), "gone.pdf"), FileName: "gone.pdf",
	}, nil)

	svc := NewPayslip(&MockEmployeeStore{}, payslips, t.TempDir(), testutil.MakeNoopLogger())

	_, _, err := svc.Open(context.Background(), 4)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestFormatPeriod(t *testing.T) {
	q := 2
	assert.Equal(t, "2024-03", FormatPeriod(model.Payslip{PeriodYear: 2024, PeriodMonth: 3}))
	assert.Equal(t, "2024-03 Q2", FormatPeriod(model.Payslip{PeriodYear: 2024, PeriodMonth: 3, Fortnight: &q}))
}
