package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func loc(id int64, cedula string, year, month int, fileName, rel string) model.PayslipLocation {
	return model.PayslipLocation{
		ID: id, Cedula: cedula, PeriodYear: year, PeriodMonth: month,
		FileName: fileName, RelativePath: rel,
	}
}

func TestRelocator_AlreadyCorrect(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "12345678", "2024", "03", "x.pdf")
	writeFile(t, target, "canonical")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", ""),
	})

	assert.Equal(t, model.RelocationSummary{AlreadyCorrect: 1}, summary)
	assert.Equal(t, "canonical", readFile(t, target))
}

func TestRelocator_NeverOverwritesTarget(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "12345678", "2024", "03", "x.pdf")
	writeFile(t, target, "original")
	// A stray copy in the recorded location must be left alone.
	writeFile(t, filepath.Join(root, "old", "x.pdf"), "stray")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", filepath.Join("old", "x.pdf")),
	})

	assert.Equal(t, 1, summary.AlreadyCorrect)
	assert.Equal(t, 0, summary.Moved)
	assert.Equal(t, "original", readFile(t, target))
	assert.FileExists(t, filepath.Join(root, "old", "x.pdf"))
}

func TestRelocator_MovesFromRecordedPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "old", "x.pdf"), "content")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", filepath.Join("old", "x.pdf")),
	})

	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, "content", readFile(t, filepath.Join(root, "12345678", "2024", "03", "x.pdf")))
	assert.NoFileExists(t, filepath.Join(root, "old", "x.pdf"))
}

func TestRelocator_MovesLooseFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.pdf"), "loose")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", ""),
	})

	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, "loose", readFile(t, filepath.Join(root, "12345678", "2024", "03", "x.pdf")))
}

func TestRelocator_MovesFromLegacyLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "12345678", "2024", "03", "2", "x.pdf"), "legacy")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", ""),
	})

	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, "legacy", readFile(t, filepath.Join(root, "12345678", "2024", "03", "x.pdf")))
}

func TestRelocator_StrategyOrder(t *testing.T) {
	root := t.TempDir()
	// Recorded path wins over the loose copy.
	writeFile(t, filepath.Join(root, "old", "x.pdf"), "recorded")
	writeFile(t, filepath.Join(root, "x.pdf"), "loose")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "12345678", 2024, 3, "x.pdf", filepath.Join("old", "x.pdf")),
	})

	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, "recorded", readFile(t, filepath.Join(root, "12345678", "2024", "03", "x.pdf")))
	assert.FileExists(t, filepath.Join(root, "x.pdf"))
}

func TestRelocator_MissingRecordedDiagnostic(t *testing.T) {
	root := t.TempDir()

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(42, "12345678", 2024, 3, "x.pdf", filepath.Join("gone", "x.pdf")),
	})

	assert.Equal(t, 1, summary.Missing)
	require.Len(t, summary.Misses, 1)
	assert.Equal(t, int64(42), summary.Misses[0].ID)
	assert.Equal(t, filepath.Join("12345678", "2024", "03", "x.pdf"), summary.Misses[0].Expected)
}

func TestRelocator_OneMissDoesNotBlockOthers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.pdf"), "b")

	r := NewRelocator(root, testutil.MakeNoopLogger())
	summary := r.Reconcile([]model.PayslipLocation{
		loc(1, "11111111", 2024, 1, "a.pdf", ""),
		loc(2, "22222222", 2024, 1, "b.pdf", ""),
	})

	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 1, summary.Moved)
	assert.FileExists(t, filepath.Join(root, "22222222", "2024", "01", "b.pdf"))
}

func TestRelocator_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "a")
	writeFile(t, filepath.Join(root, "old", "b.pdf"), "b")

	locs := []model.PayslipLocation{
		loc(1, "11111111", 2024, 1, "a.pdf", ""),
		loc(2, "22222222", 2024, 2, "b.pdf", filepath.Join("old", "b.pdf")),
	}

	r := NewRelocator(root, testutil.MakeNoopLogger())

	first := r.Reconcile(locs)
	assert.Equal(t, 2, first.Moved)

	second := r.Reconcile(locs)
	assert.Equal(t, 0, second.Moved)
	assert.Equal(t, 2, second.AlreadyCorrect)
	assert.Equal(t, 0, second.Missing)
}
