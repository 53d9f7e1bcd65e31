// Package storage owns the on-disk layout of payslip files: where a file
// belongs and how misplaced files are brought back there.
package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// CanonicalPath returns the one correct relative location of a payslip
// file: cedula/YYYY/MM/fileName. Every component that places or finds a
// payslip on disk must go through this function.
func CanonicalPath(cedula string, periodYear, periodMonth int, fileName string) string {
	return filepath.Join(
		cedula,
		strconv.Itoa(periodYear),
		fmt.Sprintf("%02d", periodMonth),
		fileName,
	)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// SafeFileName collapses whitespace runs in an uploaded file name to
// underscores so the stored name survives shell and URL handling.
func SafeFileName(name string) string {
	return whitespaceRe.ReplaceAllString(filepath.Base(name), "_")
}
