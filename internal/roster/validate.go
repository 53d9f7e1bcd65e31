// Package roster validates and parses externally supplied employee rosters.
package roster

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nominadocs/payslip-server/internal/model"
)

var cedulaRe = regexp.MustCompile(`^\d{5,12}$`)

// ValidCedula reports whether s is a well-formed cedula: 5 to 12 digits,
// nothing else. No trimming or zero-padding is applied here.
func ValidCedula(s string) bool {
	return cedulaRe.MatchString(s)
}

// stripAccents removes combining marks after NFD decomposition, so that
// "sí" and "si" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	activeWords   = []string{"si", "true", "1", "activo", "activa"}
	inactiveWords = []string{"no", "false", "0", "inactivo", "inactiva"}
)

// ParseActivity maps a free-text activation cell to its tri-state value.
// Matching is case- and accent-insensitive. Anything outside the known
// vocabulary, including an empty cell, degrades to ActivityUnknown; this
// function never fails.
func ParseActivity(v string) model.Activity {
	s := strings.ToLower(strings.TrimSpace(v))
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	for _, w := range activeWords {
		if s == w {
			return model.ActivityActive
		}
	}
	for _, w := range inactiveWords {
		if s == w {
			return model.ActivityInactive
		}
	}
	return model.ActivityUnknown
}
