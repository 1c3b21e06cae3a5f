// Package dateformat renders publication dates for post listings and pages.
package dateformat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/pt_BR"
)

// ErrMissingDate is returned for a post that has no first publication date.
var ErrMissingDate = errors.New("dateformat: missing publication date")

// Formatter formats dates as "dd MMM yyyy" with the locale's abbreviated month names.
type Formatter struct {
	tr  locales.Translator
	loc *time.Location
}

// New returns a pt-BR formatter for the given location. A nil location means UTC.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{tr: pt_BR.New(), loc: loc}
}

// Format renders t, e.g. "15 mar 2021". A nil t is rejected with ErrMissingDate.
func (f *Formatter) Format(t *time.Time) (string, error) {
	if t == nil || t.IsZero() {
		return "", ErrMissingDate
	}
	local := t.In(f.loc)
	month := strings.ToLower(strings.TrimSuffix(f.tr.MonthAbbreviated(local.Month()), "."))
	return fmt.Sprintf("%02d %s %d", local.Day(), month, local.Year()), nil
}
