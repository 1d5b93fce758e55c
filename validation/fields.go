package validation

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fixed input layouts for date fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// RawFields holds submitted form values exactly as typed by the user, so they
// can be echoed back when a submission is rejected. A missing key means the
// field was not submitted at all.
type RawFields map[string]string

// FromValues keeps the first value of each submitted key.
func FromValues(values url.Values) RawFields {
	f := make(RawFields, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			f[k] = vs[0]
		} else {
			f[k] = ""
		}
	}
	return f
}

func (f RawFields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Get returns the trimmed value of key.
func (f RawFields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

func (f RawFields) Clone() RawFields {
	if f == nil {
		return nil
	}
	out := make(RawFields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the trimmed text of an optional text field.
func String(f RawFields, field string) string {
	return f.Get(field)
}

// RequiredString records a violation when the field is absent or blank.
func RequiredString(f RawFields, field string, v Violations) string {
	s := f.Get(field)
	Required(field, s, v)
	return s
}

// Float parses an optional float; blank text yields def.
func Float(f RawFields, field string, def float64, v Violations) float64 {
	s := f.Get(field)
	if s == "" {
		return def
	}
	n, ok := parseFloat(s)
	if !ok {
		v.add(field, CodeInvalidNumber)
		return def
	}
	return n
}

// FloatPtr parses an optional float; blank text yields nil.
func FloatPtr(f RawFields, field string, v Violations) *float64 {
	s := f.Get(field)
	if s == "" {
		return nil
	}
	n, ok := parseFloat(s)
	if !ok {
		v.add(field, CodeInvalidNumber)
		return nil
	}
	return &n
}

// parseFloat accepts finite numbers only.
func parseFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// RequiredFloat parses a mandatory float.
func RequiredFloat(f RawFields, field string, v Violations) float64 {
	if f.Get(field) == "" {
		v.add(field, CodeRequired)
		return 0
	}
	return Float(f, field, 0, v)
}

// Int parses an optional integer; blank text yields def.
func Int(f RawFields, field string, def int, v Violations) int {
	s := f.Get(field)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v.add(field, CodeInvalidNumber)
		return def
	}
	return n
}

// RequiredInt parses a mandatory integer.
func RequiredInt(f RawFields, field string, v Violations) int {
	if f.Get(field) == "" {
		v.add(field, CodeRequired)
		return 0
	}
	return Int(f, field, 0, v)
}

// Bool interprets checkbox-style input. An absent field yields def; a present
// field is true unless it holds one of the usual false spellings.
func Bool(f RawFields, field string, def bool, v Violations) bool {
	if !f.Has(field) {
		return def
	}
	switch strings.ToLower(f.Get(field)) {
	case "", "0", "false", "off", "no":
		return false
	case "1", "true", "on", "yes":
		return true
	default:
		v.add(field, CodeInvalidNumber)
		return def
	}
}

// DatePtr parses an optional calendar date (DateLayout) at 00:00 UTC.
func DatePtr(f RawFields, field string, v Violations) *time.Time {
	return timePtr(f, field, DateLayout, v)
}

// RequiredDate parses a mandatory calendar date at 00:00 UTC.
func RequiredDate(f RawFields, field string, v Violations) time.Time {
	if f.Get(field) == "" {
		v.add(field, CodeRequired)
		return time.Time{}
	}
	t := timePtr(f, field, DateLayout, v)
	if t == nil {
		return time.Time{}
	}
	return *t
}

// DateTime parses an optional timestamp (DateTimeLayout); blank yields def.
func DateTime(f RawFields, field string, def time.Time, v Violations) time.Time {
	t := timePtr(f, field, DateTimeLayout, v)
	if t == nil {
		return def
	}
	return *t
}

func timePtr(f RawFields, field, layout string, v Violations) *time.Time {
	s := f.Get(field)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		v.add(field, CodeInvalidDate)
		return nil
	}
	return &t
}
