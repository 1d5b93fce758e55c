package validation

import "strings"

// Violation codes. They double as translation keys for the presentation layer.
const (
	CodeRequired       = "required"
	CodeInvalidNumber  = "invalid_numeric_input"
	CodeInvalidDate    = "invalid_date_format"
	CodeMustBePositive = "must_be_positive"
	CodeNegative       = "must_not_be_negative"
)

var messages = map[string]string{
	CodeRequired:       "required field missing",
	CodeInvalidNumber:  "invalid numeric input",
	CodeInvalidDate:    "invalid date format",
	CodeMustBePositive: "must be positive",
	CodeNegative:       "must not be negative",
}

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// add keeps the first violation recorded for a field.
func (v Violations) add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Merge copies the violations of o for fields v does not already report.
func (v Violations) Merge(o Violations) {
	for f, c := range o {
		v.add(f, c)
	}
}

// First returns the first violated field following order, then any remaining
// field in lexical order so the result is deterministic.
func (v Violations) First(order []string) (field, code string) {
	for _, f := range order {
		if c, ok := v[f]; ok {
			return f, c
		}
	}
	for f, c := range v {
		if field == "" || f < field {
			field, code = f, c
		}
	}
	return field, code
}

// Message returns the human readable message for a violation code.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// Warning reports whether a code is a soft rejection (the input parsed but
// the value is not acceptable) rather than a hard input error.
func Warning(code string) bool {
	return code == CodeMustBePositive || code == CodeNegative
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.add(field, CodeRequired)
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.add(field, CodeMustBePositive)
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v.add(field, CodeMustBePositive)
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v.add(field, CodeNegative)
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v.add(field, CodeNegative)
	}
}
