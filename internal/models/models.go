package models

import "time"

// Defaults applied when a field is left blank on creation.
const (
	DefaultCallOutMinutes       = 30
	DefaultMinChargeableMinutes = 30
	DefaultCallOutIfNotIncluded = 30
	DefaultIncludesCallOutFee   = true
	DefaultInitialHours         = 0.0
)

// All lists every persisted model in dependency order, for migrations.
func All() []any {
	return []any{
		&Client{},
		&Contract{},
		&Intervention{},
		&HourPurchase{},
	}
}

// Field is one entry of a partial update: Set reports whether Value should
// replace the stored value.
type Field[T any] struct {
	Set   bool
	Value T
}

// Set builds a Field that replaces the stored value.
func Set[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

func (f Field[T]) apply(dst *T) {
	if f.Set {
		*dst = f.Value
	}
}

// dateOf truncates t to its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
