// Package services turns raw form submissions into validated store
// mutations. Every rejected submission comes back as a *store.Error carrying
// the submitted fields so the caller can re-render them.
package services

import (
	"context"
	"time"

	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

// Services groups the per-entity services over one store.
type Services struct {
	Clients       *ClientService
	Contracts     *ContractService
	Interventions *InterventionService
	HourPurchases *HourPurchaseService
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for default intervention dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(st *store.Store, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Services{
		Clients:       &ClientService{store: st},
		Contracts:     &ContractService{store: st},
		Interventions: &InterventionService{store: st, now: o.now},
		HourPurchases: &HourPurchaseService{store: st},
	}
}

// present reports whether field takes part in the mutation: always on
// creation, only when submitted on update.
func present(in validation.RawFields, field string, create bool) bool {
	return create || in.Has(field)
}

// reject records parse violations as a refused mutation and returns them as
// a validation error echoing in.
func reject(st *store.Store, entity store.Entity, op store.Op, id uint, v validation.Violations, order []string, in validation.RawFields) error {
	return st.Reject(entity, op, id, store.WithInput(store.Invalid(entity, v, order), in))
}

// refuse records a failed lookup that stopped a mutation before it reached
// the store.
func refuse(st *store.Store, entity store.Entity, op store.Op, id uint, err error, in validation.RawFields) error {
	return st.Reject(entity, op, id, store.WithInput(err, in))
}

// requireClient fails with NotFound before anything is parsed when the parent
// client of a new entity is missing.
func requireClient(ctx context.Context, st *store.Store, entity store.Entity, id uint, in validation.RawFields) error {
	if _, err := st.GetClient(ctx, id); err != nil {
		return refuse(st, entity, store.OpCreate, 0, err, in)
	}
	return nil
}
