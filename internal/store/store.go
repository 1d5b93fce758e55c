// Package store persists clients and their dependents. Every mutation runs in
// a single transaction; reads never cache.
package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Entity names a persisted record kind.
type Entity string

const (
	EntityClient       Entity = "client"
	EntityContract     Entity = "contract"
	EntityIntervention Entity = "intervention"
	EntityHourPurchase Entity = "hour_purchase"
)

// Op names a mutation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Observer is notified once per mutation attempt with its outcome code
// ("ok" or the error code).
type Observer interface {
	ObserveMutation(entity, op, outcome string)
}

type Store struct {
	db       *gorm.DB
	logger   zerolog.Logger
	observer Observer
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// mutate runs fn in a transaction, classifies its error and records the
// outcome. id is read after the transaction so creations report their new id.
func (s *Store) mutate(ctx context.Context, entity Entity, op Op, id func() uint, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	err = classify(entity, id(), err)
	s.record(entity, op, id(), err)
	return err
}

// Reject records a mutation refused before any transaction was opened and
// returns err.
func (s *Store) Reject(entity Entity, op Op, id uint, err error) error {
	s.record(entity, op, id, err)
	return err
}

func (s *Store) record(entity Entity, op Op, id uint, err error) {
	outcome := "ok"
	if err != nil {
		outcome = Code(err)
	}
	if s.observer != nil {
		s.observer.ObserveMutation(string(entity), string(op), outcome)
	}

	var ev *zerolog.Event
	switch {
	case err == nil:
		ev = s.logger.Info()
	case errors.Is(err, ErrPersistence):
		ev = s.logger.Error().Err(errors.Unwrap(err))
	default:
		ev = s.logger.Warn().Str("reason", err.Error())
	}
	ev.Str("entity", string(entity)).
		Str("op", string(op)).
		Uint("id", id).
		Str("outcome", outcome).
		Msg("mutation")
}

// first loads the row with primary key id into dst, mapping a missing row to
// a NotFound error.
func first(tx *gorm.DB, entity Entity, id uint, dst any) error {
	err := tx.First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity, id)
	}
	return err
}

// get is first outside of a transaction, with error classification.
func (s *Store) get(ctx context.Context, entity Entity, id uint, dst any) error {
	return classify(entity, id, first(s.db.WithContext(ctx), entity, id, dst))
}

// ensureClient fails with NotFound when no client has the given id.
func ensureClient(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Table("clients").Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return NotFound(EntityClient, id)
	}
	return nil
}

// deleteOne removes a single row by primary key.
func (s *Store) deleteOne(ctx context.Context, entity Entity, id uint, model any) error {
	return s.mutate(ctx, entity, OpDelete, func() uint { return id }, func(tx *gorm.DB) error {
		res := tx.Delete(model, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFound(entity, id)
		}
		return nil
	})
}
