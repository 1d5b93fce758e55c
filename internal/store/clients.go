package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/models"
)

// ClientFieldOrder is the order violations of a client are reported in.
var ClientFieldOrder = []string{"name", "email", "notes", "initial_hours", "default_call_out_time"}

// ClientOrder selects the sort of ListClients.
type ClientOrder string

const (
	OrderByName ClientOrder = "name"
	OrderByID   ClientOrder = "id"
)

var clientOrders = map[ClientOrder]string{
	OrderByName: "name ASC, id ASC",
	OrderByID:   "id ASC",
}

// DeleteReport counts the rows removed by a cascading client delete.
type DeleteReport struct {
	Clients       int64 `json:"clients"`
	Contracts     int64 `json:"contracts"`
	Interventions int64 `json:"interventions"`
	HourPurchases int64 `json:"hour_purchases"`
}

func (r DeleteReport) Total() int64 {
	return r.Clients + r.Contracts + r.Interventions + r.HourPurchases
}

// Dependents counts the rows owned by a client.
type Dependents struct {
	Contracts     int64 `json:"contracts"`
	Interventions int64 `json:"interventions"`
	HourPurchases int64 `json:"hour_purchases"`
}

func nameConflict(name string) *Error {
	return Conflict(EntityClient, "name", fmt.Sprintf("a client named %q already exists", name))
}

// checkName fails with a conflict when another client than self already uses
// name.
func checkName(tx *gorm.DB, name string, self uint) error {
	var n int64
	q := tx.Model(&models.Client{}).Where("name = ?", name)
	if self != 0 {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nameConflict(name)
	}
	return nil
}

// saveClient maps a duplicate key raised by the unique index, when two
// writers raced past checkName, to a conflict.
func saveClient(tx *gorm.DB, c *models.Client, create bool) error {
	var err error
	if create {
		err = tx.Create(c).Error
	} else {
		err = tx.Save(c).Error
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nameConflict(c.Name)
	}
	return err
}

func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	if v := c.Validate(); !v.Empty() {
		return s.Reject(EntityClient, OpCreate, 0, Invalid(EntityClient, v, ClientFieldOrder))
	}
	return s.mutate(ctx, EntityClient, OpCreate, func() uint { return c.ID }, func(tx *gorm.DB) error {
		if err := checkName(tx, c.Name, 0); err != nil {
			return err
		}
		return saveClient(tx, c, true)
	})
}

// UpdateClient applies patch to the stored client and returns the result.
func (s *Store) UpdateClient(ctx context.Context, id uint, patch models.ClientPatch) (*models.Client, error) {
	var c models.Client
	err := s.mutate(ctx, EntityClient, OpUpdate, func() uint { return id }, func(tx *gorm.DB) error {
		if err := first(tx, EntityClient, id, &c); err != nil {
			return err
		}
		patch.Apply(&c)
		if v := c.Validate(); !v.Empty() {
			return Invalid(EntityClient, v, ClientFieldOrder)
		}
		if err := checkName(tx, c.Name, id); err != nil {
			return err
		}
		return saveClient(tx, &c, false)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteClient removes a client together with everything it owns in one
// transaction. The cascade is explicit so it holds even when the database
// does not enforce foreign keys.
func (s *Store) DeleteClient(ctx context.Context, id uint) (DeleteReport, error) {
	var report DeleteReport
	err := s.mutate(ctx, EntityClient, OpDelete, func() uint { return id }, func(tx *gorm.DB) error {
		if err := ensureClient(tx, id); err != nil {
			return err
		}
		steps := []struct {
			model any
			count *int64
		}{
			{&models.Contract{}, &report.Contracts},
			{&models.Intervention{}, &report.Interventions},
			{&models.HourPurchase{}, &report.HourPurchases},
		}
		for _, st := range steps {
			res := tx.Where("client_id = ?", id).Delete(st.model)
			if res.Error != nil {
				return res.Error
			}
			*st.count = res.RowsAffected
		}
		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		report.Clients = res.RowsAffected
		return nil
	})
	if err != nil {
		return DeleteReport{}, err
	}
	return report, nil
}

func (s *Store) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.get(ctx, EntityClient, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients returns every client. An unknown order falls back to name.
func (s *Store) ListClients(ctx context.Context, order ClientOrder) ([]models.Client, error) {
	clause, ok := clientOrders[order]
	if !ok {
		clause = clientOrders[OrderByName]
	}
	var out []models.Client
	if err := s.db.WithContext(ctx).Order(clause).Find(&out).Error; err != nil {
		return nil, classify(EntityClient, 0, err)
	}
	return out, nil
}

// CountDependents counts what a delete of clientID would cascade to.
func (s *Store) CountDependents(ctx context.Context, clientID uint) (Dependents, error) {
	var d Dependents
	db := s.db.WithContext(ctx)
	if err := classify(EntityClient, clientID, ensureClient(db, clientID)); err != nil {
		return d, err
	}
	counts := []struct {
		model any
		n     *int64
	}{
		{&models.Contract{}, &d.Contracts},
		{&models.Intervention{}, &d.Interventions},
		{&models.HourPurchase{}, &d.HourPurchases},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("client_id = ?", clientID).Count(c.n).Error; err != nil {
			return Dependents{}, classify(EntityClient, clientID, err)
		}
	}
	return d, nil
}
