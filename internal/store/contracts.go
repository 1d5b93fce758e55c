package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/models"
)

var ContractFieldOrder = []string{
	"client_id",
	"annual_fee",
	"contract_expiry_date",
	"includes_call_out_fee",
	"min_chargeable_time",
	"call_out_time_if_not_included",
}

// CreateContract attaches c to its client, which must exist.
func (s *Store) CreateContract(ctx context.Context, c *models.Contract) error {
	if v := c.Validate(); !v.Empty() {
		return s.Reject(EntityContract, OpCreate, 0, Invalid(EntityContract, v, ContractFieldOrder))
	}
	return s.mutate(ctx, EntityContract, OpCreate, func() uint { return c.ID }, func(tx *gorm.DB) error {
		if err := ensureClient(tx, c.ClientID); err != nil {
			return err
		}
		return tx.Create(c).Error
	})
}

func (s *Store) UpdateContract(ctx context.Context, id uint, patch models.ContractPatch) (*models.Contract, error) {
	var c models.Contract
	err := s.mutate(ctx, EntityContract, OpUpdate, func() uint { return id }, func(tx *gorm.DB) error {
		if err := first(tx, EntityContract, id, &c); err != nil {
			return err
		}
		patch.Apply(&c)
		if v := c.Validate(); !v.Empty() {
			return Invalid(EntityContract, v, ContractFieldOrder)
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteContract(ctx context.Context, id uint) error {
	return s.deleteOne(ctx, EntityContract, id, &models.Contract{})
}

func (s *Store) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	var c models.Contract
	if err := s.get(ctx, EntityContract, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContractsForClient returns the contracts of clientID in creation order.
func (s *Store) ListContractsForClient(ctx context.Context, clientID uint) ([]models.Contract, error) {
	var out []models.Contract
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, classify(EntityContract, 0, err)
	}
	return out, nil
}
