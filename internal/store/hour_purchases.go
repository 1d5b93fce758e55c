package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/models"
)

var HourPurchaseFieldOrder = []string{"client_id", "purchase_date", "hours_purchased", "invoice_reference"}

func (s *Store) CreateHourPurchase(ctx context.Context, h *models.HourPurchase) error {
	if v := h.Validate(); !v.Empty() {
		return s.Reject(EntityHourPurchase, OpCreate, 0, Invalid(EntityHourPurchase, v, HourPurchaseFieldOrder))
	}
	return s.mutate(ctx, EntityHourPurchase, OpCreate, func() uint { return h.ID }, func(tx *gorm.DB) error {
		if err := ensureClient(tx, h.ClientID); err != nil {
			return err
		}
		return tx.Create(h).Error
	})
}

func (s *Store) UpdateHourPurchase(ctx context.Context, id uint, patch models.HourPurchasePatch) (*models.HourPurchase, error) {
	var h models.HourPurchase
	err := s.mutate(ctx, EntityHourPurchase, OpUpdate, func() uint { return id }, func(tx *gorm.DB) error {
		if err := first(tx, EntityHourPurchase, id, &h); err != nil {
			return err
		}
		patch.Apply(&h)
		if v := h.Validate(); !v.Empty() {
			return Invalid(EntityHourPurchase, v, HourPurchaseFieldOrder)
		}
		return tx.Save(&h).Error
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) DeleteHourPurchase(ctx context.Context, id uint) error {
	return s.deleteOne(ctx, EntityHourPurchase, id, &models.HourPurchase{})
}

func (s *Store) GetHourPurchase(ctx context.Context, id uint) (*models.HourPurchase, error) {
	var h models.HourPurchase
	if err := s.get(ctx, EntityHourPurchase, id, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHourPurchasesForClient returns the purchases of clientID, most recent
// first.
func (s *Store) ListHourPurchasesForClient(ctx context.Context, clientID uint) ([]models.HourPurchase, error) {
	var out []models.HourPurchase
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("purchase_date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, classify(EntityHourPurchase, 0, err)
	}
	return out, nil
}
