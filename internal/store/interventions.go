package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/models"
)

var InterventionFieldOrder = []string{
	"client_id",
	"intervention_date",
	"technician_name",
	"description",
	"is_remote",
	"time_spent_on_site",
}

func (s *Store) CreateIntervention(ctx context.Context, i *models.Intervention) error {
	if v := i.Validate(); !v.Empty() {
		return s.Reject(EntityIntervention, OpCreate, 0, Invalid(EntityIntervention, v, InterventionFieldOrder))
	}
	return s.mutate(ctx, EntityIntervention, OpCreate, func() uint { return i.ID }, func(tx *gorm.DB) error {
		if err := ensureClient(tx, i.ClientID); err != nil {
			return err
		}
		return tx.Create(i).Error
	})
}

func (s *Store) UpdateIntervention(ctx context.Context, id uint, patch models.InterventionPatch) (*models.Intervention, error) {
	var i models.Intervention
	err := s.mutate(ctx, EntityIntervention, OpUpdate, func() uint { return id }, func(tx *gorm.DB) error {
		if err := first(tx, EntityIntervention, id, &i); err != nil {
			return err
		}
		patch.Apply(&i)
		if v := i.Validate(); !v.Empty() {
			return Invalid(EntityIntervention, v, InterventionFieldOrder)
		}
		return tx.Save(&i).Error
	})
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) DeleteIntervention(ctx context.Context, id uint) error {
	return s.deleteOne(ctx, EntityIntervention, id, &models.Intervention{})
}

func (s *Store) GetIntervention(ctx context.Context, id uint) (*models.Intervention, error) {
	var i models.Intervention
	if err := s.get(ctx, EntityIntervention, id, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// ListInterventionsForClient returns the interventions of clientID, most
// recent first.
func (s *Store) ListInterventionsForClient(ctx context.Context, clientID uint) ([]models.Intervention, error) {
	var out []models.Intervention
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("intervention_date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, classify(EntityIntervention, 0, err)
	}
	return out, nil
}
