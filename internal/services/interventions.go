package services

import (
	"context"
	"time"

	"github.com/diewo77/nexusmanager/internal/models"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

type InterventionService struct {
	store *store.Store
	now   func() time.Time
}

func (s *InterventionService) patch(in validation.RawFields, create bool, v validation.Violations) models.InterventionPatch {
	var p models.InterventionPatch
	switch {
	case create:
		now := s.now().UTC().Truncate(time.Minute)
		p.InterventionDate = models.Set(validation.DateTime(in, "intervention_date", now, v))
	case in.Get("intervention_date") != "":
		// A blank date on update keeps the stored one.
		p.InterventionDate = models.Set(validation.DateTime(in, "intervention_date", time.Time{}, v))
	}
	if present(in, "technician_name", create) {
		p.TechnicianName = models.Set(validation.String(in, "technician_name"))
	}
	if present(in, "description", create) {
		p.Description = models.Set(validation.RequiredString(in, "description", v))
	}
	if present(in, "is_remote", create) {
		p.IsRemote = models.Set(validation.Bool(in, "is_remote", false, v))
	}
	if present(in, "time_spent_on_site", create) {
		p.TimeSpentOnSite = models.Set(validation.RequiredInt(in, "time_spent_on_site", v))
	}
	return p
}

// Create logs an intervention for client clientID. A missing date defaults to
// the current time in UTC.
func (s *InterventionService) Create(ctx context.Context, clientID uint, in validation.RawFields) (*models.Intervention, error) {
	if err := requireClient(ctx, s.store, store.EntityIntervention, clientID, in); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	i := &models.Intervention{ClientID: clientID}
	s.patch(in, true, v).Apply(i)
	v.Merge(i.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityIntervention, store.OpCreate, 0, v, store.InterventionFieldOrder, in)
	}
	if err := s.store.CreateIntervention(ctx, i); err != nil {
		return nil, store.WithInput(err, in)
	}
	return i, nil
}

func (s *InterventionService) Get(ctx context.Context, id uint) (*models.Intervention, error) {
	return s.store.GetIntervention(ctx, id)
}

func (s *InterventionService) ListForClient(ctx context.Context, clientID uint) ([]models.Intervention, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.store.ListInterventionsForClient(ctx, clientID)
}

func (s *InterventionService) Update(ctx context.Context, id uint, in validation.RawFields) (*models.Intervention, error) {
	current, err := s.store.GetIntervention(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityIntervention, store.OpUpdate, id, err, in)
	}
	v := validation.Violations{}
	patch := s.patch(in, false, v)
	patch.Apply(current)
	v.Merge(current.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityIntervention, store.OpUpdate, id, v, store.InterventionFieldOrder, in)
	}
	i, err := s.store.UpdateIntervention(ctx, id, patch)
	if err != nil {
		return nil, store.WithInput(err, in)
	}
	return i, nil
}

func (s *InterventionService) Delete(ctx context.Context, id uint) (*models.Intervention, error) {
	i, err := s.store.GetIntervention(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityIntervention, store.OpDelete, id, err, nil)
	}
	if err := s.store.DeleteIntervention(ctx, id); err != nil {
		return nil, err
	}
	return i, nil
}
