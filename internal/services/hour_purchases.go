package services

import (
	"context"

	"github.com/diewo77/nexusmanager/internal/models"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

type HourPurchaseService struct {
	store *store.Store
}

func hourPurchasePatch(in validation.RawFields, create bool, v validation.Violations) models.HourPurchasePatch {
	var p models.HourPurchasePatch
	if present(in, "purchase_date", create) {
		p.PurchaseDate = models.Set(validation.RequiredDate(in, "purchase_date", v))
	}
	if present(in, "hours_purchased", create) {
		p.HoursPurchased = models.Set(validation.RequiredFloat(in, "hours_purchased", v))
	}
	if present(in, "invoice_reference", create) {
		p.InvoiceReference = models.Set(validation.String(in, "invoice_reference"))
	}
	return p
}

// Create credits hours to client clientID.
func (s *HourPurchaseService) Create(ctx context.Context, clientID uint, in validation.RawFields) (*models.HourPurchase, error) {
	if err := requireClient(ctx, s.store, store.EntityHourPurchase, clientID, in); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	h := &models.HourPurchase{ClientID: clientID}
	hourPurchasePatch(in, true, v).Apply(h)
	v.Merge(h.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityHourPurchase, store.OpCreate, 0, v, store.HourPurchaseFieldOrder, in)
	}
	if err := s.store.CreateHourPurchase(ctx, h); err != nil {
		return nil, store.WithInput(err, in)
	}
	return h, nil
}

func (s *HourPurchaseService) Get(ctx context.Context, id uint) (*models.HourPurchase, error) {
	return s.store.GetHourPurchase(ctx, id)
}

func (s *HourPurchaseService) ListForClient(ctx context.Context, clientID uint) ([]models.HourPurchase, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.store.ListHourPurchasesForClient(ctx, clientID)
}

func (s *HourPurchaseService) Update(ctx context.Context, id uint, in validation.RawFields) (*models.HourPurchase, error) {
	current, err := s.store.GetHourPurchase(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityHourPurchase, store.OpUpdate, id, err, in)
	}
	v := validation.Violations{}
	patch := hourPurchasePatch(in, false, v)
	patch.Apply(current)
	v.Merge(current.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityHourPurchase, store.OpUpdate, id, v, store.HourPurchaseFieldOrder, in)
	}
	h, err := s.store.UpdateHourPurchase(ctx, id, patch)
	if err != nil {
		return nil, store.WithInput(err, in)
	}
	return h, nil
}

func (s *HourPurchaseService) Delete(ctx context.Context, id uint) (*models.HourPurchase, error) {
	h, err := s.store.GetHourPurchase(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityHourPurchase, store.OpDelete, id, err, nil)
	}
	if err := s.store.DeleteHourPurchase(ctx, id); err != nil {
		return nil, err
	}
	return h, nil
}
