package services

import (
	"context"

	"github.com/diewo77/nexusmanager/internal/models"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

type ContractService struct {
	store *store.Store
}

func contractPatch(in validation.RawFields, create bool, v validation.Violations) models.ContractPatch {
	var p models.ContractPatch
	if present(in, "annual_fee", create) {
		p.AnnualFee = models.Set(validation.FloatPtr(in, "annual_fee", v))
	}
	if present(in, "contract_expiry_date", create) {
		p.ContractExpiryDate = models.Set(validation.DatePtr(in, "contract_expiry_date", v))
	}
	if present(in, "includes_call_out_fee", create) {
		p.IncludesCallOutFee = models.Set(validation.Bool(in, "includes_call_out_fee", models.DefaultIncludesCallOutFee, v))
	}
	if present(in, "min_chargeable_time", create) {
		p.MinChargeableTime = models.Set(validation.Int(in, "min_chargeable_time", models.DefaultMinChargeableMinutes, v))
	}
	if present(in, "call_out_time_if_not_included", create) {
		p.CallOutTimeIfNotIncluded = models.Set(validation.Int(in, "call_out_time_if_not_included", models.DefaultCallOutIfNotIncluded, v))
	}
	return p
}

// Create adds a contract to client clientID.
func (s *ContractService) Create(ctx context.Context, clientID uint, in validation.RawFields) (*models.Contract, error) {
	if err := requireClient(ctx, s.store, store.EntityContract, clientID, in); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	c := models.NewContract(clientID)
	contractPatch(in, true, v).Apply(c)
	v.Merge(c.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityContract, store.OpCreate, 0, v, store.ContractFieldOrder, in)
	}
	if err := s.store.CreateContract(ctx, c); err != nil {
		return nil, store.WithInput(err, in)
	}
	return c, nil
}

func (s *ContractService) Get(ctx context.Context, id uint) (*models.Contract, error) {
	return s.store.GetContract(ctx, id)
}

// ListForClient returns the contracts of clientID.
func (s *ContractService) ListForClient(ctx context.Context, clientID uint) ([]models.Contract, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.store.ListContractsForClient(ctx, clientID)
}

// Update changes the submitted fields of contract id. A malformed field
// rejects the whole submission and leaves the stored row untouched.
func (s *ContractService) Update(ctx context.Context, id uint, in validation.RawFields) (*models.Contract, error) {
	current, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityContract, store.OpUpdate, id, err, in)
	}
	v := validation.Violations{}
	patch := contractPatch(in, false, v)
	patch.Apply(current)
	v.Merge(current.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityContract, store.OpUpdate, id, v, store.ContractFieldOrder, in)
	}
	c, err := s.store.UpdateContract(ctx, id, patch)
	if err != nil {
		return nil, store.WithInput(err, in)
	}
	return c, nil
}

// Delete removes contract id and returns it as it was.
func (s *ContractService) Delete(ctx context.Context, id uint) (*models.Contract, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityContract, store.OpDelete, id, err, nil)
	}
	if err := s.store.DeleteContract(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}
