package services

import (
	"context"

	"github.com/diewo77/nexusmanager/internal/ledger"
	"github.com/diewo77/nexusmanager/internal/models"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

type ClientService struct {
	store *store.Store
}

// ClientDetail is a client with everything it owns and its derived balance.
type ClientDetail struct {
	Client        models.Client         `json:"client"`
	Contracts     []models.Contract     `json:"contracts"`
	Interventions []models.Intervention `json:"interventions"`
	HourPurchases []models.HourPurchase `json:"hour_purchases"`
	Balance       ledger.Balance        `json:"balance"`
}

func clientPatch(in validation.RawFields, create bool, v validation.Violations) models.ClientPatch {
	var p models.ClientPatch
	if present(in, "name", create) {
		p.Name = models.Set(validation.String(in, "name"))
	}
	if present(in, "email", create) {
		p.Email = models.Set(validation.String(in, "email"))
	}
	if present(in, "notes", create) {
		p.Notes = models.Set(validation.String(in, "notes"))
	}
	if present(in, "initial_hours", create) {
		p.InitialHours = models.Set(validation.Float(in, "initial_hours", models.DefaultInitialHours, v))
	}
	if present(in, "default_call_out_time", create) {
		p.DefaultCallOutTime = models.Set(validation.Int(in, "default_call_out_time", models.DefaultCallOutMinutes, v))
	}
	return p
}

// List returns every client ordered by name.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.store.ListClients(ctx, store.OrderByName)
}

func (s *ClientService) Create(ctx context.Context, in validation.RawFields) (*models.Client, error) {
	v := validation.Violations{}
	c := models.NewClient("")
	clientPatch(in, true, v).Apply(c)
	v.Merge(c.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityClient, store.OpCreate, 0, v, store.ClientFieldOrder, in)
	}
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, store.WithInput(err, in)
	}
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return s.store.GetClient(ctx, id)
}

// Update changes only the submitted fields of client id.
func (s *ClientService) Update(ctx context.Context, id uint, in validation.RawFields) (*models.Client, error) {
	current, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, refuse(s.store, store.EntityClient, store.OpUpdate, id, err, in)
	}
	v := validation.Violations{}
	patch := clientPatch(in, false, v)
	patch.Apply(current)
	v.Merge(current.Validate())
	if !v.Empty() {
		return nil, reject(s.store, store.EntityClient, store.OpUpdate, id, v, store.ClientFieldOrder, in)
	}
	c, err := s.store.UpdateClient(ctx, id, patch)
	if err != nil {
		return nil, store.WithInput(err, in)
	}
	return c, nil
}

// Delete removes client id with all its dependents. The returned client is
// the row as it was before deletion.
func (s *ClientService) Delete(ctx context.Context, id uint) (*models.Client, store.DeleteReport, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, store.DeleteReport{}, refuse(s.store, store.EntityClient, store.OpDelete, id, err, nil)
	}
	report, err := s.store.DeleteClient(ctx, id)
	if err != nil {
		return nil, store.DeleteReport{}, err
	}
	return c, report, nil
}

// DeletePreview returns client id with the rows a delete would cascade to.
func (s *ClientService) DeletePreview(ctx context.Context, id uint) (*models.Client, store.Dependents, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, store.Dependents{}, err
	}
	deps, err := s.store.CountDependents(ctx, id)
	if err != nil {
		return nil, store.Dependents{}, err
	}
	return c, deps, nil
}

// Detail loads client id, its dependents and its balance. Nothing is
// written.
func (s *ClientService) Detail(ctx context.Context, id uint) (*ClientDetail, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	contracts, err := s.store.ListContractsForClient(ctx, id)
	if err != nil {
		return nil, err
	}
	interventions, err := s.store.ListInterventionsForClient(ctx, id)
	if err != nil {
		return nil, err
	}
	purchases, err := s.store.ListHourPurchasesForClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientDetail{
		Client:        *c,
		Contracts:     contracts,
		Interventions: interventions,
		HourPurchases: purchases,
		Balance:       ledger.Compute(*c, contracts, interventions, purchases),
	}, nil
}

// Balance is Detail reduced to the ledger.
func (s *ClientService) Balance(ctx context.Context, id uint) (ledger.Balance, error) {
	d, err := s.Detail(ctx, id)
	if err != nil {
		return ledger.Balance{}, err
	}
	return d.Balance, nil
}
