package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/models"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

var fixedNow = time.Date(2024, 5, 14, 10, 30, 45, 0, time.UTC)

func setup(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:svc_"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbi.AutoMigrate(models.All()...))
	return New(store.New(dbi), WithClock(func() time.Time { return fixedNow })), dbi
}

type mutations struct {
	mu    sync.Mutex
	calls []string
}

func (m *mutations) ObserveMutation(entity, op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, entity+"/"+op+"/"+outcome)
}

func setupObserved(t *testing.T) (*Services, *mutations) {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:svc_"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbi.AutoMigrate(models.All()...))
	m := &mutations{}
	return New(store.New(dbi, store.WithObserver(m)), WithClock(func() time.Time { return fixedNow })), m
}

func storeErr(t *testing.T, err error) *store.Error {
	t.Helper()
	var se *store.Error
	require.True(t, errors.As(err, &se), "expected *store.Error, got %v", err)
	return se
}

func TestCreateClientDefaults(t *testing.T) {
	svc, _ := setup(t)
	c, err := svc.Clients.Create(context.Background(), validation.RawFields{"name": " Acme ", "initial_hours": "", "default_call_out_time": ""})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, 0.0, c.InitialHours)
	assert.Equal(t, 30, c.DefaultCallOutTime)
}

func TestCreateClientEchoesInput(t *testing.T) {
	svc, dbi := setup(t)
	in := validation.RawFields{"name": "Acme", "initial_hours": "ten"}
	_, err := svc.Clients.Create(context.Background(), in)
	require.ErrorIs(t, err, store.ErrValidation)

	se := storeErr(t, err)
	assert.Equal(t, "invalid numeric input", se.Message)
	assert.Equal(t, store.SeverityDanger, se.Severity)
	assert.Equal(t, in, se.Input)

	var n int64
	dbi.Model(&models.Client{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateClientRequiredNameReportedFirst(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.Clients.Create(context.Background(), validation.RawFields{"name": "", "initial_hours": "x"})
	se := storeErr(t, err)
	assert.Equal(t, "required field missing", se.Message)
	assert.Equal(t, validation.CodeRequired, se.Violations["name"])
	assert.Equal(t, validation.CodeInvalidNumber, se.Violations["initial_hours"])
}

func TestCreateClientConflictEchoesInput(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)

	in := validation.RawFields{"name": "Acme", "email": "second@example.com"}
	_, err = svc.Clients.Create(ctx, in)
	require.ErrorIs(t, err, store.ErrConflict)
	se := storeErr(t, err)
	assert.Equal(t, "second@example.com", se.Input["email"])
	assert.Contains(t, se.Message, `"Acme"`)
}

func TestUpdateClientOnlySubmittedFields(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme", "email": "a@example.com", "initial_hours": "4"})
	require.NoError(t, err)

	got, err := svc.Clients.Update(ctx, c.ID, validation.RawFields{"name": "Acme", "notes": "vip"})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, 4.0, got.InitialHours)
	assert.Equal(t, "vip", got.Notes)

	_, err = svc.Clients.Update(ctx, 404, validation.RawFields{"name": "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "x", storeErr(t, err).Input["name"])

	_, err = svc.Clients.Update(ctx, c.ID, validation.RawFields{"default_call_out_time": "-1"})
	require.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, store.SeverityWarning, storeErr(t, err).Severity)
}

func TestBalanceScenario(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme", "initial_hours": "10"})
	require.NoError(t, err)

	_, err = svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-01", "hours_purchased": "5"})
	require.NoError(t, err)
	_, err = svc.Interventions.Create(ctx, c.ID, validation.RawFields{"description": "Server", "time_spent_on_site": "120"})
	require.NoError(t, err)

	b, err := svc.Clients.Balance(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, b.TotalPurchasedHours)
	assert.Equal(t, 2.0, b.TotalConsumedHours)
	assert.Equal(t, 13.0, b.RemainingHours)
}

func TestInterventionDefaultsToNow(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)

	i, err := svc.Interventions.Create(ctx, c.ID, validation.RawFields{"description": "Printer", "time_spent_on_site": "15"})
	require.NoError(t, err)
	assert.True(t, i.InterventionDate.Equal(fixedNow.Truncate(time.Minute)))
	assert.False(t, i.IsRemote)

	i, err = svc.Interventions.Create(ctx, c.ID, validation.RawFields{
		"intervention_date": "2024-02-03T08:15", "description": "VPN", "time_spent_on_site": "20", "is_remote": "on",
	})
	require.NoError(t, err)
	assert.True(t, i.InterventionDate.Equal(time.Date(2024, 2, 3, 8, 15, 0, 0, time.UTC)))
	assert.True(t, i.IsRemote)
}

func TestInterventionValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      validation.RawFields
		field   string
		code    string
		message string
	}{
		{"missing time", validation.RawFields{"description": "x"}, "time_spent_on_site", validation.CodeRequired, "required field missing"},
		{"zero time", validation.RawFields{"description": "x", "time_spent_on_site": "0"}, "time_spent_on_site", validation.CodeMustBePositive, "must be positive"},
		{"bad date", validation.RawFields{"description": "x", "time_spent_on_site": "5", "intervention_date": "14/05/2024"}, "intervention_date", validation.CodeInvalidDate, "invalid date format"},
		{"missing description", validation.RawFields{"time_spent_on_site": "5"}, "description", validation.CodeRequired, "required field missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Interventions.Create(ctx, c.ID, tt.in)
			se := storeErr(t, err)
			assert.Equal(t, tt.code, se.Violations[tt.field])
			assert.Equal(t, tt.message, se.Message)
		})
	}

	_, err = svc.Interventions.Create(ctx, 999, validation.RawFields{"description": "x", "time_spent_on_site": "5"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHourPurchaseRules(t *testing.T) {
	svc, dbi := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)

	_, err = svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-01", "hours_purchased": "-1"})
	require.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, store.SeverityWarning, storeErr(t, err).Severity)

	_, err = svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"hours_purchased": "3"})
	require.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, validation.CodeRequired, storeErr(t, err).Violations["purchase_date"])

	var n int64
	dbi.Model(&models.HourPurchase{}).Count(&n)
	assert.Zero(t, n)

	h, err := svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-01", "hours_purchased": "2.5", "invoice_reference": "INV-1"})
	require.NoError(t, err)
	assert.True(t, h.PurchaseDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	got, err := svc.HourPurchases.Update(ctx, h.ID, validation.RawFields{"hours_purchased": "4"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.HoursPurchased)
	assert.Equal(t, "INV-1", got.InvoiceReference)
}

func TestMalformedExpiryLeavesStoredDate(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	k, err := svc.Contracts.Create(ctx, c.ID, validation.RawFields{"contract_expiry_date": "2025-12-31", "annual_fee": "1200"})
	require.NoError(t, err)
	assert.True(t, k.IncludesCallOutFee)
	require.NotNil(t, k.AnnualFee)
	assert.Equal(t, 1200.0, *k.AnnualFee)

	_, err = svc.Contracts.Update(ctx, k.ID, validation.RawFields{"contract_expiry_date": "31/12/2026", "min_chargeable_time": "60"})
	require.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, "invalid date format", storeErr(t, err).Message)

	stored, err := svc.Contracts.Get(ctx, k.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ContractExpiryDate)
	assert.Equal(t, "2025-12-31", stored.ContractExpiryDate.Format(validation.DateLayout))
	assert.Equal(t, 30, stored.MinChargeableTime)
}

func TestContractUpdateClearsOptionalFields(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	k, err := svc.Contracts.Create(ctx, c.ID, validation.RawFields{"contract_expiry_date": "2025-12-31", "annual_fee": "99", "includes_call_out_fee": "0"})
	require.NoError(t, err)
	assert.False(t, k.IncludesCallOutFee)

	got, err := svc.Contracts.Update(ctx, k.ID, validation.RawFields{"contract_expiry_date": "", "annual_fee": ""})
	require.NoError(t, err)
	assert.Nil(t, got.ContractExpiryDate)
	assert.Nil(t, got.AnnualFee)
	assert.False(t, got.IncludesCallOutFee, "absent boolean is unchanged on update")

	_, err = svc.Contracts.Update(ctx, k.ID, validation.RawFields{"includes_call_out_fee": "maybe"})
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestDetailIsIdempotent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme", "initial_hours": "3"})
	require.NoError(t, err)
	_, err = svc.Contracts.Create(ctx, c.ID, validation.RawFields{"includes_call_out_fee": "false"})
	require.NoError(t, err)
	_, err = svc.Interventions.Create(ctx, c.ID, validation.RawFields{"description": "x", "time_spent_on_site": "10"})
	require.NoError(t, err)

	first, err := svc.Clients.Detail(ctx, c.ID)
	require.NoError(t, err)
	second, err := svc.Clients.Detail(ctx, c.ID)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// 30 minimum + 30 call-out.
	assert.Equal(t, 1.0, first.Balance.TotalConsumedHours)
	assert.Equal(t, 2.0, first.Balance.RemainingHours)
}

func TestDeleteClientReport(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	_, err = svc.Contracts.Create(ctx, c.ID, validation.RawFields{})
	require.NoError(t, err)

	deleted, report, err := svc.Clients.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", deleted.Name)
	assert.Equal(t, int64(2), report.Total())

	_, err = svc.Clients.Detail(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, _, err = svc.Clients.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListClientsOrderedByName(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	for _, name := range []string{"b", "C", "a"} {
		_, err := svc.Clients.Create(ctx, validation.RawFields{"name": name})
		require.NoError(t, err)
	}
	list, err := svc.Clients.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"C", "a", "b"}, names)
}

func TestNonFiniteNumbersRejected(t *testing.T) {
	svc, dbi := setup(t)
	ctx := context.Background()

	_, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme", "initial_hours": "-Inf"})
	require.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, validation.CodeInvalidNumber, storeErr(t, err).Violations["initial_hours"])

	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		_, err := svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-01", "hours_purchased": raw})
		require.ErrorIs(t, err, store.ErrValidation, raw)
		assert.Equal(t, validation.CodeInvalidNumber, storeErr(t, err).Violations["hours_purchased"], raw)
	}
	_, err = svc.Contracts.Create(ctx, c.ID, validation.RawFields{"annual_fee": "NaN"})
	require.ErrorIs(t, err, store.ErrValidation)

	var n int64
	dbi.Model(&models.HourPurchase{}).Count(&n)
	assert.Zero(t, n)

	d, err := svc.Clients.Detail(ctx, c.ID)
	require.NoError(t, err)
	_, err = json.Marshal(d)
	assert.NoError(t, err)
}

func TestRejectedMutationsAreObserved(t *testing.T) {
	svc, m := setupObserved(t)
	ctx := context.Background()

	_, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme", "initial_hours": "ten"})
	require.ErrorIs(t, err, store.ErrValidation)
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	_, err = svc.Clients.Update(ctx, c.ID, validation.RawFields{"initial_hours": "x"})
	require.ErrorIs(t, err, store.ErrValidation)
	_, err = svc.Contracts.Create(ctx, 999, validation.RawFields{})
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Interventions.Update(ctx, 999, validation.RawFields{"description": "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.HourPurchases.Delete(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{
		"client/create/validation",
		"client/create/ok",
		"client/update/validation",
		"contract/create/not_found",
		"intervention/update/not_found",
		"hour_purchase/delete/not_found",
	}, m.calls)
}

func TestListForClient(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	_, err = svc.Contracts.Create(ctx, c.ID, validation.RawFields{})
	require.NoError(t, err)
	_, err = svc.Interventions.Create(ctx, c.ID, validation.RawFields{"description": "x", "time_spent_on_site": "5"})
	require.NoError(t, err)

	contracts, err := svc.Contracts.ListForClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
	interventions, err := svc.Interventions.ListForClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, interventions, 1)
	purchases, err := svc.HourPurchases.ListForClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)

	_, err = svc.Contracts.ListForClient(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePreviewCountsDependents(t *testing.T) {
	svc, dbi := setup(t)
	ctx := context.Background()
	c, err := svc.Clients.Create(ctx, validation.RawFields{"name": "Acme"})
	require.NoError(t, err)
	_, err = svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-01", "hours_purchased": "2"})
	require.NoError(t, err)
	_, err = svc.HourPurchases.Create(ctx, c.ID, validation.RawFields{"purchase_date": "2024-05-02", "hours_purchased": "1"})
	require.NoError(t, err)

	got, deps, err := svc.Clients.DeletePreview(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, store.Dependents{HourPurchases: 2}, deps)

	var n int64
	dbi.Model(&models.Client{}).Count(&n)
	assert.Equal(t, int64(1), n)

	_, _, err = svc.Clients.DeletePreview(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
