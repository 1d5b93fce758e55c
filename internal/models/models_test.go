package models

import (
	"testing"
	"time"

	"github.com/diewo77/nexusmanager/validation"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("Acme")
	if c.InitialHours != 0 {
		t.Errorf("InitialHours = %f, want 0", c.InitialHours)
	}
	if c.DefaultCallOutTime != 30 {
		t.Errorf("DefaultCallOutTime = %d, want 30", c.DefaultCallOutTime)
	}
}

func TestClient_Validate(t *testing.T) {
	if v := NewClient("Acme").Validate(); !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	v := NewClient("   ").Validate()
	if v["name"] != validation.CodeRequired {
		t.Errorf("name violation = %q, want required", v["name"])
	}
}

func TestClientPatch_Apply(t *testing.T) {
	c := &Client{Name: "Old", Email: "old@example.com", InitialHours: 4}
	ClientPatch{Name: Set("New"), InitialHours: Set(0.0)}.Apply(c)

	if c.Name != "New" {
		t.Errorf("Name = %q, want New", c.Name)
	}
	if c.Email != "old@example.com" {
		t.Errorf("Email changed to %q", c.Email)
	}
	if c.InitialHours != 0 {
		t.Errorf("InitialHours = %f, want 0", c.InitialHours)
	}
}

func TestNewContractDefaults(t *testing.T) {
	c := NewContract(7)
	if !c.IncludesCallOutFee {
		t.Error("IncludesCallOutFee should default to true")
	}
	if c.MinChargeableTime != 30 || c.CallOutTimeIfNotIncluded != 30 {
		t.Errorf("minute defaults = %d/%d, want 30/30", c.MinChargeableTime, c.CallOutTimeIfNotIncluded)
	}
	if c.AnnualFee != nil || c.ContractExpiryDate != nil {
		t.Error("optional fields should start empty")
	}
}

func TestContract_Covers(t *testing.T) {
	expiry := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		expiry *time.Time
		at     time.Time
		want   bool
	}{
		{"open ended", nil, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"before expiry", &expiry, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), true},
		{"expiry day late evening", &expiry, time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC), true},
		{"after expiry", &expiry, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contract{ContractExpiryDate: tt.expiry}
			if got := c.Covers(tt.at); got != tt.want {
				t.Errorf("Covers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContractPatch_ClearsExpiry(t *testing.T) {
	expiry := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	c := &Contract{ContractExpiryDate: &expiry, MinChargeableTime: 30}
	ContractPatch{ContractExpiryDate: Set[*time.Time](nil)}.Apply(c)
	if c.ContractExpiryDate != nil {
		t.Error("expiry should be cleared")
	}
	if c.MinChargeableTime != 30 {
		t.Errorf("MinChargeableTime changed to %d", c.MinChargeableTime)
	}
}

func TestContract_ValidateRejectsNegativeMinutes(t *testing.T) {
	c := NewContract(1)
	c.MinChargeableTime = -1
	v := c.Validate()
	if v["min_chargeable_time"] != validation.CodeNegative {
		t.Errorf("violation = %q, want must_not_be_negative", v["min_chargeable_time"])
	}
}

func TestIntervention_Validate(t *testing.T) {
	i := &Intervention{ClientID: 1, InterventionDate: time.Now(), Description: "Printer", TimeSpentOnSite: 0}
	v := i.Validate()
	if v["time_spent_on_site"] != validation.CodeMustBePositive {
		t.Errorf("time violation = %q, want must_be_positive", v["time_spent_on_site"])
	}
	i.Description = ""
	if i.Validate()["description"] != validation.CodeRequired {
		t.Error("description should be required")
	}
}

func TestHourPurchase_Validate(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		ok    bool
	}{
		{"positive", 5, true},
		{"zero", 0, false},
		{"negative", -2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HourPurchase{ClientID: 1, PurchaseDate: time.Now(), HoursPurchased: tt.hours}
			if got := h.Validate().Empty(); got != tt.ok {
				t.Errorf("Validate().Empty() = %v, want %v", got, tt.ok)
			}
		})
	}
}
