package models

import (
	"time"

	"github.com/diewo77/nexusmanager/validation"
)

// Client is a billable customer and the root of its contracts, interventions
// and hour purchases. Dependents are reached through the store, never
// through navigation fields.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Email string `gorm:"size:100" json:"email,omitempty"`
	Notes string `gorm:"type:text" json:"notes,omitempty"`

	// Starting hour balance before any purchase.
	InitialHours float64 `gorm:"not null" json:"initial_hours"`
	// Minutes.
	DefaultCallOutTime int `gorm:"not null" json:"default_call_out_time"`
}

// NewClient returns a client carrying the schema defaults.
func NewClient(name string) *Client {
	return &Client{
		Name:               name,
		InitialHours:       DefaultInitialHours,
		DefaultCallOutTime: DefaultCallOutMinutes,
	}
}

// Validate checks the invariants the store enforces before any write.
func (c *Client) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	validation.NonNegativeInt("default_call_out_time", c.DefaultCallOutTime, v)
	return v
}

// ClientPatch is a partial update of a Client.
type ClientPatch struct {
	Name               Field[string]
	Email              Field[string]
	Notes              Field[string]
	InitialHours       Field[float64]
	DefaultCallOutTime Field[int]
}

func (p ClientPatch) Apply(c *Client) {
	p.Name.apply(&c.Name)
	p.Email.apply(&c.Email)
	p.Notes.apply(&c.Notes)
	p.InitialHours.apply(&c.InitialHours)
	p.DefaultCallOutTime.apply(&c.DefaultCallOutTime)
}
