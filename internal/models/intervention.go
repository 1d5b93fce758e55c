package models

import (
	"strings"
	"time"

	"github.com/diewo77/nexusmanager/validation"
)

// Intervention is one logged support event, on site or remote.
type Intervention struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	InterventionDate time.Time `gorm:"not null;index" json:"intervention_date"`
	TechnicianName   string    `gorm:"size:100" json:"technician_name,omitempty"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	IsRemote         bool      `gorm:"not null" json:"is_remote"`
	// Minutes.
	TimeSpentOnSite int `gorm:"not null" json:"time_spent_on_site"`
}

func (i *Intervention) Validate() validation.Violations {
	v := validation.Violations{}
	if i.ClientID == 0 {
		v["client_id"] = validation.CodeRequired
	}
	if strings.TrimSpace(i.Description) == "" {
		v["description"] = validation.CodeRequired
	}
	validation.PositiveInt("time_spent_on_site", i.TimeSpentOnSite, v)
	if i.InterventionDate.IsZero() {
		v["intervention_date"] = validation.CodeRequired
	}
	return v
}

// InterventionPatch is a partial update of an Intervention.
type InterventionPatch struct {
	InterventionDate Field[time.Time]
	TechnicianName   Field[string]
	Description      Field[string]
	IsRemote         Field[bool]
	TimeSpentOnSite  Field[int]
}

func (p InterventionPatch) Apply(i *Intervention) {
	p.InterventionDate.apply(&i.InterventionDate)
	p.TechnicianName.apply(&i.TechnicianName)
	p.Description.apply(&i.Description)
	p.IsRemote.apply(&i.IsRemote)
	p.TimeSpentOnSite.apply(&i.TimeSpentOnSite)
}
