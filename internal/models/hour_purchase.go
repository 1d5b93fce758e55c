package models

import (
	"time"

	"github.com/diewo77/nexusmanager/validation"
)

// HourPurchase credits pre-paid support hours to a client's balance.
type HourPurchase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	PurchaseDate     time.Time `gorm:"not null;index" json:"purchase_date"`
	HoursPurchased   float64   `gorm:"not null" json:"hours_purchased"`
	InvoiceReference string    `gorm:"size:200" json:"invoice_reference,omitempty"`
}

func (h *HourPurchase) Validate() validation.Violations {
	v := validation.Violations{}
	if h.ClientID == 0 {
		v["client_id"] = validation.CodeRequired
	}
	if h.PurchaseDate.IsZero() {
		v["purchase_date"] = validation.CodeRequired
	}
	validation.PositiveFloat("hours_purchased", h.HoursPurchased, v)
	return v
}

// HourPurchasePatch is a partial update of an HourPurchase.
type HourPurchasePatch struct {
	PurchaseDate     Field[time.Time]
	HoursPurchased   Field[float64]
	InvoiceReference Field[string]
}

func (p HourPurchasePatch) Apply(h *HourPurchase) {
	p.PurchaseDate.apply(&h.PurchaseDate)
	p.HoursPurchased.apply(&h.HoursPurchased)
	p.InvoiceReference.apply(&h.InvoiceReference)
}
