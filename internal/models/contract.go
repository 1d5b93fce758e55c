package models

import (
	"time"

	"github.com/diewo77/nexusmanager/validation"
)

// Contract is a client's service-fee and call-out policy, optionally valid
// until an expiry date.
type Contract struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	AnnualFee          *float64   `json:"annual_fee,omitempty"`
	ContractExpiryDate *time.Time `gorm:"type:date" json:"contract_expiry_date,omitempty"`

	IncludesCallOutFee bool `gorm:"not null" json:"includes_call_out_fee"`
	// Minutes charged at least for any intervention under this contract.
	MinChargeableTime int `gorm:"not null" json:"min_chargeable_time"`
	// Minutes added per on-site intervention when call-out is not included.
	CallOutTimeIfNotIncluded int `gorm:"not null" json:"call_out_time_if_not_included"`
}

// NewContract returns a contract for clientID carrying the schema defaults.
func NewContract(clientID uint) *Contract {
	return &Contract{
		ClientID:                 clientID,
		IncludesCallOutFee:       DefaultIncludesCallOutFee,
		MinChargeableTime:        DefaultMinChargeableMinutes,
		CallOutTimeIfNotIncluded: DefaultCallOutIfNotIncluded,
	}
}

func (c *Contract) Validate() validation.Violations {
	v := validation.Violations{}
	if c.ClientID == 0 {
		v["client_id"] = validation.CodeRequired
	}
	if c.AnnualFee != nil {
		validation.NonNegativeFloat("annual_fee", *c.AnnualFee, v)
	}
	validation.NonNegativeInt("min_chargeable_time", c.MinChargeableTime, v)
	validation.NonNegativeInt("call_out_time_if_not_included", c.CallOutTimeIfNotIncluded, v)
	return v
}

// Covers reports whether the contract is in force on the calendar day of t.
// A contract without expiry date never lapses; the expiry day itself is
// still covered.
func (c *Contract) Covers(t time.Time) bool {
	if c.ContractExpiryDate == nil {
		return true
	}
	return !dateOf(t).After(dateOf(*c.ContractExpiryDate))
}

// ContractPatch is a partial update of a Contract.
type ContractPatch struct {
	AnnualFee                Field[*float64]
	ContractExpiryDate       Field[*time.Time]
	IncludesCallOutFee       Field[bool]
	MinChargeableTime        Field[int]
	CallOutTimeIfNotIncluded Field[int]
}

func (p ContractPatch) Apply(c *Contract) {
	p.AnnualFee.apply(&c.AnnualFee)
	p.ContractExpiryDate.apply(&c.ContractExpiryDate)
	p.IncludesCallOutFee.apply(&c.IncludesCallOutFee)
	p.MinChargeableTime.apply(&c.MinChargeableTime)
	p.CallOutTimeIfNotIncluded.apply(&c.CallOutTimeIfNotIncluded)
}
