// Package ledger derives a client's support-hour balance from its persisted
// rows. Nothing here is stored; balances are recomputed on every read.
//
// Billing policy per intervention:
//   - the active contract is the client's contract in force on the
//     intervention's calendar day; among several, the one expiring last wins
//     (no expiry beats any date) and ties go to the highest id;
//   - without an active contract the time spent is charged as is;
//   - with one, at least MinChargeableTime minutes are charged, and
//     CallOutTimeIfNotIncluded minutes are added once for an on-site
//     intervention when the contract does not include the call-out fee.
package ledger

import (
	"time"

	"github.com/diewo77/nexusmanager/internal/models"
)

// Line is the billing breakdown of one intervention, in minutes.
type Line struct {
	InterventionID   uint      `json:"intervention_id"`
	InterventionDate time.Time `json:"intervention_date"`
	ContractID       *uint     `json:"contract_id,omitempty"`
	SpentMinutes     int       `json:"spent_minutes"`
	// Minutes added to reach the contract minimum.
	MinimumPadding int `json:"minimum_padding"`
	CallOutMinutes int `json:"call_out_minutes"`
	Chargeable     int `json:"chargeable_minutes"`
}

// Balance is the derived hour ledger of a client.
type Balance struct {
	ClientID            uint    `json:"client_id"`
	InitialHours        float64 `json:"initial_hours"`
	TotalPurchasedHours float64 `json:"total_purchased_hours"`
	TotalConsumedHours  float64 `json:"total_consumed_hours"`
	// May be negative: an overdraft tells the client to buy more hours.
	RemainingHours float64 `json:"remaining_hours"`
	Lines          []Line  `json:"lines"`
}

// Overdrawn reports whether more hours were consumed than were available.
func (b Balance) Overdrawn() bool { return b.RemainingHours < 0 }

// Compute derives the balance of client from its dependents.
func Compute(client models.Client, contracts []models.Contract, interventions []models.Intervention, purchases []models.HourPurchase) Balance {
	b := Balance{
		ClientID:     client.ID,
		InitialHours: client.InitialHours,
		Lines:        make([]Line, 0, len(interventions)),
	}
	for _, p := range purchases {
		b.TotalPurchasedHours += p.HoursPurchased
	}
	var minutes int
	for _, i := range interventions {
		line := Charge(i, ActiveContract(contracts, i.InterventionDate))
		minutes += line.Chargeable
		b.Lines = append(b.Lines, line)
	}
	b.TotalConsumedHours = float64(minutes) / 60
	b.RemainingHours = b.InitialHours + b.TotalPurchasedHours - b.TotalConsumedHours
	return b
}

// Charge computes the chargeable minutes of i under contract, which may be nil.
func Charge(i models.Intervention, contract *models.Contract) Line {
	line := Line{
		InterventionID:   i.ID,
		InterventionDate: i.InterventionDate,
		SpentMinutes:     i.TimeSpentOnSite,
		Chargeable:       i.TimeSpentOnSite,
	}
	if contract == nil {
		return line
	}
	id := contract.ID
	line.ContractID = &id
	if contract.MinChargeableTime > i.TimeSpentOnSite {
		line.MinimumPadding = contract.MinChargeableTime - i.TimeSpentOnSite
	}
	if !contract.IncludesCallOutFee && !i.IsRemote {
		line.CallOutMinutes = contract.CallOutTimeIfNotIncluded
	}
	line.Chargeable = i.TimeSpentOnSite + line.MinimumPadding + line.CallOutMinutes
	return line
}

// ActiveContract picks the contract in force at t, or nil.
func ActiveContract(contracts []models.Contract, t time.Time) *models.Contract {
	var best *models.Contract
	for idx := range contracts {
		c := &contracts[idx]
		if !c.Covers(t) {
			continue
		}
		if best == nil || expiresLater(c, best) {
			best = c
		}
	}
	return best
}

func expiresLater(a, b *models.Contract) bool {
	switch {
	case a.ContractExpiryDate == nil && b.ContractExpiryDate == nil:
		return a.ID > b.ID
	case a.ContractExpiryDate == nil:
		return true
	case b.ContractExpiryDate == nil:
		return false
	case a.ContractExpiryDate.Equal(*b.ContractExpiryDate):
		return a.ID > b.ID
	default:
		return a.ContractExpiryDate.After(*b.ContractExpiryDate)
	}
}
