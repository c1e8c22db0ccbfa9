package service

import (
	"github.com/shopspring/decimal"
)

// depositRate is the share of the accommodation cost taken as deposit.
var depositRate = decimal.RequireFromString("0.30")

// CostLine is one room type of a booking: its nightly price and how many
// rooms of it are booked.
type CostLine struct {
	PricePerNight decimal.Decimal
	Count         int
}

// AccommodationCost sums price × nights × count over lines and rounds the
// total once to 2 places.  Inputs are non-negative, so the half away from
// zero rounding of decimal.Round is round-half-up.
func AccommodationCost(nights int, lines []CostLine) decimal.Decimal {
	n := decimal.NewFromInt(int64(nights))
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.PricePerNight.Mul(n).Mul(decimal.NewFromInt(int64(l.Count))))
	}
	return total.Round(2)
}

// DepositAmount is 30% of cost, rounded half-up to 2 places.
func DepositAmount(cost decimal.Decimal) decimal.Decimal {
	return cost.Mul(depositRate).Round(2)
}
