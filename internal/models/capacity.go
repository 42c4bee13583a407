package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinActiveWorkers    = 1
	MaxActiveWorkers    = 9999
	MaxHoursPerDay      = 24
	WorkingDaysPerMonth = 22 // Working days assumed when deriving monthly capacity

	// Decimal inputs are stored as NUMERIC(_, 2); more places would be rounded away.
	MaxDecimalPlaces = 2

	// Fallback workforce used by acceptance when a supplier never configured capacity.
	FallbackActiveWorkers = 1
	FallbackHoursPerDay   = 8
)

func init() {
	// Decimal fields go out as JSON numbers, like every other numeric field.
	decimal.MarshalJSONWithoutQuotes = true
}

// CapacityProfile describes a supplier's configured production capacity.
type CapacityProfile struct {
	SupplierID              string          `json:"-"`
	ActiveWorkers           int             `json:"activeWorkers"`
	HoursPerDay             decimal.Decimal `json:"hoursPerDay"`
	MonthlyCapacityMinutes  int             `json:"monthlyCapacityMinutes"`
	CurrentOccupancyPercent float64         `json:"currentOccupancyPercent"`
	ProductTypes            []string        `json:"productTypes"`
	Specialties             []string        `json:"specialties"`
	UpdatedAt               time.Time       `json:"-"`
}

// CapacityConfigRequest is the body of a capacity configuration write.
type CapacityConfigRequest struct {
	ActiveWorkers int             `json:"activeWorkers"`
	HoursPerDay   decimal.Decimal `json:"hoursPerDay"`
}

// DefaultCapacityProfile is what callers see before a supplier configures anything.
func DefaultCapacityProfile(supplierID string) CapacityProfile {
	return CapacityProfile{
		SupplierID:   supplierID,
		HoursPerDay:  decimal.Zero,
		ProductTypes: []string{},
		Specialties:  []string{},
	}
}

// FitsDecimalPlaces reports whether d has no more than MaxDecimalPlaces significant places.
func FitsDecimalPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Round(MaxDecimalPlaces))
}

// IsConfigured reports whether the profile has a workforce.
func (p CapacityProfile) IsConfigured() bool {
	return p.ActiveWorkers > 0 && p.HoursPerDay.IsPositive()
}

// DailyCapacityMinutes returns workers × hours × 60, rounded to whole minutes.
func (p CapacityProfile) DailyCapacityMinutes() int {
	return DailyCapacityMinutes(p.ActiveWorkers, p.HoursPerDay)
}

// Recompute refreshes the derived monthly figure.
func (p *CapacityProfile) Recompute() {
	p.MonthlyCapacityMinutes = MonthlyCapacityMinutes(p.ActiveWorkers, p.HoursPerDay)
}

// DailyCapacityMinutes returns workers × hours × 60, rounded to whole minutes.
func DailyCapacityMinutes(workers int, hoursPerDay decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(workers)).
		Mul(hoursPerDay).
		Mul(decimal.NewFromInt(60)).
		Round(0).
		IntPart())
}

// MonthlyCapacityMinutes returns workers × hours × 60 × 22, rounded to whole minutes.
func MonthlyCapacityMinutes(workers int, hoursPerDay decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(workers)).
		Mul(hoursPerDay).
		Mul(decimal.NewFromInt(60)).
		Mul(decimal.NewFromInt(WorkingDaysPerMonth)).
		Round(0).
		IntPart())
}
