package common

import (
	"github.com/shopspring/decimal"
)

// Flight time arithmetic. All values are integer minutes; every rounding step rounds
// half away from zero. A nil or non-positive multiplier behaves like 1.

var (
	minutesPerHour = decimal.NewFromInt(60)
	one            = decimal.NewFromInt(1)
)

func multiplierDecimal(value float64) decimal.Decimal {
	if value <= 0 {
		return one
	}
	return decimal.NewFromFloat(value)
}

func roundMinutes(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}

// ComputeAdjusted returns the credited flight time for a raw duration.
func ComputeAdjusted(baseMinutes int, multiplier *float64) int {
	if multiplier == nil {
		return baseMinutes
	}
	return roundMinutes(decimal.NewFromInt(int64(baseMinutes)).Mul(multiplierDecimal(*multiplier)))
}

// BaseFromAdjusted recovers the raw duration a credited time was derived from.
func BaseFromAdjusted(adjustedMinutes int, multiplier float64) int {
	return roundMinutes(decimal.NewFromInt(int64(adjustedMinutes)).Div(multiplierDecimal(multiplier)))
}

// RecomputeOnMultiplierChange swaps the multiplier on an already adjusted time.
// The value always goes back through the base: round(round(current/old) * new).
// Repeated swaps can drift by a minute; that is the expected behaviour.
func RecomputeOnMultiplierChange(currentAdjusted int, oldMultiplier, newMultiplier float64) int {
	base := BaseFromAdjusted(currentAdjusted, oldMultiplier)
	return roundMinutes(decimal.NewFromInt(int64(base)).Mul(multiplierDecimal(newMultiplier)))
}

// RecomputeOnDirectTimeChange credits a newly entered hours/minutes duration under the
// multiplier currently on the report.
func RecomputeOnDirectTimeChange(hours, minutes int, currentMultiplier float64) int {
	base := hours*60 + minutes
	return roundMinutes(decimal.NewFromInt(int64(base)).Mul(multiplierDecimal(currentMultiplier)))
}

// FormatHours renders minutes as decimal hours, e.g. 510 -> "8.5h", 601 -> "10.02h".
func FormatHours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2).String() + "h"
}

// HoursToMinutes converts a rank limit expressed in hours to minutes.
func HoursToMinutes(hours float64) int {
	return roundMinutes(decimal.NewFromFloat(hours).Mul(minutesPerHour))
}
