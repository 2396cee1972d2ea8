// Package metrics provides pure derived-figure projections over fund data.
// Nothing here mutates cached state; every function is a read-only view for
// presentation.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fundtrack/internal/models"
)

// Class is the presentation classification of a profit figure.
type Class string

const (
	Gain Class = "gain"
	Loss Class = "loss"
)

// ProfitClass classifies a profit value for styling. Zero counts as a gain.
func ProfitClass(v float64) Class {
	if v >= 0 {
		return Gain
	}
	return Loss
}

// Float coerces a nullable numeric field to a value for display. The cached
// pointer itself is never touched.
func Float(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// String coerces a nullable string field for display.
func String(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// FormatPercent renders a percentage to two decimal places with a sign for
// positive values, e.g. "+3.25%".
func FormatPercent(v float64) string {
	d := decimal.NewFromFloat(v)
	s := d.StringFixed(2) + "%"
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}

// FormatCurrency renders a monetary amount to two decimal places.
func FormatCurrency(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatNav renders a net asset value to four decimal places.
func FormatNav(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

// Profit returns current value minus cost basis.
func Profit(currentValue, totalCost float64) float64 {
	return currentValue - totalCost
}

// ProfitRate returns profit over cost basis as a percentage, 0 when the cost
// basis is zero.
func ProfitRate(currentValue, totalCost float64) float64 {
	if totalCost == 0 {
		return 0
	}
	return (currentValue - totalCost) / totalCost * 100
}

// Summarize computes the portfolio-wide rollup from holdings. Used when the
// server summary is unavailable; the server-computed summary always wins when
// present.
func Summarize(funds []*models.FundOverview) models.ProfitSummary {
	var s models.ProfitSummary
	for _, f := range funds {
		if f == nil {
			continue
		}
		s.TotalFunds++
		s.TotalShares += f.TotalShares
		s.TotalCost += f.TotalCost
		s.TotalValue += f.CurrentValue
	}
	s.TotalProfit = s.TotalValue - s.TotalCost
	s.TotalReturnRate = ProfitRate(s.TotalValue, s.TotalCost)
	return s
}
