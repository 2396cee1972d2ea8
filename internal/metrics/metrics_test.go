package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/fundtrack/internal/models"
)

func TestProfitClass(t *testing.T) {
	assert.Equal(t, Gain, ProfitClass(152.33))
	assert.Equal(t, Gain, ProfitClass(0))
	assert.Equal(t, Loss, ProfitClass(-0.01))
}

func TestFloat_NilCoercion(t *testing.T) {
	assert.Equal(t, 0.0, Float(nil))

	v := 3.14
	assert.Equal(t, 3.14, Float(&v))
	// Coercion must not touch the source value
	assert.Equal(t, 3.14, v)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+3.25%", FormatPercent(3.251))
	assert.Equal(t, "-1.50%", FormatPercent(-1.5))
	assert.Equal(t, "+0.00%", FormatPercent(0))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "10000.50", FormatCurrency(10000.499999))
	assert.Equal(t, "-42.00", FormatCurrency(-42))
}

func TestFormatNav(t *testing.T) {
	assert.Equal(t, "1.2345", FormatNav(1.23454))
	assert.Equal(t, "0.0000", FormatNav(0))
}

func TestProfitRate_ZeroCostGuard(t *testing.T) {
	assert.Equal(t, 0.0, ProfitRate(1000, 0))
	assert.InDelta(t, 25.0, ProfitRate(1250, 1000), 1e-9)
}

// Derived totals consistency: profitRate == (value-cost)/cost*100 within 1e-6
// over generated holdings with positive cost.
func TestSummarize_DerivedTotalsConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(20)
		funds := make([]*models.FundOverview, n)
		for i := range funds {
			cost := 100 + rng.Float64()*100000
			value := rng.Float64() * 200000
			funds[i] = &models.FundOverview{
				FundCode:     "000001",
				TotalShares:  rng.Float64() * 10000,
				TotalCost:    cost,
				CurrentValue: value,
			}
		}

		s := Summarize(funds)

		var wantCost, wantValue float64
		for _, f := range funds {
			wantCost += f.TotalCost
			wantValue += f.CurrentValue
		}

		assert.Equal(t, n, s.TotalFunds)
		assert.InDelta(t, wantValue-wantCost, s.TotalProfit, 1e-6)
		want := (wantValue - wantCost) / wantCost * 100
		if math.Abs(want-s.TotalReturnRate) > 1e-6 {
			t.Fatalf("trial %d: TotalReturnRate = %v, want %v", trial, s.TotalReturnRate, want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalFunds)
	assert.Equal(t, 0.0, s.TotalReturnRate)
}
