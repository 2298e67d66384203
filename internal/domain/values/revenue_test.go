package values_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func TestRecurringRevenue_CadenceIndependence(t *testing.T) {
	rr := values.MustRecurringRevenue(1250.50)

	// Annualizing any cadence's billed amount recovers the same figure.
	annual := rr.Annualized()
	assert.True(t, rr.ForMonths(1).Mul(decimal.NewFromInt(12)).Equal(annual))
	assert.True(t, rr.ForMonths(3).Mul(decimal.NewFromInt(4)).Equal(annual))
	assert.True(t, rr.ForMonths(12).Equal(annual))
	assert.True(t, rr.ForMonths(24).Div(decimal.NewFromInt(2)).Equal(annual))
}

func TestRecurringRevenue_ForMonths(t *testing.T) {
	tests := []struct {
		name    string
		monthly float64
		months  int
		want    string
	}{
		{"monthly", 800, 1, "800"},
		{"quarterly", 800, 3, "2400"},
		{"annual", 800, 12, "9600"},
		{"upfront two year", 800, 24, "19200"},
		{"cents survive", 99.99, 3, "299.97"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := values.MustRecurringRevenue(tt.monthly)
			assert.True(t, rr.ForMonths(tt.months).Equal(decimal.RequireFromString(tt.want)),
				"got %s", rr.ForMonths(tt.months))
		})
	}
}

func TestNewRecurringRevenue_RejectsNegative(t *testing.T) {
	_, err := values.NewRecurringRevenue(decimal.NewFromInt(-1))
	require.Error(t, err)

	_, err = values.NewRecurringRevenueFromFloat(-0.01)
	require.Error(t, err)
}

func TestRecurringRevenue_Scale(t *testing.T) {
	rr := values.MustRecurringRevenue(1000)

	up, err := rr.Scale(1.25)
	require.NoError(t, err)
	assert.True(t, up.Monthly().Equal(decimal.NewFromInt(1250)))

	down, err := rr.Scale(0.6)
	require.NoError(t, err)
	assert.True(t, down.Monthly().Equal(decimal.NewFromInt(600)))

	_, err = rr.Scale(-0.5)
	require.Error(t, err)
}

func TestRecurringRevenue_Clamp(t *testing.T) {
	lo := decimal.NewFromInt(800)
	hi := decimal.NewFromInt(3000)

	assert.True(t, values.MustRecurringRevenue(500).Clamp(lo, hi).Monthly().Equal(lo))
	assert.True(t, values.MustRecurringRevenue(5000).Clamp(lo, hi).Monthly().Equal(hi))
	assert.True(t, values.MustRecurringRevenue(1500).Clamp(lo, hi).Monthly().Equal(decimal.NewFromInt(1500)))
}

func TestZeroRevenue(t *testing.T) {
	assert.True(t, values.ZeroRevenue().IsZero())
	assert.True(t, values.ZeroRevenue().ForMonths(12).IsZero())
}
