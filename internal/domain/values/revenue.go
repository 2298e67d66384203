package values

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecurringRevenue is a cadence-independent recurring-revenue value, held as
// the monthly baseline in USD. Billed amounts are always derived from the
// baseline by multiplying out to the billing cadence, never the reverse, so
// annualized roll-ups cannot drift with the billing-period choice.
type RecurringRevenue struct {
	monthly decimal.Decimal
}

var twelve = decimal.NewFromInt(12)

// NewRecurringRevenue creates a RecurringRevenue from a monthly baseline.
func NewRecurringRevenue(monthly decimal.Decimal) (RecurringRevenue, error) {
	if monthly.IsNegative() {
		return RecurringRevenue{}, fmt.Errorf("monthly baseline cannot be negative: %s", monthly)
	}
	return RecurringRevenue{monthly: monthly}, nil
}

// NewRecurringRevenueFromFloat creates a RecurringRevenue from a float64
// monthly baseline, rounded to cents.
func NewRecurringRevenueFromFloat(monthly float64) (RecurringRevenue, error) {
	return NewRecurringRevenue(decimal.NewFromFloat(monthly).Round(2))
}

// MustRecurringRevenue creates a RecurringRevenue and panics on error
// (for constants and tests).
func MustRecurringRevenue(monthly float64) RecurringRevenue {
	r, err := NewRecurringRevenueFromFloat(monthly)
	if err != nil {
		panic(err)
	}
	return r
}

// ZeroRevenue returns the zero recurring-revenue value (churned customers).
func ZeroRevenue() RecurringRevenue {
	return RecurringRevenue{monthly: decimal.Zero}
}

// Monthly returns the monthly baseline.
func (r RecurringRevenue) Monthly() decimal.Decimal {
	return r.monthly
}

// ForMonths returns the billed amount covering the given number of months.
func (r RecurringRevenue) ForMonths(months int) decimal.Decimal {
	return r.monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)
}

// Annualized returns the annual run-rate (monthly baseline x 12).
func (r RecurringRevenue) Annualized() decimal.Decimal {
	return r.monthly.Mul(twelve).Round(2)
}

// Scale returns a new RecurringRevenue with the baseline multiplied by
// factor, rounded to cents. Factor must be non-negative.
func (r RecurringRevenue) Scale(factor float64) (RecurringRevenue, error) {
	if factor < 0 {
		return RecurringRevenue{}, fmt.Errorf("scale factor cannot be negative: %v", factor)
	}
	return RecurringRevenue{monthly: r.monthly.Mul(decimal.NewFromFloat(factor)).Round(2)}, nil
}

// Clamp bounds the monthly baseline into [min, max].
func (r RecurringRevenue) Clamp(min, max decimal.Decimal) RecurringRevenue {
	switch {
	case r.monthly.LessThan(min):
		return RecurringRevenue{monthly: min}
	case r.monthly.GreaterThan(max):
		return RecurringRevenue{monthly: max}
	default:
		return r
	}
}

// IsZero reports whether the baseline is zero.
func (r RecurringRevenue) IsZero() bool {
	return r.monthly.IsZero()
}

// GreaterThan reports whether r's baseline exceeds other's.
func (r RecurringRevenue) GreaterThan(other RecurringRevenue) bool {
	return r.monthly.GreaterThan(other.monthly)
}

// Equal reports whether two values have the same baseline.
func (r RecurringRevenue) Equal(other RecurringRevenue) bool {
	return r.monthly.Equal(other.monthly)
}

func (r RecurringRevenue) String() string {
	return r.monthly.StringFixed(2) + "/mo"
}
