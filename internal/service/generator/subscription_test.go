package generator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// centTolerance absorbs rounding from deriving the monthly figure back out
// of a billed amount.
var centTolerance = decimal.NewFromFloat(0.01)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func generateEventSets(t *testing.T, n int) [][]*subscription.Event {
	t.Helper()
	cfg := testConfig(t)
	cfg.Dataset.CustomerCount = n

	customers, err := NewCustomerGenerator(cfg, zap.NewNop()).Generate()
	require.NoError(t, err)

	gen := NewEventGenerator(cfg, zap.NewNop())
	sets := make([][]*subscription.Event, len(customers))
	for i, c := range customers {
		sets[i], err = gen.GenerateForCustomer(newStream(deriveSeed(cfg.Dataset.Seed, c.ID)), c)
		require.NoError(t, err, "customer %d", c.ID)
	}
	return sets
}

func TestEventGenerator_LifecycleShape(t *testing.T) {
	horizon := values.MustParseDate("2025-06-30")

	for _, events := range generateEventSets(t, 150) {
		require.NotEmpty(t, events)
		subscription.SortByDate(events)

		assert.Equal(t, subscription.EventTypeNew, events[0].Type)
		for i, e := range events {
			assert.False(t, e.EventDate.After(horizon), "event %d past horizon", e.ID)
			if e.Type == subscription.EventTypeChurn {
				assert.Equal(t, len(events)-1, i, "churn must be terminal")
				assert.True(t, e.MRRAmount.IsZero())
				continue
			}
			assert.True(t, e.MRRAmount.IsPositive(), "event %d amount", e.ID)
			assert.GreaterOrEqual(t, e.ContractLengthMonths, 12, "event %d contract", e.ID)
			assert.LessOrEqual(t, e.DiscountPercentage, 5.0, "event %d discount", e.ID)
			assert.GreaterOrEqual(t, e.DiscountPercentage, 0.0)
		}
	}
}

func TestEventGenerator_ExpansionAndDowngradeMoveAmounts(t *testing.T) {
	// Billing period is fixed per customer, so annualized amounts are
	// directly proportional to the monthly baseline: expansions must raise
	// it strictly, downgrades must lower it, renewals never shrink it.
	var expansions, downgrades int
	for _, events := range generateEventSets(t, 300) {
		subscription.SortByDate(events)
		for i := 1; i < len(events); i++ {
			prev, curr := events[i-1], events[i]
			if curr.Type == subscription.EventTypeChurn {
				continue
			}
			switch curr.Type {
			case subscription.EventTypeExpansion:
				expansions++
				assert.True(t, curr.Annualized().GreaterThan(prev.Annualized()),
					"expansion %d did not increase amount", curr.ID)
				assert.GreaterOrEqual(t, curr.ProductTier.Rank(), prev.ProductTier.Rank())
			case subscription.EventTypeDowngrade:
				downgrades++
				assert.True(t, curr.Annualized().LessThan(prev.Annualized()),
					"downgrade %d did not decrease amount", curr.ID)
			case subscription.EventTypeRenewal:
				assert.False(t, curr.Annualized().LessThan(prev.Annualized()),
					"renewal %d shrank amount", curr.ID)
			}
		}
	}
	// The mix must actually exercise both paths at this scale.
	assert.Positive(t, expansions)
	assert.Positive(t, downgrades)
}

func TestEventGenerator_AmountsInsideJointBands(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.CustomerCount = 200

	customers, err := NewCustomerGenerator(cfg, zap.NewNop()).Generate()
	require.NoError(t, err)

	gen := NewEventGenerator(cfg, zap.NewNop())
	for _, c := range customers {
		events, err := gen.GenerateForCustomer(newStream(deriveSeed(cfg.Dataset.Seed, c.ID)), c)
		require.NoError(t, err)

		for _, e := range events {
			if e.Type == subscription.EventTypeChurn {
				continue
			}
			lo, hi := gen.baselineBand(e.ProductTier, c.Segment)
			monthly := e.MRRAmount.Div(decimalFromInt(e.BillingPeriod.Months()))
			assert.True(t, monthly.GreaterThanOrEqual(lo.Sub(centTolerance)) && monthly.LessThanOrEqual(hi.Add(centTolerance)),
				"event %d monthly %s outside [%s, %s] for %s/%s", e.ID, monthly, lo, hi, e.ProductTier, c.Segment)
		}
	}
}

func TestEventGenerator_ChurnRequiresTenure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.CustomerCount = 300

	customers, err := NewCustomerGenerator(cfg, zap.NewNop()).Generate()
	require.NoError(t, err)

	gen := NewEventGenerator(cfg, zap.NewNop())
	for _, c := range customers {
		events, err := gen.GenerateForCustomer(newStream(deriveSeed(cfg.Dataset.Seed, c.ID)), c)
		require.NoError(t, err)

		for _, e := range events {
			if e.Type == subscription.EventTypeChurn {
				assert.Greater(t, c.SignupDate.DaysUntil(e.EventDate), cfg.Subscriptions.ChurnMinTenureDays,
					"customer %d churned before minimum tenure", c.ID)
			}
		}
	}
}

func TestEventGenerator_Deterministic(t *testing.T) {
	first := generateEventSets(t, 80)
	second := generateEventSets(t, 80)
	require.Equal(t, first, second)
}
