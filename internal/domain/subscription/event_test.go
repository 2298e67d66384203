package subscription_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func event(id int64, date string, typ subscription.EventType) *subscription.Event {
	return &subscription.Event{
		ID:            id,
		CustomerID:    1,
		EventDate:     values.MustParseDate(date),
		Type:          typ,
		ProductTier:   subscription.TierProfessional,
		MRRAmount:     decimal.NewFromInt(1500),
		BillingPeriod: subscription.BillingMonthly,
	}
}

func TestValidateLifecycle(t *testing.T) {
	signup := values.MustParseDate("2022-01-10")

	tests := []struct {
		name    string
		events  []*subscription.Event
		wantErr string
	}{
		{
			name:    "empty sequence",
			events:  nil,
			wantErr: "no subscription events",
		},
		{
			name: "valid new renewal churn",
			events: []*subscription.Event{
				event(1, "2022-01-15", subscription.EventTypeNew),
				event(2, "2023-01-20", subscription.EventTypeRenewal),
				event(3, "2024-01-18", subscription.EventTypeChurn),
			},
		},
		{
			name: "first event not new",
			events: []*subscription.Event{
				event(1, "2022-01-15", subscription.EventTypeRenewal),
			},
			wantErr: `want "new"`,
		},
		{
			name: "event after churn",
			events: []*subscription.Event{
				event(1, "2022-01-15", subscription.EventTypeNew),
				event(2, "2023-01-10", subscription.EventTypeChurn),
				event(3, "2023-06-01", subscription.EventTypeRenewal),
			},
			wantErr: "events follow terminal",
		},
		{
			name: "second new event",
			events: []*subscription.Event{
				event(1, "2022-01-15", subscription.EventTypeNew),
				event(2, "2023-01-15", subscription.EventTypeNew),
			},
			wantErr: "only valid as the first event",
		},
		{
			name: "event before signup",
			events: []*subscription.Event{
				event(1, "2021-12-31", subscription.EventTypeNew),
			},
			wantErr: "precedes signup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := subscription.ValidateLifecycle(tt.events, signup)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLifecycle_UsesChronologicalOrder(t *testing.T) {
	// Slice order is not date order; validation must sort first.
	events := []*subscription.Event{
		event(2, "2023-01-20", subscription.EventTypeRenewal),
		event(1, "2022-01-15", subscription.EventTypeNew),
	}
	require.NoError(t, subscription.ValidateLifecycle(events, values.MustParseDate("2022-01-10")))
}

func TestBillingPeriod_Months(t *testing.T) {
	assert.Equal(t, 1, subscription.BillingMonthly.Months())
	assert.Equal(t, 3, subscription.BillingQuarterly.Months())
	assert.Equal(t, 12, subscription.BillingAnnual.Months())
	assert.Equal(t, 24, subscription.BillingUpfront.Months())
	assert.Equal(t, 0, subscription.BillingPeriod("weekly").Months())
}

func TestEvent_Annualized(t *testing.T) {
	// The same 2000/mo baseline expressed at each cadence annualizes
	// identically.
	baseline := values.MustRecurringRevenue(2000)
	want := decimal.NewFromInt(24000)

	periods := []subscription.BillingPeriod{
		subscription.BillingMonthly,
		subscription.BillingQuarterly,
		subscription.BillingAnnual,
		subscription.BillingUpfront,
	}
	for _, period := range periods {
		e := event(1, "2022-01-15", subscription.EventTypeNew)
		e.BillingPeriod = period
		e.MRRAmount = baseline.ForMonths(period.Months())
		assert.True(t, e.Annualized().Equal(want), "period %s annualized to %s", period, e.Annualized())
	}
}

func TestProductTier_Rank(t *testing.T) {
	assert.Equal(t, 0, subscription.TierStarter.Rank())
	assert.Equal(t, 3, subscription.TierEnterprisePlus.Rank())
	assert.Equal(t, -1, subscription.ProductTier("platinum").Rank())
	assert.False(t, subscription.ProductTier("platinum").Valid())
}

func TestSortByDate_TieBreaksByID(t *testing.T) {
	a := event(2, "2023-01-15", subscription.EventTypeRenewal)
	b := event(1, "2023-01-15", subscription.EventTypeNew)
	events := []*subscription.Event{a, b}

	subscription.SortByDate(events)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, int64(2), events[1].ID)
}
