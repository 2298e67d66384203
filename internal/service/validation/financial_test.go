package validation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/validation"
	"github.com/phantomsec/compliance-dataset-generator/internal/testutil/fixtures"
)

func newFinancialValidator(t *testing.T) *validation.FinancialValidator {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	return validation.NewFinancialValidator(cfg, zap.NewNop())
}

// tierEvents builds n events on one tier at the given monthly baseline and
// cadence.
func tierEvents(t *testing.T, startID int64, n int, tier subscription.ProductTier, monthly float64, period subscription.BillingPeriod) []*subscription.Event {
	t.Helper()
	out := make([]*subscription.Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fixtures.NewEventBuilder(t).
			WithID(startID+int64(i)).
			WithTier(tier).
			WithAmount(monthly, period).
			Build())
	}
	return out
}

func TestFinancialValidator_CadenceInvariantAmountsPass(t *testing.T) {
	// The same monthly baseline expressed at every cadence must annualize
	// flat and produce no findings.
	ds := &generator.Dataset{SnapshotID: uuid.New()}
	ds.Events = append(ds.Events, tierEvents(t, 1, 10, subscription.TierProfessional, 2000, subscription.BillingMonthly)...)
	ds.Events = append(ds.Events, tierEvents(t, 11, 10, subscription.TierProfessional, 2000, subscription.BillingQuarterly)...)
	ds.Events = append(ds.Events, tierEvents(t, 21, 10, subscription.TierProfessional, 2000, subscription.BillingAnnual)...)
	ds.Events = append(ds.Events, tierEvents(t, 31, 10, subscription.TierProfessional, 2000, subscription.BillingUpfront)...)

	report := newFinancialValidator(t).Validate(ds)

	assert.False(t, report.HasFailures())
	assert.Zero(t, report.Warned, "unexpected warnings: %+v", report.Checks)
}

func TestFinancialValidator_DetectsCadenceTilt(t *testing.T) {
	// Annual-cadence customers paying 1.5x the monthly-cadence baseline
	// breaks the flatness ceiling (1.2x).
	ds := &generator.Dataset{SnapshotID: uuid.New()}
	ds.Events = append(ds.Events, tierEvents(t, 1, 10, subscription.TierProfessional, 2000, subscription.BillingMonthly)...)
	ds.Events = append(ds.Events, tierEvents(t, 11, 10, subscription.TierProfessional, 3000, subscription.BillingAnnual)...)

	report := newFinancialValidator(t).Validate(ds)

	check := findCheck(t, report, "cadence_invariance")
	assert.Equal(t, validation.StatusWarn, check.Status)
	assert.Contains(t, check.Detail, "professional")
}

func TestFinancialValidator_DetectsOutliers(t *testing.T) {
	ds := &generator.Dataset{SnapshotID: uuid.New()}
	ds.Events = append(ds.Events, tierEvents(t, 1, 30, subscription.TierStarter, 500, subscription.BillingMonthly)...)
	// A tight cluster with slight spread, then one grossly out-of-band event.
	ds.Events = append(ds.Events, tierEvents(t, 31, 5, subscription.TierStarter, 510, subscription.BillingMonthly)...)
	ds.Events = append(ds.Events, tierEvents(t, 36, 1, subscription.TierStarter, 20000, subscription.BillingMonthly)...)

	report := newFinancialValidator(t).Validate(ds)

	check := findCheck(t, report, "revenue_outliers")
	assert.Equal(t, validation.StatusWarn, check.Status)
	assert.Equal(t, 1, check.AffectedCount)
	assert.Equal(t, []int64{36}, check.SampleIDs)
}

func TestFinancialValidator_IgnoresChurnEvents(t *testing.T) {
	ds := &generator.Dataset{SnapshotID: uuid.New()}
	ds.Events = append(ds.Events, tierEvents(t, 1, 5, subscription.TierProfessional, 2000, subscription.BillingMonthly)...)
	ds.Events = append(ds.Events, fixtures.NewEventBuilder(t).WithID(6).
		WithType(subscription.EventTypeChurn).Build())

	report := newFinancialValidator(t).Validate(ds)
	assert.False(t, report.HasFailures())
	assert.Zero(t, report.Warned)
}

func TestFinancialValidator_IgnoresDowngradeEvents(t *testing.T) {
	// Downgrades price deliberately low within their band; they stay out of
	// the cadence and outlier pools so a legitimate downgrade cannot tilt a
	// tier's means.
	ds := &generator.Dataset{SnapshotID: uuid.New()}
	ds.Events = append(ds.Events, tierEvents(t, 1, 10, subscription.TierProfessional, 2000, subscription.BillingMonthly)...)
	for _, e := range tierEvents(t, 11, 10, subscription.TierProfessional, 600, subscription.BillingAnnual) {
		e.Type = subscription.EventTypeDowngrade
		ds.Events = append(ds.Events, e)
	}

	report := newFinancialValidator(t).Validate(ds)

	assert.False(t, report.HasFailures())
	assert.Zero(t, report.Warned, "unexpected warnings: %+v", report.Checks)
}

func findCheck(t *testing.T, report *validation.Report, name string) validation.CheckResult {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found", name)
	return validation.CheckResult{}
}
