package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func generateAdoptionSets(t *testing.T, n int) ([]*customer.Customer, [][]*adoption.Adoption) {
	t.Helper()
	cfg := testConfig(t)
	cfg.Dataset.CustomerCount = n

	customers, err := NewCustomerGenerator(cfg, zap.NewNop()).Generate()
	require.NoError(t, err)

	gen := NewAdoptionGenerator(cfg, catalog.Default(), zap.NewNop())
	sets := make([][]*adoption.Adoption, len(customers))
	for i, c := range customers {
		sets[i], err = gen.GenerateForCustomer(newStream(deriveSeed(cfg.Dataset.Seed, c.ID)), c)
		require.NoError(t, err, "customer %d", c.ID)
	}
	return customers, sets
}

func TestAdoptionGenerator_EveryCustomerAdopts(t *testing.T) {
	_, sets := generateAdoptionSets(t, 200)
	for i, adoptions := range sets {
		assert.NotEmpty(t, adoptions, "customer %d has no adoptions", i+1)
	}
}

func TestAdoptionGenerator_PrerequisiteNeverViolated(t *testing.T) {
	cat := catalog.Default()
	soc2I, _ := cat.ByName(catalog.SOC2TypeI)
	soc2II, _ := cat.ByName(catalog.SOC2TypeII)

	_, sets := generateAdoptionSets(t, 300)
	for i, adoptions := range sets {
		has := map[int64]bool{}
		for _, ad := range adoptions {
			has[ad.FrameworkID] = true
		}
		if has[soc2II.ID] {
			assert.True(t, has[soc2I.ID], "customer %d adopted Type II without Type I", i+1)
		}
	}
}

func TestAdoptionGenerator_NoDuplicatesAndValidWindows(t *testing.T) {
	customers, sets := generateAdoptionSets(t, 200)
	for i, adoptions := range sets {
		seen := map[int64]bool{}
		for _, ad := range adoptions {
			assert.False(t, seen[ad.FrameworkID], "customer %d adopted framework %d twice", customers[i].ID, ad.FrameworkID)
			seen[ad.FrameworkID] = true
			require.NoError(t, ad.Validate(customers[i].SignupDate))
		}
	}
}

func TestAdoptionGenerator_StatusMatchesReferenceDate(t *testing.T) {
	cfg := testConfig(t)
	reference := values.DateOf(cfg.ReferenceDate())

	customers, sets := generateAdoptionSets(t, 200)
	for i, adoptions := range sets {
		_ = customers[i]
		for _, ad := range adoptions {
			if ad.CompletionDate.After(reference) {
				assert.Equal(t, adoption.StatusActive, ad.Status, "adoption completing %s", ad.CompletionDate)
				assert.Zero(t, ad.AuditScore, "active adoption has an audit score")
			} else {
				assert.Contains(t, []adoption.Status{adoption.StatusCompleted, adoption.StatusCertified}, ad.Status)
				assert.GreaterOrEqual(t, ad.AuditScore, cfg.Adoptions.MinAuditScore)
				assert.LessOrEqual(t, ad.AuditScore, 100)
			}
			assert.GreaterOrEqual(t, ad.HoursSaved, cfg.Adoptions.MinHoursSaved)
			assert.Positive(t, ad.ImplementationCost)
		}
	}
}

func TestAdoptionGenerator_MaturitySpeedsDelivery(t *testing.T) {
	// Same framework mix aside, advanced customers finish implementations
	// substantially faster than beginners.
	customers, sets := generateAdoptionSets(t, 300)

	durations := map[customer.Maturity][]int{}
	for i, adoptions := range sets {
		mat := customers[i].ComplianceMaturity
		for _, ad := range adoptions {
			durations[mat] = append(durations[mat], ad.DurationDays())
		}
	}

	mean := func(xs []int) float64 {
		var sum int
		for _, x := range xs {
			sum += x
		}
		return float64(sum) / float64(len(xs))
	}

	require.NotEmpty(t, durations[customer.MaturityAdvanced])
	require.NotEmpty(t, durations[customer.MaturityBeginner])

	advanced := mean(durations[customer.MaturityAdvanced])
	beginner := mean(durations[customer.MaturityBeginner])

	ratio := advanced / beginner
	assert.Less(t, ratio, 0.85, "advanced %.1f days vs beginner %.1f days", advanced, beginner)
	assert.Greater(t, ratio, 0.40, "advanced %.1f days vs beginner %.1f days", advanced, beginner)
}

func TestAdoptionGenerator_HoursSavedScaleWithAutomation(t *testing.T) {
	// Hours saved come through automation: two frameworks differing only in
	// automation percentage must save proportionally different hours.
	cfg := testConfig(t)
	gen := NewAdoptionGenerator(cfg, catalog.Default(), zap.NewNop())

	high := catalog.Framework{ComplexityScore: 6, AutomationPercentage: 90}
	low := high
	low.AutomationPercentage = 10

	const draws = 2000
	meanHours := func(f catalog.Framework) float64 {
		var sum int
		for i := int64(1); i <= draws; i++ {
			r := newStream(deriveSeed(cfg.Dataset.Seed, i))
			sum += gen.hoursSaved(r, string(customer.SegmentMidMarket), string(customer.MaturityIntermediate), f)
		}
		return float64(sum) / draws
	}

	// Identical streams pair the variance draws, so the ratio isolates the
	// automation factor.
	ratio := meanHours(high) / meanHours(low)
	assert.InDelta(t, 9.0, ratio, 0.5)
}

func TestAdoptionGenerator_HealthtechSkewsToHIPAA(t *testing.T) {
	cat := catalog.Default()
	hipaa, _ := cat.ByName(catalog.HIPAA)

	customers, sets := generateAdoptionSets(t, 300)

	adopters := map[customer.Industry]int{}
	totals := map[customer.Industry]int{}
	for i, adoptions := range sets {
		ind := customers[i].Industry
		totals[ind]++
		for _, ad := range adoptions {
			if ad.FrameworkID == hipaa.ID {
				adopters[ind]++
				break
			}
		}
	}

	require.Positive(t, totals[customer.IndustryHealthtech])
	healthRate := float64(adopters[customer.IndustryHealthtech]) / float64(totals[customer.IndustryHealthtech])
	saasRate := float64(adopters[customer.IndustrySaaS]) / float64(totals[customer.IndustrySaaS])

	assert.Greater(t, healthRate, 0.5, "healthtech HIPAA rate %.2f", healthRate)
	assert.Greater(t, healthRate, saasRate, "healthtech %.2f should exceed saas %.2f", healthRate, saasRate)
}
