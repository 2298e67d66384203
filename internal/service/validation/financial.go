package validation

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
)

// FinancialValidator checks the revenue figures for cross-cadence coherence.
// Because amounts are derived from a monthly baseline, the annualized mean
// for a tier must be flat across billing periods; a tilt means cadence leaked
// into pricing. It also flags annualized amounts that are statistical
// outliers within their tier.
type FinancialValidator struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewFinancialValidator(cfg *config.Config, logger *zap.Logger) *FinancialValidator {
	return &FinancialValidator{cfg: cfg, logger: logger}
}

// Validate runs the financial consistency checks and returns a report.
func (v *FinancialValidator) Validate(ds *generator.Dataset) *Report {
	report := NewReport(ds.SnapshotID.String())

	type sample struct {
		id         int64
		annualized float64
	}
	byTier := make(map[subscription.ProductTier][]sample)
	byTierCadence := make(map[subscription.ProductTier]map[subscription.BillingPeriod][]float64)

	// The pools cover new, renewal and expansion events only: churn has no
	// amount, and downgrades sit deliberately low in their band and would
	// tilt the per-tier means.
	for _, e := range ds.Events {
		if e.Type == subscription.EventTypeChurn || e.Type == subscription.EventTypeDowngrade {
			continue
		}
		annualized, _ := e.Annualized().Float64()
		byTier[e.ProductTier] = append(byTier[e.ProductTier], sample{id: e.ID, annualized: annualized})
		cadences := byTierCadence[e.ProductTier]
		if cadences == nil {
			cadences = make(map[subscription.BillingPeriod][]float64)
			byTierCadence[e.ProductTier] = cadences
		}
		cadences[e.BillingPeriod] = append(cadences[e.BillingPeriod], annualized)
	}

	v.checkCadenceInvariance(report, byTierCadence)

	var outliers []int64
	for _, tier := range subscription.Tiers() {
		samples := byTier[tier]
		if len(samples) < 3 {
			continue
		}
		mean, stddev := moments(samples, func(s sample) float64 { return s.annualized })
		if stddev == 0 {
			continue
		}
		for _, s := range samples {
			if math.Abs(s.annualized-mean)/stddev > v.cfg.Validation.OutlierZScore {
				outliers = append(outliers, s.id)
			}
		}
	}
	result := CheckResult{Name: "revenue_outliers", Status: StatusPass}
	if len(outliers) > 0 {
		sort.Slice(outliers, func(i, j int) bool { return outliers[i] < outliers[j] })
		result.Status = StatusWarn
		result.AffectedCount = len(outliers)
		result.SampleIDs = sampleIDs(outliers, v.cfg.Validation.SampleIDLimit)
		result.Detail = fmt.Sprintf("annualized amounts beyond z=%.1f within tier", v.cfg.Validation.OutlierZScore)
	}
	report.Add(result)

	v.logger.Info("financial validation finished",
		zap.Int("passed", report.Passed),
		zap.Int("warned", report.Warned),
		zap.Int("failed", report.Failed),
	)
	return report
}

// checkCadenceInvariance compares mean annualized revenue across billing
// periods inside each tier. The worst max/min ratio across tiers must stay
// under the configured ceiling.
func (v *FinancialValidator) checkCadenceInvariance(report *Report, byTierCadence map[subscription.ProductTier]map[subscription.BillingPeriod][]float64) {
	worstRatio := 1.0
	detail := ""
	for _, tier := range subscription.Tiers() {
		cadences := byTierCadence[tier]
		if len(cadences) < 2 {
			continue
		}
		lo, hi := math.MaxFloat64, 0.0
		for _, amounts := range cadences {
			var sum float64
			for _, a := range amounts {
				sum += a
			}
			mean := sum / float64(len(amounts))
			if mean < lo {
				lo = mean
			}
			if mean > hi {
				hi = mean
			}
		}
		if lo <= 0 {
			continue
		}
		if ratio := hi / lo; ratio > worstRatio {
			worstRatio = ratio
			detail = fmt.Sprintf("tier %s: annualized means spread by %.2fx across billing periods", tier, ratio)
		}
	}

	result := CheckResult{Name: "cadence_invariance", Status: StatusPass, Deviation: round2((worstRatio - 1) * 100)}
	if worstRatio > v.cfg.Validation.CadenceVarianceMax {
		result.Status = StatusWarn
		result.Detail = detail
	}
	report.Add(result)
}

func moments[T any](items []T, value func(T) float64) (mean, stddev float64) {
	n := float64(len(items))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, it := range items {
		sum += value(it)
	}
	mean = sum / n
	var ss float64
	for _, it := range items {
		d := value(it) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / n)
}
