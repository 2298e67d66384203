package validation

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
)

// QualityValidator runs the structural and statistical checks over a
// generated dataset. Structural breaks (band violations, lifecycle rule
// violations, dangling references) fail; distribution drift past tolerance
// warns.
type QualityValidator struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewQualityValidator(cfg *config.Config, cat *catalog.Catalog, logger *zap.Logger) *QualityValidator {
	return &QualityValidator{cfg: cfg, catalog: cat, logger: logger}
}

// Validate runs every quality check and returns the combined report.
func (v *QualityValidator) Validate(ds *generator.Dataset) *Report {
	report := NewReport(ds.SnapshotID.String())

	byID := make(map[int64]*customer.Customer, len(ds.Customers))
	for _, c := range ds.Customers {
		byID[c.ID] = c
	}
	adoptionByID := make(map[int64]*adoption.Adoption, len(ds.Adoptions))
	for _, ad := range ds.Adoptions {
		adoptionByID[ad.ID] = ad
	}

	v.checkSegmentBands(report, ds.Customers)
	v.checkSignupWindow(report, ds.Customers)
	v.checkDistributions(report, ds.Customers)
	v.checkReferences(report, ds, byID, adoptionByID)
	v.checkLifecycles(report, ds, byID)
	v.checkContracts(report, ds.Events)
	v.checkAdoptions(report, ds, byID)
	v.checkAdoptionRates(report, ds)
	v.checkActivities(report, ds, adoptionByID)
	v.checkActivityRates(report, ds.Activities)

	v.logger.Info("quality validation finished",
		zap.Int("passed", report.Passed),
		zap.Int("warned", report.Warned),
		zap.Int("failed", report.Failed),
	)
	return report
}

// checkSegmentBands verifies every customer's employee count and annual
// revenue sit inside the segment's bands. Zero exceptions are tolerated.
func (v *QualityValidator) checkSegmentBands(report *Report, customers []*customer.Customer) {
	var bad []int64
	for _, c := range customers {
		if err := c.CheckBands(v.cfg.EmployeeBand(c.Segment), v.cfg.RevenueBand(c.Segment)); err != nil {
			bad = append(bad, c.ID)
		}
	}
	report.Add(boolCheck("customer_segment_bands", bad, v.cfg.Validation.SampleIDLimit,
		"employee count or annual revenue outside segment band"))
}

func (v *QualityValidator) checkSignupWindow(report *Report, customers []*customer.Customer) {
	start := values.MustParseDate(v.cfg.Customers.SignupStart)
	end := values.MustParseDate(v.cfg.Customers.SignupEnd)
	var bad []int64
	for _, c := range customers {
		if c.SignupDate.Before(start) || c.SignupDate.After(end) {
			bad = append(bad, c.ID)
		}
	}
	report.Add(boolCheck("customer_signup_window", bad, v.cfg.Validation.SampleIDLimit,
		"signup date outside configured window"))
}

// checkDistributions compares realized segment, industry and maturity shares
// against their targets. Deviation is measured in percentage points.
func (v *QualityValidator) checkDistributions(report *Report, customers []*customer.Customer) {
	n := float64(len(customers))
	if n == 0 {
		return
	}

	dims := []struct {
		name    string
		targets config.WeightTable
		key     func(*customer.Customer) string
	}{
		{"segment_distribution", v.cfg.Customers.SegmentWeights, func(c *customer.Customer) string { return string(c.Segment) }},
		{"industry_distribution", v.cfg.Customers.IndustryWeights, func(c *customer.Customer) string { return string(c.Industry) }},
		{"maturity_distribution", v.cfg.Customers.MaturityWeights, func(c *customer.Customer) string { return string(c.ComplianceMaturity) }},
	}

	for _, dim := range dims {
		counts := make(map[string]int)
		for _, c := range customers {
			counts[dim.key(c)]++
		}
		worst := 0.0
		worstKey := ""
		for _, e := range dim.targets {
			actual := float64(counts[e.Key]) / n * 100
			target := e.Weight * 100
			if dev := math.Abs(actual - target); dev > worst {
				worst, worstKey = dev, e.Key
			}
		}
		result := CheckResult{Name: dim.name, Status: StatusPass, Deviation: round2(worst)}
		if worst > v.cfg.Validation.DistributionTolerancePct {
			result.Status = StatusWarn
			result.Detail = fmt.Sprintf("%s deviates %.2f points from target", worstKey, worst)
		}
		report.Add(result)
	}
}

// checkReferences verifies every foreign key resolves: events and adoptions
// to customers, adoptions to catalog frameworks, activities to adoptions.
func (v *QualityValidator) checkReferences(report *Report, ds *generator.Dataset, byID map[int64]*customer.Customer, adoptionByID map[int64]*adoption.Adoption) {
	var bad []int64
	for _, e := range ds.Events {
		if _, ok := byID[e.CustomerID]; !ok {
			bad = append(bad, e.ID)
		}
	}
	report.Add(boolCheck("event_customer_refs", bad, v.cfg.Validation.SampleIDLimit,
		"subscription event references unknown customer"))

	bad = nil
	for _, ad := range ds.Adoptions {
		if _, ok := byID[ad.CustomerID]; !ok {
			bad = append(bad, ad.ID)
			continue
		}
		if _, ok := v.catalog.ByID(ad.FrameworkID); !ok {
			bad = append(bad, ad.ID)
		}
	}
	report.Add(boolCheck("adoption_refs", bad, v.cfg.Validation.SampleIDLimit,
		"adoption references unknown customer or framework"))

	bad = nil
	for _, a := range ds.Activities {
		ad, ok := adoptionByID[a.AdoptionID]
		if !ok || ad.CustomerID != a.CustomerID || ad.FrameworkID != a.FrameworkID {
			bad = append(bad, a.ID)
		}
	}
	report.Add(boolCheck("activity_adoption_refs", bad, v.cfg.Validation.SampleIDLimit,
		"activity does not resolve to a matching adoption"))
}

// checkLifecycles re-runs the event state machine rules per customer.
func (v *QualityValidator) checkLifecycles(report *Report, ds *generator.Dataset, byID map[int64]*customer.Customer) {
	byCustomer := make(map[int64][]*subscription.Event)
	for _, e := range ds.Events {
		byCustomer[e.CustomerID] = append(byCustomer[e.CustomerID], e)
	}

	var bad []int64
	for _, c := range ds.Customers {
		if err := subscription.ValidateLifecycle(byCustomer[c.ID], c.SignupDate); err != nil {
			bad = append(bad, c.ID)
		}
	}
	report.Add(boolCheck("event_lifecycles", bad, v.cfg.Validation.SampleIDLimit,
		"event sequence violates lifecycle rules"))
}

// checkContracts verifies commitment terms: every non-churn event carries a
// contract of at least the minimum length and a positive amount.
func (v *QualityValidator) checkContracts(report *Report, events []*subscription.Event) {
	var bad []int64
	for _, e := range events {
		if e.Type == subscription.EventTypeChurn {
			if !e.MRRAmount.IsZero() {
				bad = append(bad, e.ID)
			}
			continue
		}
		if e.ContractLengthMonths < v.cfg.Validation.MinContractMonths || !e.MRRAmount.IsPositive() {
			bad = append(bad, e.ID)
		}
	}
	report.Add(boolCheck("event_contract_terms", bad, v.cfg.Validation.SampleIDLimit,
		"contract length or amount breaks commitment rules"))
}

// checkAdoptions verifies adoption-level invariants: temporal ordering
// against signup, at most one adoption per (customer, framework), and
// prerequisite frameworks present.
func (v *QualityValidator) checkAdoptions(report *Report, ds *generator.Dataset, byID map[int64]*customer.Customer) {
	adopted := make(map[int64]map[int64]bool) // customer -> framework set
	var temporal, dup []int64
	for _, ad := range ds.Adoptions {
		c, ok := byID[ad.CustomerID]
		if !ok {
			continue // reported by checkReferences
		}
		if err := ad.Validate(c.SignupDate); err != nil {
			temporal = append(temporal, ad.ID)
		}
		set := adopted[ad.CustomerID]
		if set == nil {
			set = make(map[int64]bool)
			adopted[ad.CustomerID] = set
		}
		if set[ad.FrameworkID] {
			dup = append(dup, ad.ID)
		}
		set[ad.FrameworkID] = true
	}
	report.Add(boolCheck("adoption_temporal_order", temporal, v.cfg.Validation.SampleIDLimit,
		"adoption dates violate temporal ordering"))
	report.Add(boolCheck("adoption_uniqueness", dup, v.cfg.Validation.SampleIDLimit,
		"duplicate adoption of a framework by one customer"))

	var missingPrereq []int64
	for _, ad := range ds.Adoptions {
		f, ok := v.catalog.ByID(ad.FrameworkID)
		if !ok {
			continue
		}
		prereqName, gated := v.catalog.Prerequisite(f.Name)
		if !gated {
			continue
		}
		prereq, _ := v.catalog.ByName(prereqName)
		if !adopted[ad.CustomerID][prereq.ID] {
			missingPrereq = append(missingPrereq, ad.ID)
		}
	}
	report.Add(boolCheck("adoption_prerequisites", missingPrereq, v.cfg.Validation.SampleIDLimit,
		"adoption present without its prerequisite framework"))
}

// checkAdoptionRates compares realized per-framework adoption rates against
// the expected windows. Drift warns.
func (v *QualityValidator) checkAdoptionRates(report *Report, ds *generator.Dataset) {
	n := float64(len(ds.Customers))
	if n == 0 {
		return
	}
	adoptersByFramework := make(map[int64]map[int64]bool)
	for _, ad := range ds.Adoptions {
		set := adoptersByFramework[ad.FrameworkID]
		if set == nil {
			set = make(map[int64]bool)
			adoptersByFramework[ad.FrameworkID] = set
		}
		set[ad.CustomerID] = true
	}

	worst := 0.0
	detail := ""
	for name, window := range v.cfg.Validation.ExpectedAdoptionRates {
		f, ok := v.catalog.ByName(name)
		if !ok {
			continue
		}
		rate := float64(len(adoptersByFramework[f.ID])) / n * 100
		var dev float64
		switch {
		case rate < window.MinPct:
			dev = window.MinPct - rate
		case rate > window.MaxPct:
			dev = rate - window.MaxPct
		}
		if dev > worst {
			worst = dev
			detail = fmt.Sprintf("%s adoption rate %.1f%% outside [%.0f%%, %.0f%%]", name, rate, window.MinPct, window.MaxPct)
		}
	}

	result := CheckResult{Name: "adoption_rates", Status: StatusPass, Deviation: round2(worst)}
	if worst > 0 {
		result.Status = StatusWarn
		result.Detail = detail
	}
	report.Add(result)
}

// checkActivities verifies each activity sits inside its adoption's window
// (with the grace extension) and that inherently manual work is never
// flagged automated.
func (v *QualityValidator) checkActivities(report *Report, ds *generator.Dataset, adoptionByID map[int64]*adoption.Adoption) {
	grace := v.cfg.Activities.GraceWindowDays
	var window, manual []int64
	neverAutomated := make(map[string]bool, len(v.cfg.Activities.NeverAutomated))
	for _, t := range v.cfg.Activities.NeverAutomated {
		neverAutomated[t] = true
	}

	for _, a := range ds.Activities {
		ad, ok := adoptionByID[a.AdoptionID]
		if !ok {
			continue // reported by checkReferences
		}
		if err := a.Validate(ad.CustomerID, ad.FrameworkID, ad.StartDate, ad.CompletionDate, grace); err != nil {
			window = append(window, a.ID)
		}
		if a.AutomatedFlag && neverAutomated[string(a.Type)] {
			manual = append(manual, a.ID)
		}
	}
	report.Add(boolCheck("activity_windows", window, v.cfg.Validation.SampleIDLimit,
		"activity outside its adoption window"))
	report.Add(boolCheck("activity_manual_types", manual, v.cfg.Validation.SampleIDLimit,
		"inherently manual activity type flagged automated"))
}

// checkActivityRates verifies aggregate automation and success rates stay in
// their plausibility windows. Drift warns.
func (v *QualityValidator) checkActivityRates(report *Report, activities []*activity.Activity) {
	n := float64(len(activities))
	if n == 0 {
		return
	}
	var automated, succeeded float64
	for _, a := range activities {
		if a.AutomatedFlag {
			automated++
		}
		if a.SuccessFlag {
			succeeded++
		}
	}

	autoRate := automated / n
	result := CheckResult{Name: "activity_automation_rate", Status: StatusPass, Deviation: round2(autoRate * 100)}
	if autoRate > v.cfg.Validation.AutomationRateMax {
		result.Status = StatusWarn
		result.Detail = fmt.Sprintf("automation rate %.1f%% exceeds %.0f%%", autoRate*100, v.cfg.Validation.AutomationRateMax*100)
	}
	report.Add(result)

	successPct := succeeded / n * 100
	window := v.cfg.Validation.SuccessRate
	result = CheckResult{Name: "activity_success_rate", Status: StatusPass, Deviation: round2(successPct)}
	if successPct < window.MinPct || successPct > window.MaxPct {
		result.Status = StatusWarn
		result.Detail = fmt.Sprintf("success rate %.1f%% outside [%.0f%%, %.0f%%]", successPct, window.MinPct, window.MaxPct)
	}
	report.Add(result)
}

// boolCheck builds a pass/fail result from a violating-id list.
func boolCheck(name string, bad []int64, sampleLimit int, detail string) CheckResult {
	result := CheckResult{Name: name, Status: StatusPass}
	if len(bad) > 0 {
		result.Status = StatusFail
		result.AffectedCount = len(bad)
		result.SampleIDs = sampleIDs(bad, sampleLimit)
		result.Detail = detail
	}
	return result
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
