package generator

import (
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// ActivityGenerator fills each adoption's implementation window with the
// compliance work records behind it. Dates cluster into lifecycle phases
// (implementation start, mid-project, pre-completion push, post-completion
// monitoring inside the grace window), the activity mix is conditioned on the
// framework's category, and automation, duration, success and evidence are
// coupled so that automated work is shorter and more reliable.
type ActivityGenerator struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewActivityGenerator(cfg *config.Config, logger *zap.Logger) *ActivityGenerator {
	return &ActivityGenerator{cfg: cfg, logger: logger}
}

// GenerateForAdoption emits the activities for one adoption, sorted by date.
// Ids are per-customer ordinals assigned by the caller's offset; AdoptionID
// carries the adoption's per-customer ordinal until the pipeline remaps both
// to global ids.
func (g *ActivityGenerator) GenerateForAdoption(r *rand.Rand, c *customer.Customer, ad *adoption.Adoption, f catalog.Framework) ([]*activity.Activity, error) {
	act := g.cfg.Activities

	n := g.activityCount(r, c.Segment, f.ComplexityScore)
	out := make([]*activity.Activity, 0, n+n/4)

	for i := 0; i < n; i++ {
		a := g.buildActivity(r, c, ad, f)
		out = append(out, a)

		// Failed work spawns a remediation follow-up shortly after, still
		// inside the adoption's window.
		if !a.SuccessFlag && a.Type != activity.TypeRemediation && r.Float64() < act.RemediationRate {
			out = append(out, g.buildRemediation(r, c, ad, f, a))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActivityDate.Before(out[j].ActivityDate)
	})
	for i, a := range out {
		a.ID = int64(i + 1)
		if err := a.Validate(ad.CustomerID, ad.FrameworkID, ad.StartDate, ad.CompletionDate, act.GraceWindowDays); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// activityCount scales with framework complexity and customer segment, with
// a jitter factor and a floor so even trivial adoptions leave a trail.
func (g *ActivityGenerator) activityCount(r *rand.Rand, seg customer.Segment, complexity int) int {
	act := g.cfg.Activities
	perComplexity := randIntRange(r, act.CountPerComplexity.Min, act.CountPerComplexity.Max)
	n := int(math.Round(float64(complexity*perComplexity) *
		act.CountSegmentMult[string(seg)] *
		randFloatRange(r, act.CountVariance.Min, act.CountVariance.Max)))
	if n < act.MinPerAdoption {
		n = act.MinPerAdoption
	}
	return n
}

func (g *ActivityGenerator) buildActivity(r *rand.Rand, c *customer.Customer, ad *adoption.Adoption, f catalog.Framework) *activity.Activity {
	act := g.cfg.Activities

	typ := g.pickType(r, f.Category)
	automated := g.isAutomated(r, typ, f.AutomationPercentage, c.ComplianceMaturity)
	success := g.isSuccess(r, c.ComplianceMaturity, automated)

	a := &activity.Activity{
		CustomerID:        c.ID,
		FrameworkID:       ad.FrameworkID,
		AdoptionID:        ad.ID,
		ActivityDate:      g.phaseDate(r, ad),
		Type:              typ,
		ControlCategory:   activity.ControlCategory(pickWeighted(r, act.ControlWeights)),
		AutomatedFlag:     automated,
		DurationMinutes:   g.duration(r, typ, automated),
		SuccessFlag:       success,
		RiskLevel:         activity.RiskLevel(pickWeighted(r, act.RiskWeights)),
		EvidenceCollected: g.evidence(r, typ, success),
	}
	return a
}

// buildRemediation derives a follow-up from a failed activity: same control
// category, a short delay after the failure, risk at least as high.
func (g *ActivityGenerator) buildRemediation(r *rand.Rand, c *customer.Customer, ad *adoption.Adoption, f catalog.Framework, failed *activity.Activity) *activity.Activity {
	act := g.cfg.Activities

	date := failed.ActivityDate.AddDays(randIntRange(r, act.RemediationDelay.Min, act.RemediationDelay.Max))
	if limit := ad.CompletionDate.AddDays(act.GraceWindowDays); date.After(limit) {
		date = limit
	}

	automated := g.isAutomated(r, activity.TypeRemediation, f.AutomationPercentage, c.ComplianceMaturity)
	success := g.isSuccess(r, c.ComplianceMaturity, automated)

	return &activity.Activity{
		CustomerID:        c.ID,
		FrameworkID:       ad.FrameworkID,
		AdoptionID:        ad.ID,
		ActivityDate:      date,
		Type:              activity.TypeRemediation,
		ControlCategory:   failed.ControlCategory,
		AutomatedFlag:     automated,
		DurationMinutes:   g.duration(r, activity.TypeRemediation, automated),
		SuccessFlag:       success,
		RiskLevel:         failed.RiskLevel,
		EvidenceCollected: g.evidence(r, activity.TypeRemediation, success),
	}
}

// phaseDate places an activity inside the adoption window by first picking a
// lifecycle phase, then a uniform day within that phase's slice. The post
// phase sits in the grace window after completion.
func (g *ActivityGenerator) phaseDate(r *rand.Rand, ad *adoption.Adoption) values.Date {
	act := g.cfg.Activities
	span := ad.StartDate.DaysUntil(ad.CompletionDate)

	var lo, hi int
	switch pickWeighted(r, act.PhaseWeights) {
	case "start":
		lo, hi = 0, span*3/10
	case "middle":
		lo, hi = span*3/10, span*7/10
	case "completion":
		lo, hi = span*7/10, span
	default: // post
		lo, hi = span, span+act.GraceWindowDays
	}
	return ad.StartDate.AddDays(randIntRange(r, lo, hi))
}

func (g *ActivityGenerator) pickType(r *rand.Rand, cat catalog.Category) activity.Type {
	if table, ok := g.cfg.Activities.CategoryTypeOverrides[string(cat)]; ok {
		return activity.Type(pickWeighted(r, table))
	}
	return activity.Type(pickWeighted(r, g.cfg.Activities.TypeWeights))
}

// isAutomated derives the automation chance from the framework's baseline
// automation percentage shifted by maturity. The adoption's recorded level
// already folds maturity in, so it must not feed back in here. Some activity
// types are inherently human work and are never automated.
func (g *ActivityGenerator) isAutomated(r *rand.Rand, typ activity.Type, baseAutomation int, mat customer.Maturity) bool {
	act := g.cfg.Activities
	if contains(act.NeverAutomated, string(typ)) {
		return false
	}
	p := float64(baseAutomation)/100.0 + act.MaturityAutoAdj[string(mat)]
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return r.Float64() < p
}

func (g *ActivityGenerator) isSuccess(r *rand.Rand, mat customer.Maturity, automated bool) bool {
	act := g.cfg.Activities
	base := act.SuccessBase[string(mat)]
	p := randFloatRange(r, base.Min, base.Max)
	if automated {
		p += randFloatRange(r, act.AutomationBonus.Min, act.AutomationBonus.Max)
	}
	if p > act.SuccessCap {
		p = act.SuccessCap
	}
	return r.Float64() < p
}

func (g *ActivityGenerator) duration(r *rand.Rand, typ activity.Type, automated bool) int {
	band := g.cfg.Activities.DurationBands[string(typ)]
	if automated {
		return randIntRange(r, band.Automated.Min, band.Automated.Max)
	}
	return randIntRange(r, band.Manual.Min, band.Manual.Max)
}

// evidence applies the per-type collection rate, halved for failed work
// since failures interrupt collection.
func (g *ActivityGenerator) evidence(r *rand.Rand, typ activity.Type, success bool) bool {
	rate := g.cfg.Activities.EvidenceRates[string(typ)]
	if !success {
		rate *= g.cfg.Activities.FailedEvidence
	}
	return r.Float64() < rate
}
