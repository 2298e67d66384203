package generator

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// AdoptionGenerator decides which frameworks each customer implements and
// derives the project facts (dates, score, hours, cost, automation) jointly
// from the framework's characteristics and the customer's segment and
// maturity. Frameworks are considered in catalog id order, which keeps
// prerequisite checks a single forward pass: a successor can only be adopted
// once its prerequisite already was, with no exceptions.
type AdoptionGenerator struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewAdoptionGenerator(cfg *config.Config, cat *catalog.Catalog, logger *zap.Logger) *AdoptionGenerator {
	return &AdoptionGenerator{cfg: cfg, catalog: cat, logger: logger}
}

// GenerateForCustomer emits the customer's adoptions in catalog id order.
// Adoption ids are per-customer ordinals; the pipeline assigns global ids
// after the join barrier. Every customer ends with at least one adoption.
func (g *AdoptionGenerator) GenerateForCustomer(r *rand.Rand, c *customer.Customer) ([]*adoption.Adoption, error) {
	ad := g.cfg.Adoptions
	adopted := make(map[string]bool, g.catalog.Len())
	out := make([]*adoption.Adoption, 0, 4)

	for _, f := range g.catalog.All() {
		if prereq, gated := g.catalog.Prerequisite(f.Name); gated && !adopted[prereq] {
			continue
		}
		if r.Float64() >= g.probability(c, f.Name) {
			continue
		}
		rec, err := g.build(r, c, f, int64(len(out)+1))
		if err != nil {
			return nil, err
		}
		adopted[f.Name] = true
		out = append(out, rec)
	}

	// A compliance platform customer with zero frameworks is not a customer.
	// Seed the foundational framework, then often its usual companion.
	if len(out) == 0 {
		for _, name := range []string{ad.FallbackFramework, ad.SecondaryFramework} {
			if name == "" || adopted[name] {
				continue
			}
			if name != ad.FallbackFramework && r.Float64() >= ad.SecondaryRate {
				continue
			}
			f, ok := g.catalog.ByName(name)
			if !ok {
				continue
			}
			rec, err := g.build(r, c, f, int64(len(out)+1))
			if err != nil {
				return nil, err
			}
			adopted[name] = true
			out = append(out, rec)
		}
	}
	return out, nil
}

// probability is the adoption chance for one framework: the industry override
// (falling back to the base rate) shaped by segment and maturity multipliers.
// Foundational frameworks are exempt from the startup and beginner penalties,
// and the result never exceeds the cap.
func (g *AdoptionGenerator) probability(c *customer.Customer, framework string) float64 {
	ad := g.cfg.Adoptions

	p, ok := ad.IndustryOverrides[string(c.Industry)][framework]
	if !ok {
		p = ad.BaseRates[framework]
	}

	switch c.Segment {
	case customer.SegmentEnterprise:
		p *= ad.EnterpriseMultiplier
	case customer.SegmentStartup:
		if !contains(ad.StartupExempt, framework) {
			p *= ad.StartupMultiplier
		}
	}

	switch c.ComplianceMaturity {
	case customer.MaturityAdvanced:
		p *= ad.AdvancedMultiplier
	case customer.MaturityBeginner:
		if !contains(ad.BeginnerExempt, framework) {
			p *= ad.BeginnerMultiplier
		}
	}

	if p > ad.ProbabilityCap {
		p = ad.ProbabilityCap
	}
	return p
}

func (g *AdoptionGenerator) build(r *rand.Rand, c *customer.Customer, f catalog.Framework, id int64) (*adoption.Adoption, error) {
	ad := g.cfg.Adoptions
	mat := string(c.ComplianceMaturity)
	seg := string(c.Segment)

	window := int(float64(ad.StartWindowDays) * ad.StartWindowScale[mat])
	start := c.SignupDate.AddDays(randIntRange(r, 0, window))

	duration := int(float64(f.AvgCompletionDays)*ad.DurationFactor[mat]) +
		randIntRange(r, -ad.DurationJitterDays, ad.DurationJitterDays)
	if duration < ad.MinDurationDays {
		duration = ad.MinDurationDays
	}
	completion := start.AddDays(duration)

	rec := &adoption.Adoption{
		ID:             id,
		CustomerID:     c.ID,
		FrameworkID:    f.ID,
		StartDate:      start,
		CompletionDate: completion,
	}

	reference := values.DateOf(g.cfg.ReferenceDate())
	if completion.After(reference) {
		rec.Status = adoption.StatusActive
	} else {
		rec.Status = adoption.StatusCompleted
		if r.Float64() < ad.CertifiedShare {
			rec.Status = adoption.StatusCertified
		}
		rec.AuditScore = g.auditScore(r, mat, f.ComplexityScore)
	}

	rec.HoursSaved = g.hoursSaved(r, seg, mat, f)
	rec.ImplementationCost = g.implementationCost(r, seg, f.CertificationCostUSD)
	rec.AutomationLevel = g.automationLevel(r, mat, f.AutomationPercentage)

	if err := rec.Validate(c.SignupDate); err != nil {
		return nil, err
	}
	return rec, nil
}

// auditScore draws from the maturity band, docked for frameworks harder than
// the midpoint, floored at the configured minimum. Active adoptions carry a
// zero score since no audit has happened yet.
func (g *AdoptionGenerator) auditScore(r *rand.Rand, mat string, complexity int) int {
	ad := g.cfg.Adoptions
	band := ad.AuditScoreRanges[mat]
	score := randIntRange(r, band.Min, band.Max)
	if over := complexity - 5; over > 0 {
		score -= over * ad.ComplexityPenalty
	}
	if score < ad.MinAuditScore {
		score = ad.MinAuditScore
	}
	return score
}

// hoursSaved is the time the platform gives back: hours scale with framework
// complexity, segment and maturity, then shrink by however much of the
// framework cannot be automated. A 45%-automatable framework saves roughly
// half of what a 90% one does, all else equal.
func (g *AdoptionGenerator) hoursSaved(r *rand.Rand, seg, mat string, f catalog.Framework) int {
	ad := g.cfg.Adoptions
	hours := float64(f.ComplexityScore*ad.HoursPerComplexity) *
		ad.HoursSegmentMult[seg] *
		ad.HoursMaturityMult[mat] *
		(float64(f.AutomationPercentage) / 100) *
		randFloatRange(r, ad.HoursVariance.Min, ad.HoursVariance.Max)
	if h := int(math.Round(hours)); h >= ad.MinHoursSaved {
		return h
	}
	return ad.MinHoursSaved
}

func (g *AdoptionGenerator) implementationCost(r *rand.Rand, seg string, certCost int64) int64 {
	mult := g.cfg.Adoptions.CostSegmentMult[seg]
	return int64(math.Round(float64(certCost) * randFloatRange(r, mult.Min, mult.Max)))
}

func (g *AdoptionGenerator) automationLevel(r *rand.Rand, mat string, base int) int {
	adj := g.cfg.Adoptions.AutomationAdjust[mat]
	level := base + randIntRange(r, int(adj.Min), int(adj.Max))
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return level
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
