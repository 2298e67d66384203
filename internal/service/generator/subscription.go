package generator

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// EventGenerator produces a customer's revenue lifecycle as a state machine:
// always exactly one "new" event first, then renewal/expansion/downgrade at
// contract boundaries until the reference date, optionally terminated by
// churn. Amounts are carried as a cadence-independent monthly baseline
// (values.RecurringRevenue) and only expressed in billing-period units when
// an event is emitted, which is what keeps annualized roll-ups flat across
// cadences.
type EventGenerator struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewEventGenerator(cfg *config.Config, logger *zap.Logger) *EventGenerator {
	return &EventGenerator{cfg: cfg, logger: logger}
}

// GenerateForCustomer emits the customer's ordered event sequence. Event ids
// are per-customer ordinals; the pipeline assigns global ids after the join
// barrier.
func (g *EventGenerator) GenerateForCustomer(r *rand.Rand, c *customer.Customer) ([]*subscription.Event, error) {
	sub := g.cfg.Subscriptions
	seg := string(c.Segment)
	horizon := values.DateOf(g.cfg.ReferenceDate())

	willChurn := r.Float64() < sub.ChurnProbability

	tier := subscription.ProductTier(pickWeighted(r, sub.InitialTierWeights[seg]))
	billing := subscription.BillingPeriod(pickWeighted(r, sub.BillingWeights[seg]))
	contract := contractMonths(r, sub.ContractWeights[seg])
	channel := subscription.SalesChannel(pickWeighted(r, sub.ChannelWeights[seg]))
	payment := subscription.PaymentMethod(pickWeighted(r, sub.PaymentWeights[seg]))

	baseline := g.drawBaseline(r, tier, c.Segment)
	eventDate := c.SignupDate.AddDays(randIntRange(r, 0, sub.NewEventWindowDays))
	if eventDate.After(horizon) {
		eventDate = horizon
	}

	events := []*subscription.Event{{
		ID:                   1,
		CustomerID:           c.ID,
		EventDate:            eventDate,
		Type:                 subscription.EventTypeNew,
		ProductTier:          tier,
		MRRAmount:            baseline.ForMonths(billing.Months()),
		BillingPeriod:        billing,
		ContractLengthMonths: contract,
		DiscountPercentage:   g.discount(r, billing, contract, c.Segment, subscription.EventTypeNew),
		SalesChannel:         channel,
		PaymentMethod:        payment,
	}}

	lastDate := eventDate
	boundary := 0
	for {
		boundary++
		next := lastDate.AddDays(contract*30 + randIntRange(r, -sub.RenewalJitterDays, sub.RenewalJitterDays))
		if !next.After(lastDate) {
			next = lastDate.AddDays(1)
		}
		if next.After(horizon) {
			break
		}

		if willChurn && c.SignupDate.DaysUntil(next) > sub.ChurnMinTenureDays && r.Float64() < sub.ChurnHazard {
			events = append(events, &subscription.Event{
				ID:            int64(len(events) + 1),
				CustomerID:    c.ID,
				EventDate:     next,
				Type:          subscription.EventTypeChurn,
				ProductTier:   tier,
				MRRAmount:     decimal.Zero,
				BillingPeriod: billing,
				SalesChannel:  channel,
				PaymentMethod: payment,
			})
			break
		}

		eventType := g.pickEventType(r, c, boundary)
		contract = contractMonths(r, sub.ContractWeights[seg])

		switch eventType {
		case subscription.EventTypeExpansion:
			newTier, newBaseline, ok := g.expand(r, tier, baseline, c.Segment)
			if !ok {
				// Already at the top of the top tier's band; an expansion
				// could not strictly raise the amount, so renew instead.
				eventType = subscription.EventTypeRenewal
				baseline = g.rescale(r, baseline, tier, c.Segment, sub.RenewalFactor)
			} else {
				tier, baseline = newTier, newBaseline
			}
		case subscription.EventTypeDowngrade:
			lowered, ok := g.downgrade(r, baseline, tier, c.Segment)
			if !ok {
				eventType = subscription.EventTypeRenewal
				baseline = g.rescale(r, baseline, tier, c.Segment, sub.RenewalFactor)
			} else {
				baseline = lowered
			}
		default:
			baseline = g.rescale(r, baseline, tier, c.Segment, sub.RenewalFactor)
		}

		events = append(events, &subscription.Event{
			ID:                   int64(len(events) + 1),
			CustomerID:           c.ID,
			EventDate:            next,
			Type:                 eventType,
			ProductTier:          tier,
			MRRAmount:            baseline.ForMonths(billing.Months()),
			BillingPeriod:        billing,
			ContractLengthMonths: contract,
			DiscountPercentage:   g.discount(r, billing, contract, c.Segment, eventType),
			SalesChannel:         channel,
			PaymentMethod:        payment,
		})
		lastDate = next
	}

	if err := subscription.ValidateLifecycle(events, c.SignupDate); err != nil {
		return nil, err
	}
	return events, nil
}

// pickEventType chooses the boundary outcome. Growth-minded customers
// (mid-market/enterprise at advanced maturity) expand more; the very first
// boundary favors renewal so expansions concentrate in the second half of a
// customer's tenure.
func (g *EventGenerator) pickEventType(r *rand.Rand, c *customer.Customer, boundary int) subscription.EventType {
	table := g.cfg.Subscriptions.EventTypeWeights
	if c.ComplianceMaturity == customer.MaturityAdvanced && c.Segment != customer.SegmentStartup {
		table = g.cfg.Subscriptions.AdvancedEventTypeWeights
	}
	if boundary == 1 {
		shifted := make(config.WeightTable, 0, len(table))
		for _, e := range table {
			switch e.Key {
			case string(subscription.EventTypeExpansion):
				shifted = append(shifted, config.WeightEntry{Key: e.Key, Weight: e.Weight / 2})
			case string(subscription.EventTypeRenewal):
				shifted = append(shifted, config.WeightEntry{Key: e.Key, Weight: e.Weight + table.Weight(string(subscription.EventTypeExpansion))/2})
			default:
				shifted = append(shifted, e)
			}
		}
		table = shifted
	}
	return subscription.EventType(pickWeighted(r, table))
}

// baselineBand returns the monthly-baseline band for a tier restricted to
// the segment's percentile window, making the amount band a joint function
// of product tier and customer segment.
func (g *EventGenerator) baselineBand(tier subscription.ProductTier, seg customer.Segment) (decimal.Decimal, decimal.Decimal) {
	p := g.cfg.Subscriptions.TierPricing[string(tier)]
	w := g.cfg.Subscriptions.SegmentWindows[string(seg)]
	span := p.MonthlyMax - p.MonthlyMin
	lo := decimal.NewFromFloat(p.MonthlyMin + w.Lo*span).Round(2)
	hi := decimal.NewFromFloat(p.MonthlyMin + w.Hi*span).Round(2)
	return lo, hi
}

func (g *EventGenerator) drawBaseline(r *rand.Rand, tier subscription.ProductTier, seg customer.Segment) values.RecurringRevenue {
	lo, hi := g.baselineBand(tier, seg)
	loF, _ := lo.Float64()
	hiF, _ := hi.Float64()
	rr, err := values.NewRecurringRevenueFromFloat(randFloatRange(r, loF, hiF))
	if err != nil {
		panic(err)
	}
	return rr
}

// rescale applies a factor range to the baseline and clamps it back into the
// tier/segment band.
func (g *EventGenerator) rescale(r *rand.Rand, baseline values.RecurringRevenue, tier subscription.ProductTier, seg customer.Segment, factor config.Range) values.RecurringRevenue {
	scaled, err := baseline.Scale(randFloatRange(r, factor.Min, factor.Max))
	if err != nil {
		panic(err)
	}
	lo, hi := g.baselineBand(tier, seg)
	return scaled.Clamp(lo, hi)
}

// expand bumps the tier where possible and raises the baseline by the
// expansion factor. Returns ok=false when no strictly larger amount exists
// inside the reachable bands.
func (g *EventGenerator) expand(r *rand.Rand, tier subscription.ProductTier, baseline values.RecurringRevenue, seg customer.Segment) (subscription.ProductTier, values.RecurringRevenue, bool) {
	tiers := subscription.Tiers()
	newTier := subscription.ProductTier(pickWeighted(r, g.cfg.Subscriptions.UpgradeTierWeights[string(seg)]))
	if newTier.Rank() <= tier.Rank() {
		nextRank := tier.Rank() + 1
		if nextRank >= len(tiers) {
			nextRank = len(tiers) - 1
		}
		newTier = tiers[nextRank]
	}

	raised := g.rescale(r, baseline, newTier, seg, g.cfg.Subscriptions.ExpansionFactor)
	if !raised.GreaterThan(baseline) {
		return tier, baseline, false
	}
	return newTier, raised, true
}

// downgrade lowers the baseline within the current tier. Returns ok=false
// when the baseline is already at the band floor.
func (g *EventGenerator) downgrade(r *rand.Rand, baseline values.RecurringRevenue, tier subscription.ProductTier, seg customer.Segment) (values.RecurringRevenue, bool) {
	lowered := g.rescale(r, baseline, tier, seg, g.cfg.Subscriptions.DowngradeFactor)
	if !baseline.GreaterThan(lowered) {
		return baseline, false
	}
	return lowered, true
}

// discount mirrors realistic B2B SaaS discounting: small cadence and
// multi-year incentives, rare promos, capped overall.
func (g *EventGenerator) discount(r *rand.Rand, billing subscription.BillingPeriod, contract int, seg customer.Segment, eventType subscription.EventType) float64 {
	sub := g.cfg.Subscriptions
	var d float64
	switch billing {
	case subscription.BillingAnnual, subscription.BillingUpfront:
		d += randFloatRange(r, 2.0, 5.0)
	case subscription.BillingQuarterly:
		d += randFloatRange(r, 1.0, 2.0)
	}
	if contract >= 24 {
		d += randFloatRange(r, 1.0, 3.0)
	}
	if eventType == subscription.EventTypeNew && r.Float64() < sub.PromoRate {
		d += randFloatRange(r, 1.0, 2.0)
	}
	if seg == customer.SegmentEnterprise && r.Float64() < sub.VolumeRate {
		d += randFloatRange(r, 1.0, 2.0)
	}
	if d > sub.MaxDiscountPct {
		d = sub.MaxDiscountPct
	}
	return math.Round(d*100) / 100
}

func contractMonths(r *rand.Rand, table config.WeightTable) int {
	switch pickWeighted(r, table) {
	case "24":
		return 24
	case "36":
		return 36
	default:
		return 12
	}
}
