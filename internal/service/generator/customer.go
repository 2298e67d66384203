package generator

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// CustomerGenerator produces the root entity set. Categorical fields are
// assigned by largest-remainder quota allocation over shuffled decks rather
// than independent per-record draws, so realized segment/industry/maturity
// counts land within rounding of the configured targets by construction.
type CustomerGenerator struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewCustomerGenerator(cfg *config.Config, logger *zap.Logger) *CustomerGenerator {
	return &CustomerGenerator{cfg: cfg, logger: logger}
}

// Generate produces the configured number of customer records.
func (g *CustomerGenerator) Generate() ([]*customer.Customer, error) {
	n := g.cfg.Dataset.CustomerCount
	r := newStream(g.cfg.Dataset.Seed)

	segments := quotaDeck(r, g.cfg.Customers.SegmentWeights, n)
	industries := quotaDeck(r, g.cfg.Customers.IndustryWeights, n)
	maturities := quotaDeck(r, g.cfg.Customers.MaturityWeights, n)

	signupStart := values.MustParseDate(g.cfg.Customers.SignupStart)
	signupEnd := values.MustParseDate(g.cfg.Customers.SignupEnd)
	windowDays := signupStart.DaysUntil(signupEnd)

	customers := make([]*customer.Customer, 0, n)
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		seg := customer.Segment(segments[i])
		ind := customer.Industry(industries[i])
		mat := customer.Maturity(maturities[i])

		signup := signupStart.AddDays(g.recencyDay(r, windowDays))

		c, err := customer.NewCustomer(id, companyName(r, ind), seg, ind, mat, signup)
		if err != nil {
			return nil, fmt.Errorf("generating customer %d: %w", id, err)
		}

		eb := g.cfg.EmployeeBand(seg)
		rb := g.cfg.RevenueBand(seg)
		c.EmployeeCount = int(logUniformInt(r, eb.Min, eb.Max))
		c.AnnualRevenue = logUniformInt(r, rb.Min, rb.Max)

		geo := pickGeo(r, g.cfg.Customers.Geos)
		c.Country = geo.Country
		c.Region = geo.Region

		if err := c.CheckBands(eb, rb); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	g.logger.Info("generated customers",
		zap.Int("count", len(customers)),
		zap.String("signup_window", g.cfg.Customers.SignupStart+".."+g.cfg.Customers.SignupEnd),
	)
	return customers, nil
}

// recencyDay draws a day offset in [0, windowDays] biased toward the end of
// the window. A bias of zero is uniform.
func (g *CustomerGenerator) recencyDay(r *rand.Rand, windowDays int) int {
	u := r.Float64()
	if bias := g.cfg.Customers.RecencyBias; bias > 0 {
		u = math.Pow(u, 1.0/(1.0+bias))
	}
	day := int(math.Round(u * float64(windowDays)))
	if day > windowDays {
		day = windowDays
	}
	return day
}

// quotaDeck allocates exact category counts for n records via largest
// remainder, then shuffles the resulting deck.
func quotaDeck(r *rand.Rand, table config.WeightTable, n int) []string {
	type alloc struct {
		key       string
		count     int
		remainder float64
	}
	allocs := make([]alloc, len(table))
	assigned := 0
	for i, e := range table {
		exact := e.Weight * float64(n)
		whole := int(math.Floor(exact))
		allocs[i] = alloc{key: e.Key, count: whole, remainder: exact - float64(whole)}
		assigned += whole
	}
	// Distribute leftover seats by descending remainder; ties break toward
	// the last declared category, which is stable.
	for assigned < n {
		best := -1
		for i := range allocs {
			if best == -1 || allocs[i].remainder >= allocs[best].remainder {
				best = i
			}
		}
		allocs[best].count++
		allocs[best].remainder = -1
		assigned++
	}

	deck := make([]string, 0, n)
	for _, a := range allocs {
		for i := 0; i < a.count; i++ {
			deck = append(deck, a.key)
		}
	}
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

func pickGeo(r *rand.Rand, geos []config.GeoWeight) config.GeoWeight {
	var total float64
	for _, g := range geos {
		total += g.Weight
	}
	u := r.Float64() * total
	var acc float64
	for _, g := range geos {
		acc += g.Weight
		if u < acc {
			return g
		}
	}
	return geos[len(geos)-1]
}

// Company names are synthesized from word lists; industry flavors the noun.
var (
	namePrefixes = []string{
		"Blue", "North", "Bright", "Clear", "Iron", "Summit", "Vertex", "Echo",
		"Nova", "Atlas", "Pioneer", "Quantum", "Cedar", "Harbor", "Crest",
		"Lumen", "Orbit", "Prime", "Ridge", "Solstice",
	}
	nameNouns = map[customer.Industry][]string{
		customer.IndustrySaaS:           {"Stack", "Cloud", "Works", "Labs", "Soft"},
		customer.IndustryFintech:        {"Pay", "Ledger", "Capital", "Funds", "Treasury"},
		customer.IndustryHealthtech:     {"Health", "Care", "Medics", "Clinics", "Vitals"},
		customer.IndustryEcommerce:      {"Cart", "Market", "Shop", "Commerce", "Goods"},
		customer.IndustryGovContractors: {"Federal", "Systems", "Dynamics", "Solutions", "Defense"},
		customer.IndustryEdtech:         {"Learn", "Academy", "Campus", "Tutor", "Scholar"},
		customer.IndustryManufacturing:  {"Forge", "Mills", "Industrial", "Fabrication", "Assembly"},
		customer.IndustryRetail:         {"Retail", "Stores", "Outfitters", "Supply", "Trading"},
		customer.IndustryOther:          {"Group", "Ventures", "Partners", "Holdings", "Co"},
	}
	nameSuffixes = []string{"", " Inc", " Corp", " LLC", " Technologies"}
)

func companyName(r *rand.Rand, ind customer.Industry) string {
	nouns := nameNouns[ind]
	if len(nouns) == 0 {
		nouns = nameNouns[customer.IndustryOther]
	}
	prefix := namePrefixes[r.Intn(len(namePrefixes))]
	noun := nouns[r.Intn(len(nouns))]
	suffix := nameSuffixes[r.Intn(len(nameSuffixes))]
	return prefix + noun + suffix
}
