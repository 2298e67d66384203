package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	derrors "github.com/phantomsec/compliance-dataset-generator/internal/domain/errors"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
)

// weightSumTolerance is the slack allowed when checking that a weight table
// sums to one.
const weightSumTolerance = 1e-6

// Config is the single externally-supplied configuration structure. Every
// business ratio, numeric band and tolerance the generators and validators
// consume lives here, so re-tuning the dataset never touches generation code.
type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Dataset       DatasetConfig      `koanf:"dataset"`
	Customers     CustomerConfig     `koanf:"customers"`
	Subscriptions SubscriptionConfig `koanf:"subscriptions"`
	Adoptions     AdoptionConfig     `koanf:"adoptions"`
	Activities    ActivityConfig     `koanf:"activities"`
	Validation    ValidationConfig   `koanf:"validation"`
}

// WeightEntry is one category with its target share.
type WeightEntry struct {
	Key    string  `koanf:"key"`
	Weight float64 `koanf:"weight" validate:"gte=0"`
}

// WeightTable is an ordered categorical weight table. Order is part of the
// contract: sampling iterates entries in declaration order so results are
// reproducible.
type WeightTable []WeightEntry

// Sum returns the total weight.
func (w WeightTable) Sum() float64 {
	var s float64
	for _, e := range w {
		s += e.Weight
	}
	return s
}

// Weight returns the weight for a key, zero if absent.
func (w WeightTable) Weight(key string) float64 {
	for _, e := range w {
		if e.Key == key {
			return e.Weight
		}
	}
	return 0
}

// Keys returns the keys in declaration order.
func (w WeightTable) Keys() []string {
	keys := make([]string, len(w))
	for i, e := range w {
		keys[i] = e.Key
	}
	return keys
}

func (w WeightTable) validate(name string) error {
	if len(w) == 0 {
		return derrors.NewConfigurationError("EMPTY_WEIGHT_TABLE", fmt.Sprintf("%s: weight table is empty", name))
	}
	seen := make(map[string]bool, len(w))
	for _, e := range w {
		if e.Weight < 0 {
			return derrors.NewConfigurationError("NEGATIVE_WEIGHT", fmt.Sprintf("%s: negative weight for %q", name, e.Key))
		}
		if seen[e.Key] {
			return derrors.NewConfigurationError("DUPLICATE_WEIGHT_KEY", fmt.Sprintf("%s: duplicate key %q", name, e.Key))
		}
		seen[e.Key] = true
	}
	if s := w.Sum(); math.Abs(s-1.0) > weightSumTolerance {
		return derrors.NewConfigurationError("WEIGHT_SUM", fmt.Sprintf("%s: weights sum to %.6f, want 1.0", name, s))
	}
	return nil
}

// Range is an inclusive [Min, Max] pair used for jittered draws.
type Range struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

func (r Range) validate(name string) error {
	if r.Min > r.Max {
		return derrors.NewConfigurationError("INVERTED_RANGE", fmt.Sprintf("%s: min %v exceeds max %v", name, r.Min, r.Max))
	}
	return nil
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `koanf:"min"`
	Max int `koanf:"max"`
}

func (r IntRange) validate(name string) error {
	if r.Min > r.Max {
		return derrors.NewConfigurationError("INVERTED_RANGE", fmt.Sprintf("%s: min %d exceeds max %d", name, r.Min, r.Max))
	}
	return nil
}

// DatasetConfig controls run-wide parameters.
type DatasetConfig struct {
	Seed          int64  `koanf:"seed"`
	CustomerCount int    `koanf:"customer_count" validate:"gt=0"`
	Workers       int    `koanf:"workers" validate:"gt=0"`
	OutputDir     string `koanf:"output_dir" validate:"required"`
	// ReferenceDate anchors every "as of today" decision (adoption status,
	// event horizon). Fixing it in config keeps reruns byte-identical.
	ReferenceDate string `koanf:"reference_date" validate:"required"`
}

// SegmentBands owns the numeric bands for one customer segment.
type SegmentBands struct {
	EmployeeMin int64 `koanf:"employee_min" validate:"gt=0"`
	EmployeeMax int64 `koanf:"employee_max" validate:"gt=0"`
	RevenueMin  int64 `koanf:"revenue_min" validate:"gt=0"`
	RevenueMax  int64 `koanf:"revenue_max" validate:"gt=0"`
}

// GeoWeight is one country/region pair with its target share.
type GeoWeight struct {
	Country string  `koanf:"country"`
	Region  string  `koanf:"region"`
	Weight  float64 `koanf:"weight" validate:"gte=0"`
}

// CustomerConfig drives the customer generator.
type CustomerConfig struct {
	SegmentWeights  WeightTable             `koanf:"segment_weights"`
	IndustryWeights WeightTable             `koanf:"industry_weights"`
	MaturityWeights WeightTable             `koanf:"maturity_weights"`
	Segments        map[string]SegmentBands `koanf:"segments"`
	SignupStart     string                  `koanf:"signup_start" validate:"required"`
	SignupEnd       string                  `koanf:"signup_end" validate:"required"`
	// RecencyBias skews signup dates toward the end of the window; zero is
	// uniform, higher values weight later periods more heavily.
	RecencyBias float64     `koanf:"recency_bias" validate:"gte=0"`
	Geos        []GeoWeight `koanf:"geos"`
}

// TierPricing is the monthly-baseline band for one product tier, with the
// percentile window each segment draws from inside that band.
type TierPricing struct {
	MonthlyMin float64 `koanf:"monthly_min" validate:"gt=0"`
	MonthlyMax float64 `koanf:"monthly_max" validate:"gt=0"`
}

// SegmentWindow is the percentile slice of a tier band a segment prices in,
// making the amount band a joint function of tier and segment.
type SegmentWindow struct {
	Lo float64 `koanf:"lo" validate:"gte=0,lte=1"`
	Hi float64 `koanf:"hi" validate:"gte=0,lte=1"`
}

// SubscriptionConfig drives the subscription event generator.
type SubscriptionConfig struct {
	TierPricing        map[string]TierPricing   `koanf:"tier_pricing"`
	SegmentWindows     map[string]SegmentWindow `koanf:"segment_windows"`
	InitialTierWeights map[string]WeightTable   `koanf:"initial_tier_weights"`
	UpgradeTierWeights map[string]WeightTable   `koanf:"upgrade_tier_weights"`
	BillingWeights     map[string]WeightTable   `koanf:"billing_weights"`
	ContractWeights    map[string]WeightTable   `koanf:"contract_weights"`
	ChannelWeights     map[string]WeightTable   `koanf:"channel_weights"`
	PaymentWeights     map[string]WeightTable   `koanf:"payment_weights"`

	EventTypeWeights         WeightTable `koanf:"event_type_weights"`
	AdvancedEventTypeWeights WeightTable `koanf:"advanced_event_type_weights"`

	NewEventWindowDays int     `koanf:"new_event_window_days" validate:"gte=0"`
	RenewalJitterDays  int     `koanf:"renewal_jitter_days" validate:"gte=0"`
	ChurnProbability   float64 `koanf:"churn_probability" validate:"gte=0,lte=1"`
	ChurnHazard        float64 `koanf:"churn_hazard" validate:"gte=0,lte=1"`
	ChurnMinTenureDays int     `koanf:"churn_min_tenure_days" validate:"gte=0"`

	ExpansionFactor Range   `koanf:"expansion_factor"`
	DowngradeFactor Range   `koanf:"downgrade_factor"`
	RenewalFactor   Range   `koanf:"renewal_factor"`
	MaxDiscountPct  float64 `koanf:"max_discount_pct" validate:"gte=0,lte=100"`
	PromoRate       float64 `koanf:"promo_rate" validate:"gte=0,lte=1"`
	VolumeRate      float64 `koanf:"volume_rate" validate:"gte=0,lte=1"`
}

// RateWindow is an inclusive expected-rate window in percent.
type RateWindow struct {
	MinPct float64 `koanf:"min_pct"`
	MaxPct float64 `koanf:"max_pct"`
}

// AdoptionConfig drives the framework adoption generator.
type AdoptionConfig struct {
	BaseRates         map[string]float64            `koanf:"base_rates"`
	IndustryOverrides map[string]map[string]float64 `koanf:"industry_overrides"`

	EnterpriseMultiplier float64  `koanf:"enterprise_multiplier" validate:"gt=0"`
	StartupMultiplier    float64  `koanf:"startup_multiplier" validate:"gt=0"`
	StartupExempt        []string `koanf:"startup_exempt"`
	AdvancedMultiplier   float64  `koanf:"advanced_multiplier" validate:"gt=0"`
	BeginnerMultiplier   float64  `koanf:"beginner_multiplier" validate:"gt=0"`
	BeginnerExempt       []string `koanf:"beginner_exempt"`
	ProbabilityCap       float64  `koanf:"probability_cap" validate:"gt=0,lte=1"`

	FallbackFramework  string  `koanf:"fallback_framework" validate:"required"`
	SecondaryFramework string  `koanf:"secondary_framework"`
	SecondaryRate      float64 `koanf:"secondary_rate" validate:"gte=0,lte=1"`

	StartWindowDays    int                `koanf:"start_window_days" validate:"gt=0"`
	StartWindowScale   map[string]float64 `koanf:"start_window_scale"`
	DurationFactor     map[string]float64 `koanf:"duration_factor"`
	DurationJitterDays int                `koanf:"duration_jitter_days" validate:"gte=0"`
	MinDurationDays    int                `koanf:"min_duration_days" validate:"gt=0"`

	CertifiedShare float64 `koanf:"certified_share" validate:"gte=0,lte=1"`

	AuditScoreRanges   map[string]IntRange `koanf:"audit_score_ranges"`
	ComplexityPenalty  int                 `koanf:"complexity_penalty" validate:"gte=0"`
	MinAuditScore      int                 `koanf:"min_audit_score" validate:"gte=0,lte=100"`
	HoursPerComplexity int                 `koanf:"hours_per_complexity" validate:"gt=0"`
	HoursSegmentMult   map[string]float64  `koanf:"hours_segment_mult"`
	HoursMaturityMult  map[string]float64  `koanf:"hours_maturity_mult"`
	HoursVariance      Range               `koanf:"hours_variance"`
	MinHoursSaved      int                 `koanf:"min_hours_saved" validate:"gte=0"`
	CostSegmentMult    map[string]Range    `koanf:"cost_segment_mult"`
	AutomationAdjust   map[string]Range    `koanf:"automation_adjust"`
}

// DurationBand holds activity duration ranges in minutes for automated and
// manual execution.
type DurationBand struct {
	Automated IntRange `koanf:"automated"`
	Manual    IntRange `koanf:"manual"`
}

// ActivityConfig drives the compliance activity generator.
type ActivityConfig struct {
	GraceWindowDays int `koanf:"grace_window_days" validate:"gte=0"`

	CountPerComplexity IntRange           `koanf:"count_per_complexity"`
	CountSegmentMult   map[string]float64 `koanf:"count_segment_mult"`
	CountVariance      Range              `koanf:"count_variance"`
	MinPerAdoption     int                `koanf:"min_per_adoption" validate:"gt=0"`

	PhaseWeights          WeightTable            `koanf:"phase_weights"`
	TypeWeights           WeightTable            `koanf:"type_weights"`
	CategoryTypeOverrides map[string]WeightTable `koanf:"category_type_overrides"`
	ControlWeights        WeightTable            `koanf:"control_weights"`
	RiskWeights           WeightTable            `koanf:"risk_weights"`

	NeverAutomated   []string                `koanf:"never_automated"`
	MaturityAutoAdj  map[string]float64      `koanf:"maturity_auto_adj"`
	DurationBands    map[string]DurationBand `koanf:"duration_bands"`
	SuccessBase      map[string]Range        `koanf:"success_base"`
	AutomationBonus  Range                   `koanf:"automation_bonus"`
	SuccessCap       float64                 `koanf:"success_cap" validate:"gt=0,lte=1"`
	EvidenceRates    map[string]float64      `koanf:"evidence_rates"`
	FailedEvidence   float64                 `koanf:"failed_evidence" validate:"gte=0,lte=1"`
	RemediationRate  float64                 `koanf:"remediation_rate" validate:"gte=0,lte=1"`
	RemediationDelay IntRange                `koanf:"remediation_delay"`
}

// ValidationConfig holds validator tolerances.
type ValidationConfig struct {
	DistributionTolerancePct float64               `koanf:"distribution_tolerance_pct" validate:"gt=0"`
	CadenceVarianceMax       float64               `koanf:"cadence_variance_max" validate:"gt=1"`
	OutlierZScore            float64               `koanf:"outlier_z_score" validate:"gt=0"`
	ExpectedAdoptionRates    map[string]RateWindow `koanf:"expected_adoption_rates"`
	MinContractMonths        int                   `koanf:"min_contract_months" validate:"gte=0"`
	AutomationRateMax        float64               `koanf:"automation_rate_max" validate:"gt=0,lte=1"`
	SuccessRate              RateWindow            `koanf:"success_rate"`
	SampleIDLimit            int                   `koanf:"sample_id_limit" validate:"gt=0"`
}

// Load builds the configuration by layering defaults, an optional YAML file
// and CDG_-prefixed environment variables, then validating the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("CDG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "CDG_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural constraints (via validator tags) and the
// cross-field business rules: weight tables sum to one, bands are ordered,
// per-segment tables cover every segment, and dates parse.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return derrors.NewConfigurationError("STRUCT_VALIDATION", "configuration failed structural validation").WithCause(err)
	}

	tables := map[string]WeightTable{
		"customers.segment_weights":                 c.Customers.SegmentWeights,
		"customers.industry_weights":                c.Customers.IndustryWeights,
		"customers.maturity_weights":                c.Customers.MaturityWeights,
		"subscriptions.event_type_weights":          c.Subscriptions.EventTypeWeights,
		"subscriptions.advanced_event_type_weights": c.Subscriptions.AdvancedEventTypeWeights,
		"activities.phase_weights":                  c.Activities.PhaseWeights,
		"activities.type_weights":                   c.Activities.TypeWeights,
		"activities.control_weights":                c.Activities.ControlWeights,
		"activities.risk_weights":                   c.Activities.RiskWeights,
	}
	for name, t := range tables {
		if err := t.validate(name); err != nil {
			return err
		}
	}
	for cat, t := range c.Activities.CategoryTypeOverrides {
		if err := t.validate("activities.category_type_overrides." + cat); err != nil {
			return err
		}
	}

	for _, seg := range customer.Segments() {
		bands, ok := c.Customers.Segments[string(seg)]
		if !ok {
			return derrors.NewConfigurationError("MISSING_SEGMENT", fmt.Sprintf("customers.segments: no bands for segment %q", seg))
		}
		if bands.EmployeeMin > bands.EmployeeMax || bands.RevenueMin > bands.RevenueMax {
			return derrors.NewConfigurationError("INVERTED_BAND", fmt.Sprintf("customers.segments.%s: inverted band", seg))
		}
		for name, perSeg := range map[string]map[string]WeightTable{
			"subscriptions.initial_tier_weights": c.Subscriptions.InitialTierWeights,
			"subscriptions.upgrade_tier_weights": c.Subscriptions.UpgradeTierWeights,
			"subscriptions.billing_weights":      c.Subscriptions.BillingWeights,
			"subscriptions.contract_weights":     c.Subscriptions.ContractWeights,
			"subscriptions.channel_weights":      c.Subscriptions.ChannelWeights,
			"subscriptions.payment_weights":      c.Subscriptions.PaymentWeights,
		} {
			t, ok := perSeg[string(seg)]
			if !ok {
				return derrors.NewConfigurationError("MISSING_SEGMENT", fmt.Sprintf("%s: no table for segment %q", name, seg))
			}
			if err := t.validate(name + "." + string(seg)); err != nil {
				return err
			}
		}
		if w, ok := c.Subscriptions.SegmentWindows[string(seg)]; !ok {
			return derrors.NewConfigurationError("MISSING_SEGMENT", fmt.Sprintf("subscriptions.segment_windows: no window for segment %q", seg))
		} else if w.Lo > w.Hi {
			return derrors.NewConfigurationError("INVERTED_RANGE", fmt.Sprintf("subscriptions.segment_windows.%s: lo exceeds hi", seg))
		}
	}

	for _, tier := range subscription.Tiers() {
		p, ok := c.Subscriptions.TierPricing[string(tier)]
		if !ok {
			return derrors.NewConfigurationError("MISSING_TIER", fmt.Sprintf("subscriptions.tier_pricing: no band for tier %q", tier))
		}
		if p.MonthlyMin > p.MonthlyMax {
			return derrors.NewConfigurationError("INVERTED_BAND", fmt.Sprintf("subscriptions.tier_pricing.%s: inverted band", tier))
		}
	}

	ranges := map[string]Range{
		"subscriptions.expansion_factor": c.Subscriptions.ExpansionFactor,
		"subscriptions.downgrade_factor": c.Subscriptions.DowngradeFactor,
		"subscriptions.renewal_factor":   c.Subscriptions.RenewalFactor,
		"adoptions.hours_variance":       c.Adoptions.HoursVariance,
		"activities.count_variance":      c.Activities.CountVariance,
		"activities.automation_bonus":    c.Activities.AutomationBonus,
	}
	for name, r := range ranges {
		if err := r.validate(name); err != nil {
			return err
		}
	}
	if c.Subscriptions.ExpansionFactor.Min <= 1.0 {
		return derrors.NewConfigurationError("EXPANSION_FACTOR", "subscriptions.expansion_factor.min must exceed 1.0")
	}
	if c.Subscriptions.DowngradeFactor.Max >= 1.0 {
		return derrors.NewConfigurationError("DOWNGRADE_FACTOR", "subscriptions.downgrade_factor.max must be below 1.0")
	}

	geoSum := 0.0
	for _, g := range c.Customers.Geos {
		geoSum += g.Weight
	}
	if len(c.Customers.Geos) == 0 || math.Abs(geoSum-1.0) > weightSumTolerance {
		return derrors.NewConfigurationError("WEIGHT_SUM", fmt.Sprintf("customers.geos: weights sum to %.6f, want 1.0", geoSum))
	}

	for _, field := range []struct{ name, val string }{
		{"dataset.reference_date", c.Dataset.ReferenceDate},
		{"customers.signup_start", c.Customers.SignupStart},
		{"customers.signup_end", c.Customers.SignupEnd},
	} {
		if _, err := time.Parse("2006-01-02", field.val); err != nil {
			return derrors.NewConfigurationError("BAD_DATE", fmt.Sprintf("%s: %v", field.name, err))
		}
	}
	if c.Customers.SignupStart >= c.Customers.SignupEnd {
		return derrors.NewConfigurationError("BAD_DATE", "customers.signup_start must precede signup_end")
	}
	// A signup after the reference date would force the first event past the
	// horizon; reject it here rather than mid-generation.
	if c.Customers.SignupEnd > c.Dataset.ReferenceDate {
		return derrors.NewConfigurationError("BAD_DATE", "customers.signup_end must not exceed dataset.reference_date")
	}

	for _, m := range customer.Maturities() {
		for name, table := range map[string]map[string]float64{
			"adoptions.start_window_scale":  c.Adoptions.StartWindowScale,
			"adoptions.duration_factor":     c.Adoptions.DurationFactor,
			"adoptions.hours_maturity_mult": c.Adoptions.HoursMaturityMult,
			"activities.maturity_auto_adj":  c.Activities.MaturityAutoAdj,
		} {
			if _, ok := table[string(m)]; !ok {
				return derrors.NewConfigurationError("MISSING_MATURITY", fmt.Sprintf("%s: no entry for maturity %q", name, m))
			}
		}
		if _, ok := c.Adoptions.AuditScoreRanges[string(m)]; !ok {
			return derrors.NewConfigurationError("MISSING_MATURITY", fmt.Sprintf("adoptions.audit_score_ranges: no entry for maturity %q", m))
		}
		if _, ok := c.Activities.SuccessBase[string(m)]; !ok {
			return derrors.NewConfigurationError("MISSING_MATURITY", fmt.Sprintf("activities.success_base: no entry for maturity %q", m))
		}
	}

	return nil
}

// ReferenceDate returns the parsed reference date. Validate must have passed.
func (c *Config) ReferenceDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.Dataset.ReferenceDate)
	return t
}

// EmployeeBand returns the employee-count band for a segment.
func (c *Config) EmployeeBand(seg customer.Segment) customer.Band {
	b := c.Customers.Segments[string(seg)]
	return customer.Band{Min: b.EmployeeMin, Max: b.EmployeeMax}
}

// RevenueBand returns the annual-revenue band for a segment.
func (c *Config) RevenueBand(seg customer.Segment) customer.Band {
	b := c.Customers.Segments[string(seg)]
	return customer.Band{Min: b.RevenueMin, Max: b.RevenueMax}
}

// Default returns the built-in configuration, mirroring the business ratios
// the dataset was originally tuned to.
func Default() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Dataset: DatasetConfig{
			Seed:          1,
			CustomerCount: 300,
			Workers:       4,
			OutputDir:     "out",
			ReferenceDate: "2025-06-30",
		},
		Customers: CustomerConfig{
			SegmentWeights: WeightTable{
				{Key: string(customer.SegmentStartup), Weight: 0.50},
				{Key: string(customer.SegmentMidMarket), Weight: 0.375},
				{Key: string(customer.SegmentEnterprise), Weight: 0.125},
			},
			IndustryWeights: WeightTable{
				{Key: string(customer.IndustrySaaS), Weight: 0.25},
				{Key: string(customer.IndustryFintech), Weight: 0.15},
				{Key: string(customer.IndustryHealthtech), Weight: 0.12},
				{Key: string(customer.IndustryEcommerce), Weight: 0.12},
				{Key: string(customer.IndustryGovContractors), Weight: 0.06},
				{Key: string(customer.IndustryEdtech), Weight: 0.08},
				{Key: string(customer.IndustryManufacturing), Weight: 0.08},
				{Key: string(customer.IndustryRetail), Weight: 0.08},
				{Key: string(customer.IndustryOther), Weight: 0.06},
			},
			MaturityWeights: WeightTable{
				{Key: string(customer.MaturityBeginner), Weight: 0.25},
				{Key: string(customer.MaturityIntermediate), Weight: 0.50},
				{Key: string(customer.MaturityAdvanced), Weight: 0.25},
			},
			Segments: map[string]SegmentBands{
				string(customer.SegmentStartup):    {EmployeeMin: 1, EmployeeMax: 50, RevenueMin: 100_000, RevenueMax: 5_000_000},
				string(customer.SegmentMidMarket):  {EmployeeMin: 51, EmployeeMax: 500, RevenueMin: 5_000_001, RevenueMax: 100_000_000},
				string(customer.SegmentEnterprise): {EmployeeMin: 501, EmployeeMax: 10_000, RevenueMin: 100_000_001, RevenueMax: 1_000_000_000},
			},
			SignupStart: "2020-01-01",
			SignupEnd:   "2024-12-31",
			RecencyBias: 0.8,
			Geos: []GeoWeight{
				{Country: "USA", Region: "west", Weight: 0.30},
				{Country: "USA", Region: "east", Weight: 0.28},
				{Country: "USA", Region: "central", Weight: 0.17},
				{Country: "Canada", Region: "ontario", Weight: 0.08},
				{Country: "United Kingdom", Region: "london", Weight: 0.09},
				{Country: "Germany", Region: "berlin", Weight: 0.05},
				{Country: "Australia", Region: "nsw", Weight: 0.03},
			},
		},
		Subscriptions: SubscriptionConfig{
			TierPricing: map[string]TierPricing{
				string(subscription.TierStarter):        {MonthlyMin: 200, MonthlyMax: 800},
				string(subscription.TierProfessional):   {MonthlyMin: 800, MonthlyMax: 3000},
				string(subscription.TierEnterprise):     {MonthlyMin: 3000, MonthlyMax: 15000},
				string(subscription.TierEnterprisePlus): {MonthlyMin: 15000, MonthlyMax: 50000},
			},
			SegmentWindows: map[string]SegmentWindow{
				string(customer.SegmentStartup):    {Lo: 0.0, Hi: 0.6},
				string(customer.SegmentMidMarket):  {Lo: 0.2, Hi: 0.85},
				string(customer.SegmentEnterprise): {Lo: 0.4, Hi: 1.0},
			},
			InitialTierWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: string(subscription.TierStarter), Weight: 0.85},
					{Key: string(subscription.TierProfessional), Weight: 0.15},
				},
				string(customer.SegmentMidMarket): {
					{Key: string(subscription.TierProfessional), Weight: 0.8},
					{Key: string(subscription.TierEnterprise), Weight: 0.2},
				},
				string(customer.SegmentEnterprise): {
					{Key: string(subscription.TierEnterprise), Weight: 0.8},
					{Key: string(subscription.TierEnterprisePlus), Weight: 0.2},
				},
			},
			UpgradeTierWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: string(subscription.TierStarter), Weight: 0.3},
					{Key: string(subscription.TierProfessional), Weight: 0.7},
				},
				string(customer.SegmentMidMarket): {
					{Key: string(subscription.TierProfessional), Weight: 0.6},
					{Key: string(subscription.TierEnterprise), Weight: 0.4},
				},
				string(customer.SegmentEnterprise): {
					{Key: string(subscription.TierEnterprise), Weight: 0.7},
					{Key: string(subscription.TierEnterprisePlus), Weight: 0.3},
				},
			},
			BillingWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: string(subscription.BillingMonthly), Weight: 0.6},
					{Key: string(subscription.BillingQuarterly), Weight: 0.3},
					{Key: string(subscription.BillingAnnual), Weight: 0.1},
				},
				string(customer.SegmentMidMarket): {
					{Key: string(subscription.BillingMonthly), Weight: 0.2},
					{Key: string(subscription.BillingQuarterly), Weight: 0.5},
					{Key: string(subscription.BillingAnnual), Weight: 0.3},
				},
				string(customer.SegmentEnterprise): {
					{Key: string(subscription.BillingQuarterly), Weight: 0.2},
					{Key: string(subscription.BillingAnnual), Weight: 0.6},
					{Key: string(subscription.BillingUpfront), Weight: 0.2},
				},
			},
			ContractWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: "12", Weight: 0.8},
					{Key: "24", Weight: 0.2},
				},
				string(customer.SegmentMidMarket): {
					{Key: "12", Weight: 0.6},
					{Key: "24", Weight: 0.4},
				},
				string(customer.SegmentEnterprise): {
					{Key: "12", Weight: 0.3},
					{Key: "24", Weight: 0.5},
					{Key: "36", Weight: 0.2},
				},
			},
			ChannelWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: string(subscription.ChannelSelfServe), Weight: 0.8},
					{Key: string(subscription.ChannelInsideSales), Weight: 0.2},
				},
				string(customer.SegmentMidMarket): {
					{Key: string(subscription.ChannelSelfServe), Weight: 0.3},
					{Key: string(subscription.ChannelInsideSales), Weight: 0.6},
					{Key: string(subscription.ChannelFieldSales), Weight: 0.1},
				},
				string(customer.SegmentEnterprise): {
					{Key: string(subscription.ChannelInsideSales), Weight: 0.3},
					{Key: string(subscription.ChannelFieldSales), Weight: 0.65},
					{Key: string(subscription.ChannelPartner), Weight: 0.05},
				},
			},
			PaymentWeights: map[string]WeightTable{
				string(customer.SegmentStartup): {
					{Key: string(subscription.PaymentCreditCard), Weight: 0.9},
					{Key: string(subscription.PaymentACH), Weight: 0.1},
				},
				string(customer.SegmentMidMarket): {
					{Key: string(subscription.PaymentCreditCard), Weight: 0.6},
					{Key: string(subscription.PaymentACH), Weight: 0.3},
					{Key: string(subscription.PaymentInvoice), Weight: 0.1},
				},
				string(customer.SegmentEnterprise): {
					{Key: string(subscription.PaymentCreditCard), Weight: 0.2},
					{Key: string(subscription.PaymentACH), Weight: 0.3},
					{Key: string(subscription.PaymentWireTransfer), Weight: 0.2},
					{Key: string(subscription.PaymentInvoice), Weight: 0.3},
				},
			},
			EventTypeWeights: WeightTable{
				{Key: string(subscription.EventTypeRenewal), Weight: 0.70},
				{Key: string(subscription.EventTypeExpansion), Weight: 0.25},
				{Key: string(subscription.EventTypeDowngrade), Weight: 0.05},
			},
			AdvancedEventTypeWeights: WeightTable{
				{Key: string(subscription.EventTypeRenewal), Weight: 0.60},
				{Key: string(subscription.EventTypeExpansion), Weight: 0.35},
				{Key: string(subscription.EventTypeDowngrade), Weight: 0.05},
			},
			NewEventWindowDays: 30,
			RenewalJitterDays:  15,
			ChurnProbability:   0.15,
			ChurnHazard:        0.20,
			ChurnMinTenureDays: 365,
			ExpansionFactor:    Range{Min: 1.2, Max: 1.5},
			DowngradeFactor:    Range{Min: 0.6, Max: 0.8},
			RenewalFactor:      Range{Min: 1.0, Max: 1.1},
			MaxDiscountPct:     5.0,
			PromoRate:          0.15,
			VolumeRate:         0.30,
		},
		Adoptions: AdoptionConfig{
			BaseRates: map[string]float64{
				catalog.SOC2TypeI:  0.95,
				catalog.SOC2TypeII: 0.70,
				catalog.ISO27001:   0.40,
				catalog.HIPAA:      0.05,
				catalog.GDPR:       0.35,
				catalog.PCIDSS:     0.15,
				catalog.FedRAMP:    0.02,
				catalog.NISTCSF:    0.75,
			},
			IndustryOverrides: map[string]map[string]float64{
				string(customer.IndustryHealthtech): {
					catalog.HIPAA:      0.95,
					catalog.SOC2TypeI:  0.98,
					catalog.SOC2TypeII: 0.85,
					catalog.GDPR:       0.45,
				},
				string(customer.IndustryFintech): {
					catalog.PCIDSS:     0.90,
					catalog.SOC2TypeI:  0.98,
					catalog.SOC2TypeII: 0.85,
					catalog.FedRAMP:    0.15,
				},
				string(customer.IndustryEcommerce): {
					catalog.PCIDSS:    0.90,
					catalog.GDPR:      0.50,
					catalog.SOC2TypeI: 0.95,
				},
				string(customer.IndustryGovContractors): {
					catalog.FedRAMP:   0.80,
					catalog.NISTCSF:   0.95,
					catalog.SOC2TypeI: 0.90,
				},
				string(customer.IndustrySaaS): {
					catalog.SOC2TypeI:  0.98,
					catalog.SOC2TypeII: 0.80,
					catalog.ISO27001:   0.55,
					catalog.GDPR:       0.45,
				},
			},
			EnterpriseMultiplier: 1.2,
			StartupMultiplier:    0.8,
			StartupExempt:        []string{catalog.SOC2TypeI, catalog.NISTCSF},
			AdvancedMultiplier:   1.15,
			BeginnerMultiplier:   0.7,
			BeginnerExempt:       []string{catalog.SOC2TypeI},
			ProbabilityCap:       0.95,
			FallbackFramework:    catalog.SOC2TypeI,
			SecondaryFramework:   catalog.NISTCSF,
			SecondaryRate:        0.7,
			StartWindowDays:      365,
			StartWindowScale: map[string]float64{
				string(customer.MaturityAdvanced):     0.5,
				string(customer.MaturityIntermediate): 1.0,
				string(customer.MaturityBeginner):     1.25,
			},
			DurationFactor: map[string]float64{
				string(customer.MaturityAdvanced):     0.8,
				string(customer.MaturityIntermediate): 1.0,
				string(customer.MaturityBeginner):     1.3,
			},
			DurationJitterDays: 30,
			MinDurationDays:    30,
			CertifiedShare:     0.33,
			AuditScoreRanges: map[string]IntRange{
				string(customer.MaturityAdvanced):     {Min: 85, Max: 98},
				string(customer.MaturityIntermediate): {Min: 75, Max: 90},
				string(customer.MaturityBeginner):     {Min: 65, Max: 85},
			},
			ComplexityPenalty:  2,
			MinAuditScore:      50,
			HoursPerComplexity: 200,
			HoursSegmentMult: map[string]float64{
				string(customer.SegmentStartup):    0.7,
				string(customer.SegmentMidMarket):  1.0,
				string(customer.SegmentEnterprise): 1.5,
			},
			HoursMaturityMult: map[string]float64{
				string(customer.MaturityBeginner):     0.8,
				string(customer.MaturityIntermediate): 1.0,
				string(customer.MaturityAdvanced):     1.3,
			},
			HoursVariance: Range{Min: 0.8, Max: 1.2},
			MinHoursSaved: 50,
			CostSegmentMult: map[string]Range{
				string(customer.SegmentStartup):    {Min: 0.5, Max: 0.8},
				string(customer.SegmentMidMarket):  {Min: 0.8, Max: 1.2},
				string(customer.SegmentEnterprise): {Min: 1.0, Max: 2.0},
			},
			AutomationAdjust: map[string]Range{
				string(customer.MaturityAdvanced):     {Min: 10, Max: 20},
				string(customer.MaturityIntermediate): {Min: -5, Max: 5},
				string(customer.MaturityBeginner):     {Min: -15, Max: -10},
			},
		},
		Activities: ActivityConfig{
			GraceWindowDays:    90,
			CountPerComplexity: IntRange{Min: 10, Max: 20},
			CountSegmentMult: map[string]float64{
				string(customer.SegmentStartup):    0.7,
				string(customer.SegmentMidMarket):  1.0,
				string(customer.SegmentEnterprise): 1.4,
			},
			CountVariance:  Range{Min: 0.8, Max: 1.2},
			MinPerAdoption: 5,
			PhaseWeights: WeightTable{
				{Key: "start", Weight: 0.4},
				{Key: "middle", Weight: 0.2},
				{Key: "completion", Weight: 0.3},
				{Key: "post", Weight: 0.1},
			},
			TypeWeights: WeightTable{
				{Key: "control_check", Weight: 0.50},
				{Key: "questionnaire", Weight: 0.20},
				{Key: "remediation", Weight: 0.15},
				{Key: "training", Weight: 0.10},
				{Key: "audit", Weight: 0.05},
			},
			CategoryTypeOverrides: map[string]WeightTable{
				string(catalog.CategorySecurityAudit): {
					{Key: "control_check", Weight: 0.50},
					{Key: "questionnaire", Weight: 0.15},
					{Key: "remediation", Weight: 0.15},
					{Key: "training", Weight: 0.08},
					{Key: "audit", Weight: 0.12},
				},
				string(catalog.CategoryDataPrivacy): {
					{Key: "control_check", Weight: 0.35},
					{Key: "questionnaire", Weight: 0.35},
					{Key: "remediation", Weight: 0.12},
					{Key: "training", Weight: 0.13},
					{Key: "audit", Weight: 0.05},
				},
				string(catalog.CategoryHealthcarePrivacy): {
					{Key: "control_check", Weight: 0.35},
					{Key: "questionnaire", Weight: 0.30},
					{Key: "remediation", Weight: 0.15},
					{Key: "training", Weight: 0.15},
					{Key: "audit", Weight: 0.05},
				},
				string(catalog.CategoryGovernmentCloud): {
					{Key: "control_check", Weight: 0.45},
					{Key: "questionnaire", Weight: 0.15},
					{Key: "remediation", Weight: 0.20},
					{Key: "training", Weight: 0.08},
					{Key: "audit", Weight: 0.12},
				},
			},
			ControlWeights: WeightTable{
				{Key: "access_control", Weight: 0.25},
				{Key: "data_protection", Weight: 0.25},
				{Key: "network_security", Weight: 0.20},
				{Key: "monitoring", Weight: 0.20},
				{Key: "incident_response", Weight: 0.10},
			},
			RiskWeights: WeightTable{
				{Key: "low", Weight: 0.40},
				{Key: "medium", Weight: 0.30},
				{Key: "high", Weight: 0.20},
				{Key: "critical", Weight: 0.10},
			},
			NeverAutomated: []string{"audit", "training"},
			MaturityAutoAdj: map[string]float64{
				string(customer.MaturityAdvanced):     0.15,
				string(customer.MaturityIntermediate): 0.0,
				string(customer.MaturityBeginner):     -0.10,
			},
			DurationBands: map[string]DurationBand{
				"control_check": {Automated: IntRange{Min: 5, Max: 30}, Manual: IntRange{Min: 30, Max: 120}},
				"questionnaire": {Automated: IntRange{Min: 10, Max: 45}, Manual: IntRange{Min: 60, Max: 240}},
				"audit":         {Automated: IntRange{Min: 240, Max: 480}, Manual: IntRange{Min: 240, Max: 480}},
				"remediation":   {Automated: IntRange{Min: 30, Max: 90}, Manual: IntRange{Min: 120, Max: 480}},
				"training":      {Automated: IntRange{Min: 60, Max: 180}, Manual: IntRange{Min: 60, Max: 180}},
			},
			SuccessBase: map[string]Range{
				string(customer.MaturityAdvanced):     {Min: 0.90, Max: 0.95},
				string(customer.MaturityIntermediate): {Min: 0.85, Max: 0.90},
				string(customer.MaturityBeginner):     {Min: 0.75, Max: 0.85},
			},
			AutomationBonus: Range{Min: 0.05, Max: 0.10},
			SuccessCap:      0.98,
			EvidenceRates: map[string]float64{
				"control_check": 0.90,
				"questionnaire": 0.85,
				"audit":         0.95,
				"remediation":   0.70,
				"training":      0.60,
			},
			FailedEvidence:   0.5,
			RemediationRate:  0.5,
			RemediationDelay: IntRange{Min: 1, Max: 14},
		},
		Validation: ValidationConfig{
			DistributionTolerancePct: 5.0,
			CadenceVarianceMax:       1.2,
			OutlierZScore:            3.0,
			ExpectedAdoptionRates: map[string]RateWindow{
				catalog.SOC2TypeI:  {MinPct: 90, MaxPct: 100},
				catalog.SOC2TypeII: {MinPct: 55, MaxPct: 85},
				catalog.NISTCSF:    {MinPct: 65, MaxPct: 85},
				catalog.ISO27001:   {MinPct: 30, MaxPct: 55},
				catalog.GDPR:       {MinPct: 25, MaxPct: 50},
			},
			MinContractMonths: 12,
			AutomationRateMax: 0.80,
			SuccessRate:       RateWindow{MinPct: 70, MaxPct: 95},
			SampleIDLimit:     20,
		},
	}
}
