package subscription

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// Event is one step in a customer's revenue lifecycle. Events form an ordered
// sequence per customer: the first is always "new", and "churn" terminates
// the sequence with nothing after it.
type Event struct {
	ID                   int64           `json:"event_id"`
	CustomerID           int64           `json:"customer_id"`
	EventDate            values.Date     `json:"event_date"`
	Type                 EventType       `json:"event_type"`
	ProductTier          ProductTier     `json:"product_tier"`
	MRRAmount            decimal.Decimal `json:"mrr_amount"`
	BillingPeriod        BillingPeriod   `json:"billing_period"`
	ContractLengthMonths int             `json:"contract_length_months"`
	DiscountPercentage   float64         `json:"discount_percentage"`
	SalesChannel         SalesChannel    `json:"sales_channel"`
	PaymentMethod        PaymentMethod   `json:"payment_method"`
}

type EventType string

const (
	EventTypeNew       EventType = "new"
	EventTypeRenewal   EventType = "renewal"
	EventTypeExpansion EventType = "expansion"
	EventTypeDowngrade EventType = "downgrade"
	EventTypeChurn     EventType = "churn"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeNew, EventTypeRenewal, EventTypeExpansion, EventTypeDowngrade, EventTypeChurn:
		return true
	}
	return false
}

// Terminal reports whether no further events may follow this one.
func (t EventType) Terminal() bool {
	return t == EventTypeChurn
}

func (t EventType) String() string { return string(t) }

type ProductTier string

const (
	TierStarter        ProductTier = "starter"
	TierProfessional   ProductTier = "professional"
	TierEnterprise     ProductTier = "enterprise"
	TierEnterprisePlus ProductTier = "enterprise_plus"
)

// Tiers lists product tiers from lowest to highest.
func Tiers() []ProductTier {
	return []ProductTier{TierStarter, TierProfessional, TierEnterprise, TierEnterprisePlus}
}

// Rank returns the tier's position in the hierarchy, -1 if unknown.
func (p ProductTier) Rank() int {
	for i, t := range Tiers() {
		if p == t {
			return i
		}
	}
	return -1
}

func (p ProductTier) Valid() bool { return p.Rank() >= 0 }

func (p ProductTier) String() string { return string(p) }

// BillingPeriod is the cadence the billed amount is expressed in. Amounts are
// derived from a cadence-independent monthly baseline and multiplied out to
// the cadence, so annualizing any cadence recovers the same figure.
type BillingPeriod string

const (
	BillingMonthly   BillingPeriod = "monthly"
	BillingQuarterly BillingPeriod = "quarterly"
	BillingAnnual    BillingPeriod = "annual"
	// BillingUpfront covers a two-year prepay.
	BillingUpfront BillingPeriod = "upfront"
)

func (b BillingPeriod) Valid() bool {
	switch b {
	case BillingMonthly, BillingQuarterly, BillingAnnual, BillingUpfront:
		return true
	}
	return false
}

// Months returns how many months one billed amount covers.
func (b BillingPeriod) Months() int {
	switch b {
	case BillingMonthly:
		return 1
	case BillingQuarterly:
		return 3
	case BillingAnnual:
		return 12
	case BillingUpfront:
		return 24
	default:
		return 0
	}
}

// AnnualizationFactor converts one billed amount to an annual figure.
func (b BillingPeriod) AnnualizationFactor() decimal.Decimal {
	switch b {
	case BillingMonthly:
		return decimal.NewFromInt(12)
	case BillingQuarterly:
		return decimal.NewFromInt(4)
	case BillingAnnual:
		return decimal.NewFromInt(1)
	case BillingUpfront:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

func (b BillingPeriod) String() string { return string(b) }

type SalesChannel string

const (
	ChannelSelfServe   SalesChannel = "self_serve"
	ChannelInsideSales SalesChannel = "inside_sales"
	ChannelFieldSales  SalesChannel = "field_sales"
	ChannelPartner     SalesChannel = "partner"
)

func (s SalesChannel) Valid() bool {
	switch s {
	case ChannelSelfServe, ChannelInsideSales, ChannelFieldSales, ChannelPartner:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentACH          PaymentMethod = "ach"
	PaymentWireTransfer PaymentMethod = "wire_transfer"
	PaymentInvoice      PaymentMethod = "invoice"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCreditCard, PaymentACH, PaymentWireTransfer, PaymentInvoice:
		return true
	}
	return false
}

// Annualized returns the event's billed amount normalized to an annual basis.
func (e *Event) Annualized() decimal.Decimal {
	return e.MRRAmount.Mul(e.BillingPeriod.AnnualizationFactor()).Round(2)
}

// SortByDate orders events chronologically, breaking date ties by id so the
// order is total.
func SortByDate(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})
}

// ValidateLifecycle checks the state-machine rules over one customer's event
// sequence: non-empty, chronologically first event is "new", nothing follows
// churn, and no event precedes the signup date.
func ValidateLifecycle(events []*Event, signup values.Date) error {
	if len(events) == 0 {
		return fmt.Errorf("customer has no subscription events")
	}
	ordered := make([]*Event, len(events))
	copy(ordered, events)
	SortByDate(ordered)

	if ordered[0].Type != EventTypeNew {
		return fmt.Errorf("first event %d is %q, want %q", ordered[0].ID, ordered[0].Type, EventTypeNew)
	}
	for i, e := range ordered {
		if e.EventDate.Before(signup) {
			return fmt.Errorf("event %d dated %s precedes signup %s", e.ID, e.EventDate, signup)
		}
		if i > 0 && e.Type == EventTypeNew {
			return fmt.Errorf("event %d: %q only valid as the first event", e.ID, EventTypeNew)
		}
		if e.Type.Terminal() && i != len(ordered)-1 {
			return fmt.Errorf("event %d: events follow terminal %q", e.ID, e.Type)
		}
	}
	return nil
}
