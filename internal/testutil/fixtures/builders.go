package fixtures

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// CustomerBuilder builds customer records for tests.
type CustomerBuilder struct {
	t *testing.T
	c *customer.Customer
}

func NewCustomerBuilder(t *testing.T) *CustomerBuilder {
	return &CustomerBuilder{
		t: t,
		c: &customer.Customer{
			ID:                 1,
			CompanyName:        "BlueStack Inc",
			Segment:            customer.SegmentMidMarket,
			Industry:           customer.IndustrySaaS,
			EmployeeCount:      120,
			AnnualRevenue:      20_000_000,
			SignupDate:         values.MustParseDate("2022-03-15"),
			ComplianceMaturity: customer.MaturityIntermediate,
			Country:            "USA",
			Region:             "west",
		},
	}
}

func (b *CustomerBuilder) WithID(id int64) *CustomerBuilder {
	b.c.ID = id
	return b
}

func (b *CustomerBuilder) WithSegment(s customer.Segment) *CustomerBuilder {
	b.c.Segment = s
	return b
}

func (b *CustomerBuilder) WithIndustry(i customer.Industry) *CustomerBuilder {
	b.c.Industry = i
	return b
}

func (b *CustomerBuilder) WithMaturity(m customer.Maturity) *CustomerBuilder {
	b.c.ComplianceMaturity = m
	return b
}

func (b *CustomerBuilder) WithSignupDate(s string) *CustomerBuilder {
	b.c.SignupDate = values.MustParseDate(s)
	return b
}

func (b *CustomerBuilder) WithEmployees(n int) *CustomerBuilder {
	b.c.EmployeeCount = n
	return b
}

func (b *CustomerBuilder) WithAnnualRevenue(v int64) *CustomerBuilder {
	b.c.AnnualRevenue = v
	return b
}

func (b *CustomerBuilder) Build() *customer.Customer {
	return b.c
}

// EventBuilder builds subscription events for tests.
type EventBuilder struct {
	t *testing.T
	e *subscription.Event
}

func NewEventBuilder(t *testing.T) *EventBuilder {
	return &EventBuilder{
		t: t,
		e: &subscription.Event{
			ID:                   1,
			CustomerID:           1,
			EventDate:            values.MustParseDate("2022-04-01"),
			Type:                 subscription.EventTypeNew,
			ProductTier:          subscription.TierProfessional,
			MRRAmount:            decimal.NewFromInt(1500),
			BillingPeriod:        subscription.BillingMonthly,
			ContractLengthMonths: 12,
			SalesChannel:         subscription.ChannelInsideSales,
			PaymentMethod:        subscription.PaymentCreditCard,
		},
	}
}

func (b *EventBuilder) WithID(id int64) *EventBuilder {
	b.e.ID = id
	return b
}

func (b *EventBuilder) WithCustomerID(id int64) *EventBuilder {
	b.e.CustomerID = id
	return b
}

func (b *EventBuilder) WithDate(s string) *EventBuilder {
	b.e.EventDate = values.MustParseDate(s)
	return b
}

func (b *EventBuilder) WithType(t subscription.EventType) *EventBuilder {
	b.e.Type = t
	if t == subscription.EventTypeChurn {
		b.e.MRRAmount = decimal.Zero
		b.e.ContractLengthMonths = 0
	}
	return b
}

func (b *EventBuilder) WithTier(tier subscription.ProductTier) *EventBuilder {
	b.e.ProductTier = tier
	return b
}

func (b *EventBuilder) WithAmount(monthly float64, period subscription.BillingPeriod) *EventBuilder {
	rr := values.MustRecurringRevenue(monthly)
	b.e.MRRAmount = rr.ForMonths(period.Months())
	b.e.BillingPeriod = period
	return b
}

func (b *EventBuilder) WithContractMonths(n int) *EventBuilder {
	b.e.ContractLengthMonths = n
	return b
}

func (b *EventBuilder) Build() *subscription.Event {
	return b.e
}

// AdoptionBuilder builds framework adoptions for tests.
type AdoptionBuilder struct {
	t *testing.T
	a *adoption.Adoption
}

func NewAdoptionBuilder(t *testing.T) *AdoptionBuilder {
	return &AdoptionBuilder{
		t: t,
		a: &adoption.Adoption{
			ID:                 1,
			CustomerID:         1,
			FrameworkID:        1,
			StartDate:          values.MustParseDate("2022-05-01"),
			CompletionDate:     values.MustParseDate("2022-08-15"),
			Status:             adoption.StatusCompleted,
			AuditScore:         82,
			HoursSaved:         800,
			ImplementationCost: 25_000,
			AutomationLevel:    70,
		},
	}
}

func (b *AdoptionBuilder) WithID(id int64) *AdoptionBuilder {
	b.a.ID = id
	return b
}

func (b *AdoptionBuilder) WithCustomerID(id int64) *AdoptionBuilder {
	b.a.CustomerID = id
	return b
}

func (b *AdoptionBuilder) WithFrameworkID(id int64) *AdoptionBuilder {
	b.a.FrameworkID = id
	return b
}

func (b *AdoptionBuilder) WithWindow(start, completion string) *AdoptionBuilder {
	b.a.StartDate = values.MustParseDate(start)
	b.a.CompletionDate = values.MustParseDate(completion)
	return b
}

func (b *AdoptionBuilder) WithStatus(s adoption.Status) *AdoptionBuilder {
	b.a.Status = s
	return b
}

func (b *AdoptionBuilder) Build() *adoption.Adoption {
	return b.a
}

// ActivityBuilder builds compliance activities for tests.
type ActivityBuilder struct {
	t *testing.T
	a *activity.Activity
}

func NewActivityBuilder(t *testing.T) *ActivityBuilder {
	return &ActivityBuilder{
		t: t,
		a: &activity.Activity{
			ID:                1,
			CustomerID:        1,
			FrameworkID:       1,
			AdoptionID:        1,
			ActivityDate:      values.MustParseDate("2022-06-10"),
			Type:              activity.TypeControlCheck,
			ControlCategory:   activity.ControlAccessControl,
			AutomatedFlag:     true,
			DurationMinutes:   15,
			SuccessFlag:       true,
			RiskLevel:         activity.RiskLow,
			EvidenceCollected: true,
		},
	}
}

func (b *ActivityBuilder) WithID(id int64) *ActivityBuilder {
	b.a.ID = id
	return b
}

func (b *ActivityBuilder) WithAdoption(ad *adoption.Adoption) *ActivityBuilder {
	b.a.AdoptionID = ad.ID
	b.a.CustomerID = ad.CustomerID
	b.a.FrameworkID = ad.FrameworkID
	return b
}

func (b *ActivityBuilder) WithDate(s string) *ActivityBuilder {
	b.a.ActivityDate = values.MustParseDate(s)
	return b
}

func (b *ActivityBuilder) WithType(t activity.Type) *ActivityBuilder {
	b.a.Type = t
	return b
}

func (b *ActivityBuilder) WithAutomated(v bool) *ActivityBuilder {
	b.a.AutomatedFlag = v
	return b
}

func (b *ActivityBuilder) WithSuccess(v bool) *ActivityBuilder {
	b.a.SuccessFlag = v
	return b
}

func (b *ActivityBuilder) Build() *activity.Activity {
	return b.a
}
