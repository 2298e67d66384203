package customer

import (
	"fmt"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// Customer is the root entity of the dataset. Every fact record joins back to
// exactly one customer, and the customer's segment, industry and compliance
// maturity condition every downstream draw.
type Customer struct {
	ID                 int64       `json:"customer_id"`
	CompanyName        string      `json:"company_name"`
	Segment            Segment     `json:"segment"`
	Industry           Industry    `json:"industry"`
	EmployeeCount      int         `json:"employee_count"`
	AnnualRevenue      int64       `json:"annual_revenue"`
	SignupDate         values.Date `json:"signup_date"`
	ComplianceMaturity Maturity    `json:"compliance_maturity"`
	Country            string      `json:"country"`
	Region             string      `json:"region"`
}

type Segment string

const (
	SegmentStartup    Segment = "startup"
	SegmentMidMarket  Segment = "mid_market"
	SegmentEnterprise Segment = "enterprise"
)

// Segments lists all segments in canonical order.
func Segments() []Segment {
	return []Segment{SegmentStartup, SegmentMidMarket, SegmentEnterprise}
}

func (s Segment) Valid() bool {
	switch s {
	case SegmentStartup, SegmentMidMarket, SegmentEnterprise:
		return true
	}
	return false
}

func (s Segment) String() string { return string(s) }

type Industry string

const (
	IndustrySaaS           Industry = "saas"
	IndustryFintech        Industry = "fintech"
	IndustryHealthtech     Industry = "healthtech"
	IndustryEcommerce      Industry = "ecommerce"
	IndustryGovContractors Industry = "government_contractors"
	IndustryEdtech         Industry = "edtech"
	IndustryManufacturing  Industry = "manufacturing"
	IndustryRetail         Industry = "retail"
	IndustryOther          Industry = "other"
)

// Industries lists all industries in canonical order.
func Industries() []Industry {
	return []Industry{
		IndustrySaaS, IndustryFintech, IndustryHealthtech, IndustryEcommerce,
		IndustryGovContractors, IndustryEdtech, IndustryManufacturing,
		IndustryRetail, IndustryOther,
	}
}

func (i Industry) Valid() bool {
	for _, known := range Industries() {
		if i == known {
			return true
		}
	}
	return false
}

func (i Industry) String() string { return string(i) }

type Maturity string

const (
	MaturityBeginner     Maturity = "beginner"
	MaturityIntermediate Maturity = "intermediate"
	MaturityAdvanced     Maturity = "advanced"
)

// Maturities lists all maturity levels in canonical order.
func Maturities() []Maturity {
	return []Maturity{MaturityBeginner, MaturityIntermediate, MaturityAdvanced}
}

func (m Maturity) Valid() bool {
	switch m {
	case MaturityBeginner, MaturityIntermediate, MaturityAdvanced:
		return true
	}
	return false
}

func (m Maturity) String() string { return string(m) }

// Band is an inclusive numeric range owned by a segment. Employee counts and
// annual revenue must land inside the band of the record's segment; a value
// outside its band is a data-quality defect, not a valid state.
type Band struct {
	Min int64
	Max int64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v int64) bool {
	return v >= b.Min && v <= b.Max
}

// NewCustomer validates and creates a customer record.
func NewCustomer(id int64, name string, segment Segment, industry Industry, maturity Maturity, signup values.Date) (*Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("customer id must be positive, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}
	if !segment.Valid() {
		return nil, fmt.Errorf("invalid segment %q", segment)
	}
	if !industry.Valid() {
		return nil, fmt.Errorf("invalid industry %q", industry)
	}
	if !maturity.Valid() {
		return nil, fmt.Errorf("invalid compliance maturity %q", maturity)
	}
	if signup.IsZero() {
		return nil, fmt.Errorf("signup date cannot be zero")
	}

	return &Customer{
		ID:                 id,
		CompanyName:        name,
		Segment:            segment,
		Industry:           industry,
		ComplianceMaturity: maturity,
		SignupDate:         signup,
	}, nil
}

// CheckBands verifies the segment-band invariant against the supplied bands.
func (c *Customer) CheckBands(employees, revenue Band) error {
	if !employees.Contains(int64(c.EmployeeCount)) {
		return fmt.Errorf("customer %d: employee_count %d outside %s band [%d, %d]",
			c.ID, c.EmployeeCount, c.Segment, employees.Min, employees.Max)
	}
	if !revenue.Contains(c.AnnualRevenue) {
		return fmt.Errorf("customer %d: annual_revenue %d outside %s band [%d, %d]",
			c.ID, c.AnnualRevenue, c.Segment, revenue.Min, revenue.Max)
	}
	return nil
}
