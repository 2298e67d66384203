package catalog

import (
	"fmt"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
)

// Framework is one record of the hand-authored compliance-framework reference
// catalog. Frameworks are never generated; the catalog is immutable for the
// lifetime of a dataset and shared read-only by all downstream generators.
type Framework struct {
	ID                   int64    `json:"framework_id"`
	Name                 string   `json:"framework_name"`
	Category             Category `json:"framework_category"`
	ComplexityScore      int      `json:"complexity_score"`
	AvgCompletionDays    int      `json:"avg_completion_days"`
	IndustryRelevance    string   `json:"industry_relevance"`
	GeographicScope      string   `json:"geographic_scope"`
	AutomationPercentage int      `json:"automation_percentage"`
	AnnualAuditRequired  bool     `json:"annual_audit_required"`
	CertificationCostUSD int64    `json:"certification_cost_usd"`
}

type Category string

const (
	CategorySecurityAudit      Category = "security_audit"
	CategorySecurityManagement Category = "security_management"
	CategoryHealthcarePrivacy  Category = "healthcare_privacy"
	CategoryDataPrivacy        Category = "data_privacy"
	CategoryPaymentSecurity    Category = "payment_security"
	CategoryGovernmentCloud    Category = "government_cloud"
	CategoryCybersecurity      Category = "cybersecurity_framework"
)

// Well-known framework names.
const (
	SOC2TypeI  = "SOC2_Type_I"
	SOC2TypeII = "SOC2_Type_II"
	ISO27001   = "ISO27001"
	HIPAA      = "HIPAA"
	GDPR       = "GDPR"
	PCIDSS     = "PCI_DSS"
	FedRAMP    = "FedRAMP"
	NISTCSF    = "NIST_CSF"
)

// Catalog holds the framework reference table plus the prerequisite edges
// between frameworks (a successor may only be adopted when its prerequisite
// already is).
type Catalog struct {
	frameworks []Framework
	byID       map[int64]Framework
	byName     map[string]Framework
	prereq     map[string]string
}

// New builds a catalog from the given frameworks and prerequisite edges
// (successor name -> prerequisite name).
func New(frameworks []Framework, prereq map[string]string) (*Catalog, error) {
	c := &Catalog{
		frameworks: make([]Framework, len(frameworks)),
		byID:       make(map[int64]Framework, len(frameworks)),
		byName:     make(map[string]Framework, len(frameworks)),
		prereq:     make(map[string]string, len(prereq)),
	}
	copy(c.frameworks, frameworks)

	for _, f := range frameworks {
		if f.ComplexityScore < 1 || f.ComplexityScore > 10 {
			return nil, fmt.Errorf("framework %s: complexity score %d outside [1, 10]", f.Name, f.ComplexityScore)
		}
		if f.AvgCompletionDays <= 0 {
			return nil, fmt.Errorf("framework %s: avg completion days must be positive", f.Name)
		}
		if f.AutomationPercentage < 0 || f.AutomationPercentage > 100 {
			return nil, fmt.Errorf("framework %s: automation percentage %d outside [0, 100]", f.Name, f.AutomationPercentage)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate framework id %d", f.ID)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate framework name %s", f.Name)
		}
		c.byID[f.ID] = f
		c.byName[f.Name] = f
	}

	for successor, prerequisite := range prereq {
		if _, ok := c.byName[successor]; !ok {
			return nil, fmt.Errorf("prerequisite edge references unknown framework %s", successor)
		}
		if _, ok := c.byName[prerequisite]; !ok {
			return nil, fmt.Errorf("prerequisite edge references unknown framework %s", prerequisite)
		}
		c.prereq[successor] = prerequisite
	}
	return c, nil
}

// Default returns the production catalog: the eight frameworks tracked by the
// platform, with SOC 2 Type II gated on Type I.
func Default() *Catalog {
	c, err := New([]Framework{
		{ID: 1, Name: SOC2TypeI, Category: CategorySecurityAudit, ComplexityScore: 4, AvgCompletionDays: 90, IndustryRelevance: "all_industries", GeographicScope: "global", AutomationPercentage: 75, AnnualAuditRequired: false, CertificationCostUSD: 25000},
		{ID: 2, Name: SOC2TypeII, Category: CategorySecurityAudit, ComplexityScore: 7, AvgCompletionDays: 180, IndustryRelevance: "all_industries", GeographicScope: "global", AutomationPercentage: 65, AnnualAuditRequired: true, CertificationCostUSD: 45000},
		{ID: 3, Name: ISO27001, Category: CategorySecurityManagement, ComplexityScore: 8, AvgCompletionDays: 240, IndustryRelevance: "all_industries", GeographicScope: "global", AutomationPercentage: 60, AnnualAuditRequired: true, CertificationCostUSD: 35000},
		{ID: 4, Name: HIPAA, Category: CategoryHealthcarePrivacy, ComplexityScore: 6, AvgCompletionDays: 150, IndustryRelevance: string(customer.IndustryHealthtech), GeographicScope: "usa", AutomationPercentage: 70, AnnualAuditRequired: false, CertificationCostUSD: 15000},
		{ID: 5, Name: GDPR, Category: CategoryDataPrivacy, ComplexityScore: 7, AvgCompletionDays: 120, IndustryRelevance: "all_industries", GeographicScope: "eu_global", AutomationPercentage: 55, AnnualAuditRequired: false, CertificationCostUSD: 20000},
		{ID: 6, Name: PCIDSS, Category: CategoryPaymentSecurity, ComplexityScore: 5, AvgCompletionDays: 90, IndustryRelevance: "ecommerce_fintech", GeographicScope: "global", AutomationPercentage: 80, AnnualAuditRequired: true, CertificationCostUSD: 30000},
		{ID: 7, Name: FedRAMP, Category: CategoryGovernmentCloud, ComplexityScore: 9, AvgCompletionDays: 365, IndustryRelevance: string(customer.IndustryGovContractors), GeographicScope: "usa", AutomationPercentage: 45, AnnualAuditRequired: true, CertificationCostUSD: 150000},
		{ID: 8, Name: NISTCSF, Category: CategoryCybersecurity, ComplexityScore: 6, AvgCompletionDays: 180, IndustryRelevance: "all_industries", GeographicScope: "usa_global", AutomationPercentage: 70, AnnualAuditRequired: false, CertificationCostUSD: 25000},
	}, map[string]string{
		SOC2TypeII: SOC2TypeI,
	})
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the frameworks in id order. The returned slice is a copy.
func (c *Catalog) All() []Framework {
	out := make([]Framework, len(c.frameworks))
	copy(out, c.frameworks)
	return out
}

// Len returns the number of frameworks.
func (c *Catalog) Len() int {
	return len(c.frameworks)
}

// ByID looks up a framework by id.
func (c *Catalog) ByID(id int64) (Framework, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// ByName looks up a framework by name.
func (c *Catalog) ByName(name string) (Framework, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Prerequisite returns the prerequisite framework name for a successor, if any.
func (c *Catalog) Prerequisite(name string) (string, bool) {
	p, ok := c.prereq[name]
	return p, ok
}
