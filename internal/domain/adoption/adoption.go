package adoption

import (
	"fmt"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// Adoption is one customer's implementation project for one framework. The
// score, hours and automation fields are derived jointly from framework
// characteristics, customer segment and maturity so cross-dimensional
// aggregates stay coherent.
type Adoption struct {
	ID                 int64       `json:"adoption_id"`
	CustomerID         int64       `json:"customer_id"`
	FrameworkID        int64       `json:"framework_id"`
	StartDate          values.Date `json:"start_date"`
	CompletionDate     values.Date `json:"completion_date"`
	Status             Status      `json:"status"`
	AuditScore         int         `json:"audit_score"`
	HoursSaved         int         `json:"hours_saved"`
	ImplementationCost int64       `json:"implementation_cost"`
	AutomationLevel    int         `json:"automation_level"`
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCertified Status = "certified"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCertified:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Validate checks the adoption's internal invariants against the owning
// customer's signup date.
func (a *Adoption) Validate(signup values.Date) error {
	if a.CustomerID <= 0 || a.FrameworkID <= 0 {
		return fmt.Errorf("adoption %d: missing customer or framework reference", a.ID)
	}
	if a.StartDate.Before(signup) {
		return fmt.Errorf("adoption %d: start %s precedes customer signup %s", a.ID, a.StartDate, signup)
	}
	if a.CompletionDate.Before(a.StartDate) {
		return fmt.Errorf("adoption %d: completion %s precedes start %s", a.ID, a.CompletionDate, a.StartDate)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("adoption %d: invalid status %q", a.ID, a.Status)
	}
	if a.AuditScore < 0 || a.AuditScore > 100 {
		return fmt.Errorf("adoption %d: audit score %d outside [0, 100]", a.ID, a.AuditScore)
	}
	if a.AutomationLevel < 0 || a.AutomationLevel > 100 {
		return fmt.Errorf("adoption %d: automation level %d outside [0, 100]", a.ID, a.AutomationLevel)
	}
	return nil
}

// DurationDays returns the implementation duration in whole days.
func (a *Adoption) DurationDays() int {
	return a.StartDate.DaysUntil(a.CompletionDate)
}
