package activity

import (
	"fmt"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

// Activity is one unit of compliance work performed inside an adoption's
// implementation or monitoring window. An activity belongs to exactly one
// adoption, and its customer and framework ids must match the adoption's.
type Activity struct {
	ID                int64           `json:"activity_id"`
	CustomerID        int64           `json:"customer_id"`
	FrameworkID       int64           `json:"framework_id"`
	AdoptionID        int64           `json:"adoption_id"`
	ActivityDate      values.Date     `json:"activity_date"`
	Type              Type            `json:"activity_type"`
	ControlCategory   ControlCategory `json:"control_category"`
	AutomatedFlag     bool            `json:"automated_flag"`
	DurationMinutes   int             `json:"duration_minutes"`
	SuccessFlag       bool            `json:"success_flag"`
	RiskLevel         RiskLevel       `json:"risk_level"`
	EvidenceCollected bool            `json:"evidence_collected"`
}

type Type string

const (
	TypeControlCheck  Type = "control_check"
	TypeQuestionnaire Type = "questionnaire"
	TypeRemediation   Type = "remediation"
	TypeTraining      Type = "training"
	TypeAudit         Type = "audit"
)

// Types lists activity types in canonical order.
func Types() []Type {
	return []Type{TypeControlCheck, TypeQuestionnaire, TypeRemediation, TypeTraining, TypeAudit}
}

func (t Type) Valid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

func (t Type) String() string { return string(t) }

type ControlCategory string

const (
	ControlAccessControl    ControlCategory = "access_control"
	ControlDataProtection   ControlCategory = "data_protection"
	ControlNetworkSecurity  ControlCategory = "network_security"
	ControlMonitoring       ControlCategory = "monitoring"
	ControlIncidentResponse ControlCategory = "incident_response"
)

func (c ControlCategory) Valid() bool {
	switch c {
	case ControlAccessControl, ControlDataProtection, ControlNetworkSecurity, ControlMonitoring, ControlIncidentResponse:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Validate checks the activity's invariants against its parent adoption's
// window. The grace window extends the window past the adoption's completion
// for trailing monitoring work.
func (a *Activity) Validate(adoptionCustomerID, adoptionFrameworkID int64, start, completion values.Date, graceDays int) error {
	if a.CustomerID != adoptionCustomerID {
		return fmt.Errorf("activity %d: customer %d does not match adoption customer %d", a.ID, a.CustomerID, adoptionCustomerID)
	}
	if a.FrameworkID != adoptionFrameworkID {
		return fmt.Errorf("activity %d: framework %d does not match adoption framework %d", a.ID, a.FrameworkID, adoptionFrameworkID)
	}
	if a.ActivityDate.Before(start) {
		return fmt.Errorf("activity %d: date %s precedes adoption start %s", a.ID, a.ActivityDate, start)
	}
	if limit := completion.AddDays(graceDays); a.ActivityDate.After(limit) {
		return fmt.Errorf("activity %d: date %s past grace window end %s", a.ID, a.ActivityDate, limit)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("activity %d: invalid type %q", a.ID, a.Type)
	}
	if !a.ControlCategory.Valid() {
		return fmt.Errorf("activity %d: invalid control category %q", a.ID, a.ControlCategory)
	}
	if !a.RiskLevel.Valid() {
		return fmt.Errorf("activity %d: invalid risk level %q", a.ID, a.RiskLevel)
	}
	if a.DurationMinutes <= 0 {
		return fmt.Errorf("activity %d: duration must be positive", a.ID)
	}
	return nil
}
