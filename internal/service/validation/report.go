package validation

// Status is the outcome of one check or of the whole report. A fail means a
// structural guarantee was broken and the dataset must not ship; a warn
// means an aggregate drifted past tolerance but every record is still valid.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult is one named check's outcome.
type CheckResult struct {
	Name          string  `json:"name"`
	Status        Status  `json:"status"`
	AffectedCount int     `json:"affected_count,omitempty"`
	SampleIDs     []int64 `json:"sample_ids,omitempty"`
	Deviation     float64 `json:"deviation_pct,omitempty"`
	Detail        string  `json:"detail,omitempty"`
}

// Report aggregates the outcomes of a validation pass.
type Report struct {
	SnapshotID string        `json:"snapshot_id"`
	Checks     []CheckResult `json:"checks"`
	Passed     int           `json:"passed"`
	Warned     int           `json:"warned"`
	Failed     int           `json:"failed"`
	Status     Status        `json:"status"`
}

func NewReport(snapshotID string) *Report {
	return &Report{SnapshotID: snapshotID, Status: StatusPass}
}

// Add records a check result and folds it into the overall status.
func (r *Report) Add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case StatusFail:
		r.Failed++
		r.Status = StatusFail
	case StatusWarn:
		r.Warned++
		if r.Status != StatusFail {
			r.Status = StatusWarn
		}
	default:
		r.Passed++
	}
}

// Merge folds another report's checks into this one.
func (r *Report) Merge(other *Report) {
	for _, c := range other.Checks {
		r.Add(c)
	}
}

// HasFailures reports whether any check failed outright.
func (r *Report) HasFailures() bool {
	return r.Failed > 0
}

// sampleIDs truncates an id list for reporting.
func sampleIDs(ids []int64, limit int) []int64 {
	if len(ids) <= limit {
		return ids
	}
	return ids[:limit]
}
