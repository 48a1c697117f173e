// Package audit defines the shared result types produced by a security audit.
package audit

import "time"

// CheckResult is one evaluated outcome for a category or sub-dimension.
// Immutable once created.
type CheckResult struct {
	Setting  string `json:"setting"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// SecurityReport is the outcome of one audit run. Results are ordered by
// the engine's fixed category catalogue, not by config declaration order.
type SecurityReport struct {
	Timestamp     string        `json:"timestamp"`
	OverallPassed bool          `json:"overallPassed"`
	Results       []CheckResult `json:"results"`
}

// NewReport builds a report from results taken at the given time. The
// overall flag is the conjunction of every result's pass flag, vacuously
// true for an empty result list.
func NewReport(at time.Time, results []CheckResult) *SecurityReport {
	overall := true
	for _, r := range results {
		if !r.Passed {
			overall = false
			break
		}
	}
	return &SecurityReport{
		Timestamp:     at.UTC().Format(time.RFC3339),
		OverallPassed: overall,
		Results:       results,
	}
}

// Counts returns the number of passed and failed results.
func (r *SecurityReport) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
