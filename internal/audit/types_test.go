package audit_test

import (
	"testing"
	"time"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
)

func TestNewReportOverall(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		results []audit.CheckResult
		want    bool
	}{
		{"empty is vacuously true", nil, true},
		{"all passing", []audit.CheckResult{{Passed: true}, {Passed: true}}, true},
		{"one failure fails all", []audit.CheckResult{{Passed: true}, {Passed: false}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := audit.NewReport(at, tt.results)
			if rep.OverallPassed != tt.want {
				t.Errorf("OverallPassed = %v, want %v", rep.OverallPassed, tt.want)
			}
		})
	}
}

func TestNewReportTimestamp(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))
	rep := audit.NewReport(at, nil)
	if rep.Timestamp != "2025-06-15T15:30:00Z" {
		t.Errorf("timestamp = %q, want UTC RFC3339", rep.Timestamp)
	}
}

func TestCounts(t *testing.T) {
	rep := audit.NewReport(time.Now(), []audit.CheckResult{
		{Passed: true}, {Passed: false}, {Passed: true},
	})
	passed, failed := rep.Counts()
	if passed != 2 || failed != 1 {
		t.Errorf("Counts() = (%d, %d), want (2, 1)", passed, failed)
	}
}
