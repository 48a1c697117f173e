package engine_test

import (
	"testing"

	"github.com/eaiti/eai-security-check-sub001/internal/engine"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"14.5", "14.0", 1},
		{"14.0", "14.5", -1},
		{"14.5", "14.5", 0},
		{"15", "14.9", 1},
		{"14.5.1", "14.5", 1},
		{"14.5", "14.5.0", 0},
		{"10.0.19045", "10.0", 1},
		{"22.04", "22.10", -1},
		{"14.10", "14.9", 1},
		{"", "1.0", -1},
		{"1.0", "", 1},
		{"", "", 0},
	}

	for _, tt := range tests {
		got := engine.CompareVersions(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
