package checker

import (
	"context"
	"testing"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

func TestParseLatestFeed(t *testing.T) {
	body := []byte(`{
		"OSVersions": [
			{"Latest": {"ProductVersion": "15.1"}},
			{"Latest": {"ProductVersion": "14.7"}}
		]
	}`)
	version, err := parseLatestFeed(body)
	if err != nil {
		t.Fatalf("parseLatestFeed: %v", err)
	}
	if version != "15.1" {
		t.Errorf("version = %q, want 15.1", version)
	}
}

func TestParseLatestFeedErrors(t *testing.T) {
	cases := map[string][]byte{
		"invalid json":  []byte("not json"),
		"empty list":    []byte(`{"OSVersions": []}`),
		"empty version": []byte(`{"OSVersions": [{"Latest": {"ProductVersion": ""}}]}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseLatestFeed(body); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolveFallsBackToFloor(t *testing.T) {
	r := NewLatestVersionResolver(logger.NewDefault())

	// linux has no lookup endpoint and no cached value, so Resolve must
	// land on the compiled-in floor immediately.
	if got := r.Resolve(context.Background(), "linux"); got != floorVersions["linux"] {
		t.Errorf("Resolve(linux) = %q, want floor %q", got, floorVersions["linux"])
	}
	if got := r.Resolve(context.Background(), "windows"); got != floorVersions["windows"] {
		t.Errorf("Resolve(windows) = %q, want floor %q", got, floorVersions["windows"])
	}
}

func TestResolvePrefersLastKnown(t *testing.T) {
	r := NewLatestVersionResolver(logger.NewDefault())
	r.lastKnown["linux"] = "24.04"

	if got := r.Resolve(context.Background(), "linux"); got != "24.04" {
		t.Errorf("Resolve(linux) = %q, want cached 24.04", got)
	}
}
