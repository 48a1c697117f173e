package checker

import (
	"strings"
	"testing"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

func TestLimitOutput(t *testing.T) {
	short := []byte("small output")
	if got := limitOutput(short, 64); got != "small output" {
		t.Errorf("short output modified: %q", got)
	}

	long := []byte(strings.Repeat("a", 100))
	got := limitOutput(long, 64)
	if !strings.HasSuffix(got, "[output truncated]...") {
		t.Errorf("long output not truncated: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 64)) {
		t.Error("truncated output should keep the leading bytes")
	}
}

func TestCommandResultHelpers(t *testing.T) {
	ok := commandResult{Stdout: "  value \n"}
	if !ok.Succeeded() {
		t.Error("zero exit, nil error should succeed")
	}
	if ok.TrimmedStdout() != "value" {
		t.Errorf("TrimmedStdout = %q", ok.TrimmedStdout())
	}

	failed := commandResult{ExitCode: 1}
	if failed.Succeeded() {
		t.Error("non-zero exit should not succeed")
	}
}

func TestForOS(t *testing.T) {
	log := logger.NewDefault()
	for _, osName := range []string{"darwin", "linux", "windows"} {
		if _, err := forOS(osName, log); err != nil {
			t.Errorf("forOS(%q): %v", osName, err)
		}
	}
	if _, err := forOS("plan9", log); err == nil {
		t.Error("unsupported platform should error")
	}
}
