package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eaiti/eai-security-check-sub001/internal/daemon"
	"github.com/eaiti/eai-security-check-sub001/internal/report"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "daemon-state.json")

	state := &daemon.State{
		LastReportSent:        time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		TotalReportsGenerated: 42,
		DaemonStarted:         time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := state.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := daemon.LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !loaded.LastReportSent.Equal(state.LastReportSent) {
		t.Errorf("LastReportSent = %v, want %v", loaded.LastReportSent, state.LastReportSent)
	}
	if loaded.TotalReportsGenerated != 42 {
		t.Errorf("TotalReportsGenerated = %d, want 42", loaded.TotalReportsGenerated)
	}
}

func TestLoadStateMissingFileIsFresh(t *testing.T) {
	state, err := daemon.LoadState(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if state.TotalReportsGenerated != 0 || !state.LastReportSent.IsZero() {
		t.Errorf("missing state file should yield zero state, got %+v", state)
	}
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := daemon.LoadState(path); err == nil {
		t.Fatal("corrupt state file should error")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := (&daemon.State{TotalReportsGenerated: 1}).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestFileDeliverer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	d := &daemon.FileDeliverer{Dir: dir}

	doc := report.Document{Content: "report body\n", Filename: "security-report-host-20250615-103000.txt"}
	if err := d.Deliver(context.Background(), doc); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, doc.Filename))
	if err != nil {
		t.Fatalf("read delivered report: %v", err)
	}
	if string(data) != doc.Content {
		t.Errorf("delivered content = %q", data)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := daemon.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Interval != 24*time.Hour {
		t.Errorf("interval = %v, want 24h", cfg.Interval)
	}
	if cfg.Profile != "default" {
		t.Errorf("profile = %q, want default", cfg.Profile)
	}
	if cfg.Format != "plain" {
		t.Errorf("format = %q, want plain", cfg.Format)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.yaml")
	content := []byte("interval: 1h\nprofile: strict\noutput_dir: /var/reports\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Interval != time.Hour {
		t.Errorf("interval = %v, want 1h", cfg.Interval)
	}
	if cfg.Profile != "strict" {
		t.Errorf("profile = %q, want strict", cfg.Profile)
	}
	if cfg.OutputDir != "/var/reports" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
}

func TestLoadConfigRejectsNonPositiveInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.yaml")
	if err := os.WriteFile(path, []byte("interval: 0s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := daemon.LoadConfig(path); err == nil {
		t.Fatal("zero interval should be rejected")
	}
}
