package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateFilePerm = 0o600

// State tracks daemon progress across restarts. It is mutated only after a
// successful delivery, then persisted.
type State struct {
	LastReportSent        time.Time `json:"lastReportSent"`
	TotalReportsGenerated int       `json:"totalReportsGenerated"`
	DaemonStarted         time.Time `json:"daemonStarted"`
}

// LoadState reads persisted daemon state, returning a fresh zero state when
// the file does not exist yet.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to read daemon state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse daemon state: %w", err)
	}
	return &state, nil
}

// Save persists the state atomically: write to a temp file, then rename.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal daemon state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, stateFilePerm); err != nil {
		return fmt.Errorf("failed to write daemon state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace daemon state: %w", err)
	}
	return nil
}
