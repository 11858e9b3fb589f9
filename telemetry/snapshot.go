package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/kinseg/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the lattice state at one step.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`
	Size    int    `json:"size"`
	Step    int    `json:"step"`

	Proteins []ProteinState        `json:"proteins"`
	Ligands  []components.Location `json:"ligands"`
	Heights  []float64             `json:"heights,omitempty"` // row-major
}

// ProteinState is one protein's identity and position.
type ProteinState struct {
	ID    uint32 `json:"id"`
	Kind  string `json:"kind"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Bound bool   `json:"bound"`
}

// PositionRecord is a positions.csv row.
type PositionRecord struct {
	Step  int    `csv:"step"`
	ID    uint32 `csv:"id"`
	Kind  string `csv:"kind"`
	X     int    `csv:"x"`
	Y     int    `csv:"y"`
	Bound bool   `csv:"bound"`
}

// SaveSnapshot writes a snapshot to dir as snapshot_<step>.json.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Step))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
