package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/splash/fluid"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the particle state of a solver at one frame, for
// post-mortem inspection of automatic resets.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Width    float32 `json:"width"`
	Height   float32 `json:"height"`
	CellSize float32 `json:"cell_size"`

	Frame   int64   `json:"frame"`
	SimTime float32 `json:"sim_time"`
	Steps   int64   `json:"steps"`

	Params fluid.Params `json:"params"`
	Reason string       `json:"reason,omitempty"`

	Particles []fluid.Particle `json:"particles"`
}

// NewSnapshot captures s. Call it between steps.
func NewSnapshot(s *fluid.Solver, frame int64, reason string) *Snapshot {
	w, h := s.Bounds()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      s.Params().Seed,
		Width:     w,
		Height:    h,
		CellSize:  s.CellSize(),
		Frame:     frame,
		SimTime:   s.Time(),
		Steps:     s.Steps(),
		Params:    s.Params(),
		Reason:    reason,
		Particles: make([]fluid.Particle, s.NumParticles()),
	}
	for i := range snap.Particles {
		snap.Particles[i] = s.Particle(i)
	}
	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Reason != "" {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Frame, snapshot.Reason)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
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
