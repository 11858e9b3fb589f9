package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// All methods are nil-safe.
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 1))
	assert.NoError(t, om.WritePositions(1, []ProteinState{{ID: 1}}))
	assert.NoError(t, om.WritePlot(NewSeries()))
	assert.Equal(t, "", om.Dir())
	assert.NoError(t, om.Close())
}

func TestOutputManagerWritesCSVWithSingleHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteTelemetry(WindowStats{RunID: "abc", WindowEndStep: 100, BoundTCR: 3}))
	require.NoError(t, om.WriteTelemetry(WindowStats{RunID: "abc", WindowEndStep: 200, BoundTCR: 5}))
	require.NoError(t, om.WritePositions(7, []ProteinState{
		{ID: 0, Kind: components.KindTCR.String(), X: 1, Y: 2, Bound: true},
		{ID: 1, Kind: components.KindCD45.String(), X: 3, Y: 4},
	}))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	var rows []WindowStats
	require.NoError(t, gocsv.UnmarshalBytes(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "abc", rows[0].RunID)
	assert.Equal(t, 200, rows[1].WindowEndStep)
	assert.Equal(t, 5, rows[1].BoundTCR)

	data, err = os.ReadFile(filepath.Join(dir, "positions.csv"))
	require.NoError(t, err)
	var positions []PositionRecord
	require.NoError(t, gocsv.UnmarshalBytes(data, &positions))
	require.Len(t, positions, 2)
	assert.Equal(t, PositionRecord{Step: 7, ID: 0, Kind: "TCR", X: 1, Y: 2, Bound: true}, positions[0])
	assert.Equal(t, "CD45", positions[1].Kind)
}

func TestOutputManagerWritesConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	om, err := NewOutputManager(t.TempDir())
	require.NoError(t, err)
	defer om.Close()

	require.NoError(t, om.WriteConfig(cfg))
	reloaded, err := config.Load(filepath.Join(om.Dir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg.Lattice, reloaded.Lattice)
}

func TestSnapshotSaveLoad(t *testing.T) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		RunID:   "run",
		Seed:    42,
		Size:    4,
		Step:    12,
		Proteins: []ProteinState{
			{ID: 0, Kind: "TCR", X: 1, Y: 1, Bound: true},
			{ID: 1, Kind: "CD45", X: 2, Y: 3},
		},
		Ligands: []components.Location{{X: 1, Y: 1}},
		Heights: make([]float64, 16),
	}

	path, err := SaveSnapshot(snap, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "snapshot_12.json", filepath.Base(path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestSeriesSavePNG(t *testing.T) {
	s := NewSeries()
	for i := 1; i <= 5; i++ {
		s.Add(WindowStats{SimTimeSec: float64(i), BoundTCR: i, HeightMean: 70 - float64(i), CD45Segregation: float64(i) / 2})
	}
	require.Equal(t, 5, s.Len())

	om, err := NewOutputManager(t.TempDir())
	require.NoError(t, err)
	defer om.Close()

	require.NoError(t, om.WritePlot(s))
	info, err := os.Stat(filepath.Join(om.Dir(), "timeseries.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
