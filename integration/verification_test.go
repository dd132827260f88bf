//go:build basic

// Package integration contains integration tests for adviz.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: go test -tags database ./integration (needs Docker)
package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/adviz/core"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/internal/source"
	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// libraryConfig mirrors the CLI defaults for the sample bundle range.
func libraryConfig(t *testing.T) *contract.Config {
	t.Helper()
	start, err := time.Parse(time.RFC3339, bundleStart)
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, bundleEnd)
	require.NoError(t, err)
	return &contract.Config{
		DetectorID:     "det-1",
		StartTime:      start,
		EndTime:        end,
		MaxPoints:      contract.DefaultMaxPoints,
		MaxAnnotations: contract.DefaultMaxAnnotations,
		NumCells:       contract.DefaultNumCells,
		TopN:           contract.DefaultTopN,
		SortType:       schema.SortBySeverity,
		ComboLimit:     contract.DefaultComboLimit,
		Placeholder:    true,
		Workers:        1,
		Missing: contract.MissingConfig{
			Offset:          contract.DefaultMissingOffset,
			HighThreshold:   contract.DefaultMissingHigh,
			MediumThreshold: contract.DefaultMissingMedium,
		},
	}
}

// TestHeatmapVerification checks that the CLI prints the same heatmap the library builds.
func TestHeatmapVerification(t *testing.T) {
	out, err := runAdviz(t, nil, "heatmap", "-i", bundlePath, "-d", "det-1",
		"--start", bundleStart, "--end", bundleEnd, "--output", "json")
	require.NoError(t, err)

	var fromCLI schema.HeatmapResult
	require.NoError(t, json.Unmarshal([]byte(out), &fromCLI))

	src, err := source.NewFileSource("../" + bundlePath)
	require.NoError(t, err)
	want, err := core.GetHeatmapResult(t.Context(), libraryConfig(t), src)
	require.NoError(t, err)

	// Cell entities are not serialized
	require.Len(t, fromCLI.Matrix.Rows, len(want.Matrix.Rows))
	for i, row := range want.Matrix.Rows {
		assert.Equal(t, row.Label, fromCLI.Matrix.Rows[i].Label)
		assert.Equal(t, row.MaxSeverity, fromCLI.Matrix.Rows[i].MaxSeverity)
		assert.Equal(t, row.TotalCount, fromCLI.Matrix.Rows[i].TotalCount)
	}
	assert.Equal(t, want.Matrix.Columns, fromCLI.Matrix.Columns)
}

// TestSeriesVerification checks the series budget and missing-data grading end to end.
func TestSeriesVerification(t *testing.T) {
	out, err := runAdviz(t, nil, "series", "-i", bundlePath, "-d", "det-1", "-e", "host=b",
		"--start", bundleStart, "--end", bundleEnd, "--max-points", "2", "--output", "json")
	require.NoError(t, err)

	var series schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &series))
	assert.Equal(t, 6, series.TotalPoints)
	require.Len(t, series.Points, 2)
	assert.Equal(t, 0.5, series.Points[0].Severity)
	assert.Equal(t, schema.MissingNone, series.MissingSeverity)
	assert.Empty(t, series.Annotations)
}

// TestSeriesRequiresEntity checks that a split detector rejects an unpinned series.
func TestSeriesRequiresEntity(t *testing.T) {
	_, err := runAdviz(t, nil, "series", "-i", bundlePath, "-d", "det-1",
		"--start", bundleStart, "--end", bundleEnd)
	assert.Error(t, err)
}
