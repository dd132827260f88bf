package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	src, err := NewFileSource(bundlePath)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	checkResultSource(t, src)
}

func TestFileSource_EmptyDetectorID(t *testing.T) {
	src, err := NewFileSource(bundlePath)
	require.NoError(t, err)

	d, err := src.GetDetector(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "det-1", d.ID)
}

func TestFileSource_MissingFeature(t *testing.T) {
	src, err := NewFileSource(bundlePath)
	require.NoError(t, err)

	_, err = src.GetFeatureData(context.Background(), schema.ResultQuery{Range: bundleRange()}, "memory")
	assert.ErrorContains(t, err, "memory")
}

func TestNewFileSource_Errors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = NewFileSource(bad)
	assert.ErrorContains(t, err, "failed to decode")

	noID := filepath.Join(t.TempDir(), "noid.json")
	require.NoError(t, os.WriteFile(noID, []byte(`{"detector":{}}`), 0o644))
	_, err = NewFileSource(noID)
	assert.ErrorContains(t, err, "no detector id")
}

func TestNewFileSourceFromBundle_SortsResults(t *testing.T) {
	src := NewFileSourceFromBundle(schema.ResultBundle{
		Detector: schema.Detector{ID: "d"},
		Anomalies: []schema.AnomalyResult{
			{PlotTime: 30, AnomalyGrade: 0.3},
			{PlotTime: 10, AnomalyGrade: 0.1},
			{PlotTime: 20, AnomalyGrade: 0.2},
		},
	})
	got, err := src.GetAnomalies(context.Background(), schema.ResultQuery{Range: schema.TimeWindow{StartDate: 0, EndDate: 100}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{got[0].PlotTime, got[1].PlotTime, got[2].PlotTime})

	_, err = src.GetAnomalies(context.Background(), schema.ResultQuery{DetectorID: "other"})
	assert.ErrorIs(t, err, contract.ErrDetectorNotFound)
}
