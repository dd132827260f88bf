package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// FileSource serves results from a JSON bundle held in memory.
type FileSource struct {
	path   string
	bundle schema.ResultBundle
}

var _ contract.ResultSource = &FileSource{} // Compile-time check

// NewFileSource reads and decodes the bundle at path.
func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result bundle %q: %w", path, err)
	}
	bundle, err := DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result bundle %q: %w", path, err)
	}
	return &FileSource{path: path, bundle: bundle}, nil
}

// NewFileSourceFromBundle wraps an already decoded bundle. The bundle's
// result slices are sorted in place.
func NewFileSourceFromBundle(bundle schema.ResultBundle) *FileSource {
	sortBundle(&bundle)
	return &FileSource{bundle: bundle}
}

// DecodeBundle decodes a result bundle and orders its results by plot time.
func DecodeBundle(data []byte) (schema.ResultBundle, error) {
	var bundle schema.ResultBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return bundle, err
	}
	if bundle.Detector.ID == "" {
		return bundle, fmt.Errorf("bundle has no detector id")
	}
	sortBundle(&bundle)
	return bundle, nil
}

func sortBundle(bundle *schema.ResultBundle) {
	sort.SliceStable(bundle.Anomalies, func(i, j int) bool {
		return bundle.Anomalies[i].PlotTime < bundle.Anomalies[j].PlotTime
	})
	for name := range bundle.Features {
		rows := bundle.Features[name]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].PlotTime < rows[j].PlotTime })
	}
}

func (s *FileSource) checkDetector(id string) error {
	if id != "" && id != s.bundle.Detector.ID {
		return fmt.Errorf("%w: %s", contract.ErrDetectorNotFound, id)
	}
	return nil
}

// GetDetector returns the bundle's detector. An empty ID selects it too.
func (s *FileSource) GetDetector(_ context.Context, detectorID string) (schema.Detector, error) {
	if err := s.checkDetector(detectorID); err != nil {
		return schema.Detector{}, err
	}
	return s.bundle.Detector, nil
}

// GetAnomalies returns the anomalies inside the query range and entity filter.
func (s *FileSource) GetAnomalies(_ context.Context, q schema.ResultQuery) ([]schema.AnomalyResult, error) {
	if err := s.checkDetector(q.DetectorID); err != nil {
		return nil, err
	}
	var out []schema.AnomalyResult
	for _, r := range s.bundle.Anomalies {
		if q.Range.Contains(r.PlotTime) && r.Entity.Matches(q.Entities) {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetFeatureData returns the feature values inside the query range and entity filter.
func (s *FileSource) GetFeatureData(_ context.Context, q schema.ResultQuery, feature string) ([]schema.FeatureResult, error) {
	if err := s.checkDetector(q.DetectorID); err != nil {
		return nil, err
	}
	rows, ok := s.bundle.Features[feature]
	if !ok {
		return nil, fmt.Errorf("feature %q not found in bundle", feature)
	}
	var out []schema.FeatureResult
	for _, r := range rows {
		if q.Range.Contains(r.PlotTime) && r.Entity.Matches(q.Entities) {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetEntitySummaries aggregates anomalous results per entity into buckets.
func (s *FileSource) GetEntitySummaries(_ context.Context, q schema.ResultQuery, bucketWidth int64) ([]schema.EntitySummary, error) {
	if err := s.checkDetector(q.DetectorID); err != nil {
		return nil, err
	}
	if bucketWidth <= 0 {
		return nil, fmt.Errorf("bucket width must be positive, got %d", bucketWidth)
	}
	acc := newSummaryAccumulator(q.Range.StartDate, bucketWidth)
	for _, r := range s.bundle.Anomalies {
		if r.AnomalyGrade > 0 && q.Range.Contains(r.PlotTime) && r.Entity.Matches(q.Entities) {
			acc.add(r.Entity, r.PlotTime, r.AnomalyGrade, 1)
		}
	}
	return acc.result(), nil
}

// GetCategoryValues lists the values of field seen in the query range.
func (s *FileSource) GetCategoryValues(_ context.Context, q schema.ResultQuery, field string) ([]string, error) {
	if err := s.checkDetector(q.DetectorID); err != nil {
		return nil, err
	}
	var lists []schema.EntityList
	for _, r := range s.bundle.Anomalies {
		if q.Range.Contains(r.PlotTime) {
			lists = append(lists, r.Entity)
		}
	}
	return distinctFieldValues(lists, q.Entities, field), nil
}

// GetStatus summarizes the bundle.
func (s *FileSource) GetStatus(_ context.Context) (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:   string(schema.FileBackend),
		Connected: true,
		Detectors: 1,
		TableRows: map[string]int64{"anomaly_results": int64(len(s.bundle.Anomalies))},
	}
	var features int64
	for _, rows := range s.bundle.Features {
		features += int64(len(rows))
	}
	status.TableRows["feature_results"] = features

	if n := len(s.bundle.Anomalies); n > 0 {
		status.OldestPlotTime = time.UnixMilli(s.bundle.Anomalies[0].PlotTime).UTC()
		status.NewestPlotTime = time.UnixMilli(s.bundle.Anomalies[n-1].PlotTime).UTC()
	}
	return status, nil
}

// Close is a no-op for the file source.
func (s *FileSource) Close() error {
	return nil
}
