// Package schema has the data model shared by every part of adviz.
package schema

import "fmt"

// TimePoint is a single observation produced by the detection backend.
type TimePoint struct {
	Timestamp int64   `json:"timestamp"`          // Epoch milliseconds
	Value     float64 `json:"value"`              // Observed or derived value
	Severity  float64 `json:"severity,omitempty"` // Anomaly grade in [0,1], zero when not graded
}

// Series is an ordered sequence of points. It may be ascending or descending
// by timestamp depending on where it came from, and may contain duplicates.
type Series []TimePoint

// TimeWindow is the half-open interval [StartDate, EndDate) in epoch milliseconds.
type TimeWindow struct {
	StartDate int64 `json:"startDate"`
	EndDate   int64 `json:"endDate"`
}

// Validate rejects windows that end before they start.
func (w TimeWindow) Validate() error {
	if w.EndDate < w.StartDate {
		return fmt.Errorf("window end %d is before window start %d", w.EndDate, w.StartDate)
	}
	return nil
}

// Contains reports whether ts falls inside the window.
func (w TimeWindow) Contains(ts int64) bool {
	return ts >= w.StartDate && ts < w.EndDate
}

// Duration returns the window width in milliseconds.
func (w TimeWindow) Duration() int64 {
	return w.EndDate - w.StartDate
}

// Entity is one category-field name/value pair of a high-cardinality detector.
type Entity struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EntityList identifies one entity-level model. Order matches the detector's
// configured category fields.
type EntityList []Entity

// FieldValues holds the ordered candidate values of one category field.
type FieldValues struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// EntitySeries pairs an entity list with its raw points.
type EntitySeries struct {
	Entities EntityList `json:"entities"`
	Points   Series     `json:"points"`
}

// BucketSummary is one server-side aggregation bucket for an entity.
type BucketSummary struct {
	Key         int64   `json:"key"`         // Bucket start in epoch milliseconds
	MaxSeverity float64 `json:"maxSeverity"` // Max anomaly grade in the bucket
	Count       int     `json:"count"`       // Anomalous occurrences in the bucket
}

// EntitySummary is a pre-aggregated per-entity result.
type EntitySummary struct {
	Entities EntityList      `json:"entities"`
	Buckets  []BucketSummary `json:"buckets"`
}
