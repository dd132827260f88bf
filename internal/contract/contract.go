// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/adviz/schema"
)

// ErrDetectorNotFound is returned when a source has no detector with the requested ID.
var ErrDetectorNotFound = errors.New("detector not found")

// ResultSource defines the read operations against the backend holding raw
// detector results. This allows the pipeline to be tested without a database.
type ResultSource interface {
	// GetDetector returns the detector metadata for the given ID.
	GetDetector(ctx context.Context, detectorID string) (schema.Detector, error)

	// GetAnomalies returns raw anomaly results in the query range, ordered by plot time.
	GetAnomalies(ctx context.Context, q schema.ResultQuery) ([]schema.AnomalyResult, error)

	// GetFeatureData returns raw feature values in the query range, ordered by plot time.
	GetFeatureData(ctx context.Context, q schema.ResultQuery, feature string) ([]schema.FeatureResult, error)

	// GetEntitySummaries returns per-entity anomaly buckets of the given width,
	// aggregated by the backend. Buckets start at the query range start.
	GetEntitySummaries(ctx context.Context, q schema.ResultQuery, bucketWidth int64) ([]schema.EntitySummary, error)

	// GetCategoryValues lists the distinct values of a category field among the
	// results matching the query's entity filter.
	GetCategoryValues(ctx context.Context, q schema.ResultQuery, field string) ([]string, error)

	// GetStatus returns status information about the source.
	GetStatus(ctx context.Context) (schema.SourceStatus, error)

	// Close closes the underlying connection.
	Close() error
}
