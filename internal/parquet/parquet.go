// Package parquet provides record types and writers for exporting chart
// payloads to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/adviz/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one downsampled chart point. Multi-entity exports carry the
// entity key so rows of different series can be told apart.
type SeriesPoint struct {
	// DetectorID identifies the detector the point belongs to
	DetectorID string `parquet:"detector_id,snappy"`

	// EntityKey is the canonical entity list key (nullable for single-stream detectors)
	EntityKey *string `parquet:"entity_key,optional,snappy"`

	// Feature is the feature name, or nil for anomaly grade series
	Feature *string `parquet:"feature,optional,snappy"`

	// PlotTime is the point timestamp (stored as TIMESTAMP)
	PlotTime time.Time `parquet:"plot_time,snappy"`

	// Value is the plotted value
	Value float64 `parquet:"value,snappy"`

	// Severity is the anomaly grade used for downsampling
	Severity float64 `parquet:"severity,snappy"`
}

// MissingFlag is one expected interval tick and whether its data arrived.
type MissingFlag struct {
	DetectorID string    `parquet:"detector_id,snappy"`
	PlotTime   time.Time `parquet:"plot_time,snappy"`
	StartTime  time.Time `parquet:"start_time,snappy"`
	EndTime    time.Time `parquet:"end_time,snappy"`
	IsMissing  bool      `parquet:"is_missing,snappy"`
}

// HeatmapCell is one (entity row, time column) cell of a heatmap.
type HeatmapCell struct {
	// DetectorID identifies the detector the heatmap was built for
	DetectorID string `parquet:"detector_id,snappy"`

	// RowIndex is the rank of the row after sorting and truncation
	RowIndex int32 `parquet:"row_index,snappy"`

	// RowLabel is the display label of the row
	RowLabel string `parquet:"row_label,snappy"`

	// EntityKey is nil for placeholder rows
	EntityKey *string `parquet:"entity_key,optional,snappy"`

	// WindowStart and WindowEnd bound the cell's column
	WindowStart time.Time `parquet:"window_start,snappy"`
	WindowEnd   time.Time `parquet:"window_end,snappy"`

	// MaxSeverity is the highest anomaly grade seen in the cell
	MaxSeverity float64 `parquet:"max_severity,snappy"`

	// OccurrenceCount is the number of anomalous results in the cell
	OccurrenceCount int32 `parquet:"occurrence_count,snappy"`
}

// SeriesPointsFromResult flattens a series result into records.
func SeriesPointsFromResult(result schema.SeriesResult) []SeriesPoint {
	return appendSeriesPoints(nil, result.DetectorID, result.Feature, result.Entities, result.Points)
}

// SeriesPointsFromCombos flattens every per-combination series into records.
func SeriesPointsFromCombos(result schema.ComboResult) []SeriesPoint {
	var out []SeriesPoint
	for _, s := range result.Series {
		out = appendSeriesPoints(out, result.DetectorID, "", s.Entities, s.Points)
	}
	return out
}

func appendSeriesPoints(out []SeriesPoint, detectorID, feature string, entities schema.EntityList, points schema.Series) []SeriesPoint {
	entityKey := optionalString(entities.Key())
	featureName := optionalString(feature)
	for _, p := range points {
		out = append(out, SeriesPoint{
			DetectorID: detectorID,
			EntityKey:  entityKey,
			Feature:    featureName,
			PlotTime:   millisToTime(p.Timestamp),
			Value:      p.Value,
			Severity:   p.Severity,
		})
	}
	return out
}

// MissingFlagsFromResult converts missing flags into records.
func MissingFlagsFromResult(result schema.MissingResult) []MissingFlag {
	out := make([]MissingFlag, 0, len(result.Flags))
	for _, f := range result.Flags {
		out = append(out, MissingFlag{
			DetectorID: result.DetectorID,
			PlotTime:   millisToTime(f.PlotTime),
			StartTime:  millisToTime(f.StartTime),
			EndTime:    millisToTime(f.EndTime),
			IsMissing:  f.IsMissing,
		})
	}
	return out
}

// HeatmapCellsFromResult flattens a heatmap matrix row by row.
func HeatmapCellsFromResult(result schema.HeatmapResult) []HeatmapCell {
	var out []HeatmapCell
	for i, row := range result.Matrix.Rows {
		var entityKey *string
		if !row.Placeholder {
			entityKey = optionalString(row.Entities.Key())
		}
		for _, c := range row.Cells {
			out = append(out, HeatmapCell{
				DetectorID:      result.DetectorID,
				RowIndex:        int32(i),
				RowLabel:        row.Label,
				EntityKey:       entityKey,
				WindowStart:     millisToTime(c.Window.StartDate),
				WindowEnd:       millisToTime(c.Window.EndDate),
				MaxSeverity:     c.MaxSeverity,
				OccurrenceCount: int32(c.OccurrenceCount),
			})
		}
	}
	return out
}

// WriteSeriesPointsParquet writes series point records to a Parquet file.
func WriteSeriesPointsParquet(data []SeriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMissingFlagsParquet writes missing flag records to a Parquet file.
func WriteMissingFlagsParquet(data []MissingFlag, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteHeatmapCellsParquet writes heatmap cell records to a Parquet file.
func WriteHeatmapCellsParquet(data []HeatmapCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes the rows with a schema inferred
// from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
