package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// writeJSONResultsForSeries marshals the schema.SeriesResult to JSON and writes it.
func writeJSONResultsForSeries(w io.Writer, result schema.SeriesResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForSeries writes one row per downsampled point.
func writeCSVResultsForSeries(w *csv.Writer, result schema.SeriesResult, fmtFloat func(float64) string) error {
	header := []string{"detector_id", "entity", "feature", "timestamp", "value", "severity", "label"}
	if err := w.Write(header); err != nil {
		return err
	}
	entity := result.Entities.Key()
	for _, p := range result.Points {
		row := []string{
			result.DetectorID,
			entity,
			result.Feature,
			strconv.FormatInt(p.Timestamp, 10),
			fmtFloat(p.Value),
			fmtFloat(p.Severity),
			contract.GetSeverityLabel(p.Severity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
