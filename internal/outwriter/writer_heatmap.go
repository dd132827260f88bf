package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/adviz/schema"
)

// writeJSONResultsForHeatmap marshals the schema.HeatmapResult to JSON and writes it.
func writeJSONResultsForHeatmap(w io.Writer, result schema.HeatmapResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForHeatmap writes one row per cell, row by row.
func writeCSVResultsForHeatmap(w *csv.Writer, result schema.HeatmapResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "entity", "label", "window_start", "window_end", "max_severity", "occurrence_count", "placeholder"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range result.Matrix.Rows {
		entity := row.Entities.Key()
		for _, c := range row.Cells {
			record := []string{
				strconv.Itoa(i + 1),
				entity,
				row.Label,
				strconv.FormatInt(c.Window.StartDate, 10),
				strconv.FormatInt(c.Window.EndDate, 10),
				fmtFloat(c.MaxSeverity),
				strconv.Itoa(c.OccurrenceCount),
				strconv.FormatBool(row.Placeholder),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}
