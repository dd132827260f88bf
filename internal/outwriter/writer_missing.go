package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/adviz/schema"
)

// writeJSONResultsForMissing marshals the schema.MissingResult to JSON and writes it.
func writeJSONResultsForMissing(w io.Writer, result schema.MissingResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForMissing writes one row per expected tick.
func writeCSVResultsForMissing(w *csv.Writer, result schema.MissingResult) error {
	if err := w.Write([]string{"detector_id", "plot_time", "start_time", "end_time", "is_missing"}); err != nil {
		return err
	}
	for _, f := range result.Flags {
		row := []string{
			result.DetectorID,
			strconv.FormatInt(f.PlotTime, 10),
			strconv.FormatInt(f.StartTime, 10),
			strconv.FormatInt(f.EndTime, 10),
			strconv.FormatBool(f.IsMissing),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
