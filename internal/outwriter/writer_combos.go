package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/adviz/schema"
)

// writeJSONResultsForCombos marshals the schema.ComboResult to JSON and writes it.
func writeJSONResultsForCombos(w io.Writer, result schema.ComboResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForCombos writes one row per combination. Series columns
// are left empty when the combinations were not fetched.
func writeCSVResultsForCombos(w *csv.Writer, result schema.ComboResult, fmtFloat func(float64) string) error {
	if err := w.Write([]string{"index", "entity", "label", "points", "total_points", "peak_severity"}); err != nil {
		return err
	}
	series := make(map[string]schema.ComboSeries, len(result.Series))
	for _, s := range result.Series {
		series[s.Entities.Key()] = s
	}
	for i, combo := range result.Combos {
		row := []string{strconv.Itoa(i + 1), combo.Key(), combo.Label(), "", "", ""}
		if s, ok := series[combo.Key()]; ok {
			row[3] = strconv.Itoa(len(s.Points))
			row[4] = strconv.Itoa(s.TotalPoints)
			row[5] = fmtFloat(peakSeverity(severities(s.Points)))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
