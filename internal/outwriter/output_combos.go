package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteComboResults outputs expanded combinations, dispatching based on the output format configured.
func WriteComboResults(w io.Writer, result schema.ComboResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForCombos(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForCombos(csvWriter, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeComboTable(w, result, cfg, fmtFloat, duration)
	}
	return nil
}

func writeComboTable(w io.Writer, result schema.ComboResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	paint := severityPainter(cfg.UseColors)
	withSeries := len(result.Series) > 0

	headers := []string{"#", "Combination"}
	if withSeries {
		headers = append(headers, "Points", "Peak", "Label")
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)

	labelWidth := GetMaxLabelWidth(cfg, len(headers)-1)
	var data [][]string
	if withSeries {
		for i, s := range result.Series {
			peak := peakSeverity(severities(s.Points))
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncateLabel(s.Entities.Key(), labelWidth),
				fmt.Sprintf("%d/%d", len(s.Points), s.TotalPoints),
				fmtFloat(peak),
				paint(contract.GetSeverityLabel(peak), peak),
			})
		}
	} else {
		for i, combo := range result.Combos {
			data = append(data, []string{strconv.Itoa(i + 1), contract.TruncateLabel(combo.Key(), labelWidth)})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%d combinations for detector %s (limit %d)\n", result.Count, result.DetectorID, cfg.ComboLimit); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v with %d workers. Source backend: %s\n", duration, cfg.Workers, cfg.SourceBackend)
	return err
}

func severities(points schema.Series) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Severity
	}
	return out
}
