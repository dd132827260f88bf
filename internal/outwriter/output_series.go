package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSeriesResults outputs a series result, dispatching based on the output format configured.
func WriteSeriesResults(w io.Writer, result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForSeries(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForSeries(csvWriter, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeSeriesTable(w, result, cfg, fmtFloat, duration)
	}
	return nil
}

// writeSeriesTable prints the downsampled points, then any missing-data annotations.
func writeSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	paint := severityPainter(cfg.UseColors)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Time", "Value", "Severity"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Points))
	for _, p := range result.Points {
		data = append(data, []string{
			contract.FormatMillis(p.Timestamp),
			fmtFloat(p.Value),
			paint(contract.GetSeverityLabel(p.Severity), p.Severity),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(result.Annotations) > 0 {
		annotations := tablewriter.NewWriter(w)
		annotations.Header([]string{"Missing From", "Missing To", "Count", "Detail"})
		rows := make([][]string, 0, len(result.Annotations))
		for _, a := range result.Annotations {
			rows = append(rows, []string{
				contract.FormatMillis(a.StartTime),
				contract.FormatMillis(a.EndTime),
				fmt.Sprintf("%d", a.MissingCount),
				a.DetailText,
			})
		}
		if err := annotations.Bulk(rows); err != nil {
			return err
		}
		if err := annotations.Render(); err != nil {
			return err
		}
	}

	subject := "anomaly grade"
	if result.Feature != "" {
		subject = "feature " + result.Feature
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d points of %s for detector %s\n", len(result.Points), result.TotalPoints, subject, result.DetectorID); err != nil {
		return err
	}
	if len(result.Entities) > 0 {
		if _, err := fmt.Fprintf(w, "Entity: %s\n", result.Entities.Key()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Missing data: %s (%d annotations)\n", result.MissingSeverity, len(result.Annotations)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v with %d workers. Source backend: %s\n", duration, cfg.Workers, cfg.SourceBackend)
	return err
}
