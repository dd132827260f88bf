package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteMissingResults outputs missing-data flags, dispatching based on the output format configured.
func WriteMissingResults(w io.Writer, result schema.MissingResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForMissing(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForMissing(csvWriter, result); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeMissingTable(w, result, cfg, duration)
	}
	return nil
}

func writeMissingTable(w io.Writer, result schema.MissingResult, cfg *contract.Config, duration time.Duration) error {
	missing, present := "Missing", "Present"
	if cfg.UseColors {
		missing = contract.HighColor.Sprint(missing)
		present = contract.NoneColor.Sprint(present)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Expected At", "Window End", "Status"})
	data := make([][]string, 0, len(result.Flags))
	for _, f := range result.Flags {
		status := present
		if f.IsMissing {
			status = missing
		}
		data = append(data, []string{contract.FormatMillis(f.PlotTime), contract.FormatMillis(f.EndTime), status})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	severity := string(result.MissingSeverity)
	if cfg.UseColors {
		severity = contract.GetMissingColorLabel(result.MissingSeverity)
	}
	if _, err := fmt.Fprintf(w, "%d of %d expected points missing for detector %s. Severity: %s\n", result.MissingCount, len(result.Flags), result.DetectorID, severity); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v. Source backend: %s\n", duration, cfg.SourceBackend)
	return err
}
