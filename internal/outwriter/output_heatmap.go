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
	"github.com/olekukonko/tablewriter/tw"
)

// emptyCell marks a cell without anomalies in text output.
const emptyCell = "·"

// WriteHeatmapResults outputs a heatmap, dispatching based on the output format configured.
func WriteHeatmapResults(w io.Writer, result schema.HeatmapResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForHeatmap(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForHeatmap(csvWriter, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeHeatmapTable(w, result, cfg, fmtFloat, duration)
	}
	return nil
}

// columnLayout picks a time layout short enough for a heatmap column header.
func columnLayout(r schema.TimeWindow) string {
	if r.Duration() > schema.OneDayMillis {
		return "01-02 15:04"
	}
	return "15:04"
}

// writeHeatmapTable renders rows as entities and columns as time windows. Cells
// show the max grade, or the occurrence count when sorting by occurrence.
func writeHeatmapTable(w io.Writer, result schema.HeatmapResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	m := result.Matrix
	paint := severityPainter(cfg.UseColors)
	layout := columnLayout(result.Range)
	labelWidth := GetMaxLabelWidth(cfg, len(m.Columns))

	headers := make([]string, 0, len(m.Columns)+1)
	headers = append(headers, "Entity")
	for _, c := range m.Columns {
		headers = append(headers, time.UnixMilli(c.StartDate).UTC().Format(layout))
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		// Column headers are clock times; auto-format would split them at ':'
		cfg.Header.Formatting.AutoFormat = tw.Off
	})

	data := make([][]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, contract.TruncateLabel(row.Label, labelWidth))
		for _, c := range row.Cells {
			line = append(line, formatHeatmapCell(c, m.SortType, fmtFloat, paint))
		}
		data = append(data, line)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	source := "raw results"
	if result.Precomputed {
		source = "precomputed summaries"
	}
	if m.Placeholder {
		if _, err := fmt.Fprintf(w, "No anomalies found for detector %s in range\n", result.DetectorID); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "Showing top %d entities by %s across %d windows from %s\n", len(m.Rows), m.SortType, len(m.Columns), source); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Completed in %v with %d workers. Source backend: %s\n", duration, cfg.Workers, cfg.SourceBackend)
	return err
}

func formatHeatmapCell(c schema.HeatmapCell, sortType schema.HeatmapSortType, fmtFloat func(float64) string, paint func(string, float64) string) string {
	if c.OccurrenceCount == 0 && c.MaxSeverity == 0 {
		return emptyCell
	}
	if sortType == schema.SortByOccurrence {
		return paint(strconv.Itoa(c.OccurrenceCount), c.MaxSeverity)
	}
	return paint(fmtFloat(c.MaxSeverity), c.MaxSeverity)
}
