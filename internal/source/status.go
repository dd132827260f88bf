package source

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/adviz/schema"
)

// PrintSourceStatus prints result source status information.
func PrintSourceStatus(w io.Writer, status schema.SourceStatus) {
	_, _ = fmt.Fprintf(w, "Source Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Detectors: %d\n", status.Detectors)
	if !status.OldestPlotTime.IsZero() {
		_, _ = fmt.Fprintf(w, "Oldest Result: %s\n", status.OldestPlotTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Newest Result: %s\n", status.NewestPlotTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableRows))
	for table := range status.TableRows {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableRows[table])
	}
}
