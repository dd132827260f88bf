package schema

import "time"

// SourceStatus represents the status of a result source.
type SourceStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	Detectors      int              `json:"detectors"`
	TableRows      map[string]int64 `json:"table_rows"`
	OldestPlotTime time.Time        `json:"oldest_plot_time"`
	NewestPlotTime time.Time        `json:"newest_plot_time"`
}
