package schema

// HeatmapCell summarizes one (entity row, time column) pair.
type HeatmapCell struct {
	Entities        EntityList `json:"-"` // Shared with the owning row
	Window          TimeWindow `json:"window"`
	MaxSeverity     float64    `json:"maxSeverity"`
	OccurrenceCount int        `json:"occurrenceCount"`
}

// HeatmapRow is one entity row of the heatmap.
type HeatmapRow struct {
	Entities    EntityList    `json:"entities"`
	Label       string        `json:"label"`
	Cells       []HeatmapCell `json:"cells"`
	MaxSeverity float64       `json:"maxSeverity"`
	TotalCount  int           `json:"totalCount"`
	Placeholder bool          `json:"placeholder,omitempty"`
}

// HeatmapMatrix is the (entity row × time column) matrix handed to a chart.
type HeatmapMatrix struct {
	Columns     []TimeWindow    `json:"columns"`
	Rows        []HeatmapRow    `json:"rows"`
	SortType    HeatmapSortType `json:"sortType"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

// Cells flattens the matrix row by row.
func (m HeatmapMatrix) Cells() []HeatmapCell {
	cells := make([]HeatmapCell, 0, len(m.Rows)*len(m.Columns))
	for _, row := range m.Rows {
		cells = append(cells, row.Cells...)
	}
	return cells
}

// HeatmapResult is the heatmap payload with request context.
type HeatmapResult struct {
	DetectorID  string        `json:"detectorId"`
	Range       TimeWindow    `json:"range"`
	Precomputed bool          `json:"precomputed"`
	Matrix      HeatmapMatrix `json:"matrix"`
}
