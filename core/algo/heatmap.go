package algo

import (
	"math"
	"sort"
	"strings"

	"github.com/huangsam/adviz/schema"
)

// Default heatmap dimensions.
const (
	DefaultNumCells = 20
	DefaultTopN     = 10
)

// HeatmapOptions configures the heatmap builders.
type HeatmapOptions struct {
	NumCells    int                    // Time columns
	TopN        int                    // Rows kept after sorting
	SortType    schema.HeatmapSortType // Empty means severity
	Placeholder bool                   // Fill an empty matrix with blank rows
}

func (o HeatmapOptions) validate() (schema.HeatmapSortType, error) {
	if o.NumCells <= 0 {
		return "", invalidf("numCells must be positive, got %d", o.NumCells)
	}
	if o.TopN <= 0 {
		return "", invalidf("topN must be positive, got %d", o.TopN)
	}
	sortType := o.SortType
	if sortType == "" {
		sortType = schema.SortBySeverity
	}
	if _, ok := schema.ValidSortTypes[sortType]; !ok {
		return "", invalidf("unknown heatmap sort type %q", o.SortType)
	}
	return sortType, nil
}

// heatmapBuilder accumulates rows keyed by entity list in first-seen order.
type heatmapBuilder struct {
	columns []schema.TimeWindow
	index   map[string]int
	rows    []schema.HeatmapRow
}

func newHeatmapBuilder(columns []schema.TimeWindow) *heatmapBuilder {
	return &heatmapBuilder{columns: columns, index: make(map[string]int)}
}

func (b *heatmapBuilder) row(entities schema.EntityList) *schema.HeatmapRow {
	key := entities.Key()
	if i, ok := b.index[key]; ok {
		return &b.rows[i]
	}
	owned := entities.Clone()
	cells := make([]schema.HeatmapCell, len(b.columns))
	for i, w := range b.columns {
		cells[i] = schema.HeatmapCell{Entities: owned, Window: w}
	}
	b.index[key] = len(b.rows)
	b.rows = append(b.rows, schema.HeatmapRow{Entities: owned, Label: owned.Label(), Cells: cells})
	return &b.rows[len(b.rows)-1]
}

// column returns the index of the column containing ts, or -1.
func (b *heatmapBuilder) column(ts int64) int {
	i := sort.Search(len(b.columns), func(i int) bool { return b.columns[i].EndDate > ts })
	if i < len(b.columns) && b.columns[i].Contains(ts) {
		return i
	}
	return -1
}

func (b *heatmapBuilder) add(row *schema.HeatmapRow, col int, severity float64, count int) {
	cell := &row.Cells[col]
	cell.MaxSeverity = max(cell.MaxSeverity, severity)
	cell.OccurrenceCount += count
	row.MaxSeverity = max(row.MaxSeverity, severity)
	row.TotalCount += count
}

func (b *heatmapBuilder) finish(sortType schema.HeatmapSortType, opts HeatmapOptions) schema.HeatmapMatrix {
	qualifying := make([]schema.HeatmapRow, 0, len(b.rows))
	for _, row := range b.rows {
		if row.TotalCount > 0 {
			qualifying = append(qualifying, row)
		}
	}
	m := schema.HeatmapMatrix{
		Columns:  b.columns,
		Rows:     RankRows(qualifying, sortType, opts.TopN),
		SortType: sortType,
	}
	if len(m.Rows) == 0 && opts.Placeholder {
		m.Rows = PlaceholderRows(b.columns, opts.TopN)
		m.Placeholder = true
	}
	return m
}

// BuildFromRawAnomalies builds the heatmap from raw per-entity points. A cell's
// severity is the highest severity of the points in its window and its count is
// the number of those points with severity above zero. Rows without any
// anomalous point in range are dropped.
func BuildFromRawAnomalies(rows []schema.EntitySeries, r schema.TimeWindow, opts HeatmapOptions) (schema.HeatmapMatrix, error) {
	sortType, err := opts.validate()
	if err != nil {
		return schema.HeatmapMatrix{}, err
	}
	columns, err := PartitionWindows(opts.NumCells, r)
	if err != nil {
		return schema.HeatmapMatrix{}, err
	}

	b := newHeatmapBuilder(columns)
	for _, es := range rows {
		row := b.row(es.Entities)
		for _, p := range es.Points {
			if err := checkSeverity(p.Severity); err != nil {
				return schema.HeatmapMatrix{}, err
			}
			col := b.column(p.Timestamp)
			if col < 0 {
				continue
			}
			count := 0
			if p.Severity > 0 {
				count = 1
			}
			b.add(row, col, p.Severity, count)
		}
	}
	return b.finish(sortType, opts), nil
}

// BuildFromPrecomputedSummaries builds the heatmap from server-side bucket
// summaries. Each bucket lands in the column containing its key; counts add up
// and severities take the maximum.
func BuildFromPrecomputedSummaries(rows []schema.EntitySummary, r schema.TimeWindow, opts HeatmapOptions) (schema.HeatmapMatrix, error) {
	sortType, err := opts.validate()
	if err != nil {
		return schema.HeatmapMatrix{}, err
	}
	columns, err := PartitionWindows(opts.NumCells, r)
	if err != nil {
		return schema.HeatmapMatrix{}, err
	}

	b := newHeatmapBuilder(columns)
	for _, es := range rows {
		row := b.row(es.Entities)
		for _, bucket := range es.Buckets {
			if err := checkSeverity(bucket.MaxSeverity); err != nil {
				return schema.HeatmapMatrix{}, err
			}
			if bucket.Count < 0 {
				return schema.HeatmapMatrix{}, invalidf("bucket count must not be negative, got %d", bucket.Count)
			}
			col := b.column(bucket.Key)
			if col < 0 {
				continue
			}
			b.add(row, col, bucket.MaxSeverity, bucket.Count)
		}
	}
	return b.finish(sortType, opts), nil
}

// PlaceholderRows returns n blank rows with distinct whitespace labels so a
// chart never receives a matrix without a row axis.
func PlaceholderRows(columns []schema.TimeWindow, n int) []schema.HeatmapRow {
	rows := make([]schema.HeatmapRow, n)
	for i := range rows {
		cells := make([]schema.HeatmapCell, len(columns))
		for j, w := range columns {
			cells[j] = schema.HeatmapCell{Window: w}
		}
		rows[i] = schema.HeatmapRow{
			Label:       strings.Repeat(" ", i+1),
			Cells:       cells,
			Placeholder: true,
		}
	}
	return rows
}

func checkSeverity(s float64) error {
	if math.IsNaN(s) || s < 0 || s > 1 {
		return invalidf("severity must be within [0,1], got %v", s)
	}
	return nil
}
