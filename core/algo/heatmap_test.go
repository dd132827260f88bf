package algo

import (
	"math"
	"testing"

	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	entityA   = schema.EntityList{{Name: "host", Value: "a"}}
	entityB   = schema.EntityList{{Name: "host", Value: "b"}}
	entityC   = schema.EntityList{{Name: "host", Value: "c"}}
	testRange = schema.TimeWindow{StartDate: 0, EndDate: 40 * minute} // four 10 minute columns
)

func point(m int64, severity float64) schema.TimePoint {
	return schema.TimePoint{Timestamp: m * minute, Value: severity, Severity: severity}
}

func TestBuildFromRawAnomaliesSortScenario(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityA, Points: schema.Series{point(25, 0.9)}}, // column 2
		{Entities: entityB, Points: schema.Series{point(5, 0.3)}},  // column 0
	}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 1, SortType: schema.SortBySeverity})
	require.NoError(t, err)
	require.Len(t, m.Columns, 4)
	require.Len(t, m.Rows, 1)

	row := m.Rows[0]
	assert.Equal(t, entityA, row.Entities)
	assert.Equal(t, "a", row.Label)
	assert.InDelta(t, 0.9, row.MaxSeverity, 1e-9)
	require.Len(t, row.Cells, 4)
	assert.InDelta(t, 0.9, row.Cells[2].MaxSeverity, 1e-9)
	assert.Equal(t, 1, row.Cells[2].OccurrenceCount)
	assert.Zero(t, row.Cells[0].MaxSeverity)
	assert.Equal(t, m.Columns[2], row.Cells[2].Window)
	assert.Equal(t, entityA, row.Cells[2].Entities)
	assert.False(t, m.Placeholder)
}

func TestBuildFromRawAnomaliesCells(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityA, Points: schema.Series{
			point(1, 0.2),
			point(2, 0.6),
			point(3, 0),
			point(12, 0.4),
			point(45, 1.0),  // outside range
			point(-1, 0.99), // outside range
		}},
	}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 5})
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, schema.SortBySeverity, m.SortType)

	cells := m.Rows[0].Cells
	assert.InDelta(t, 0.6, cells[0].MaxSeverity, 1e-9)
	assert.Equal(t, 2, cells[0].OccurrenceCount) // zero severity does not count
	assert.InDelta(t, 0.4, cells[1].MaxSeverity, 1e-9)
	assert.Equal(t, 1, cells[1].OccurrenceCount)
	assert.Equal(t, 3, m.Rows[0].TotalCount)
	assert.InDelta(t, 0.6, m.Rows[0].MaxSeverity, 1e-9)
}

func TestBuildFromRawAnomaliesMergesDuplicateEntities(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityA, Points: schema.Series{point(1, 0.2)}},
		{Entities: entityB, Points: schema.Series{point(1, 0.1)}},
		{Entities: entityA, Points: schema.Series{point(2, 0.5)}},
	}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 2, TopN: 5})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, entityA, m.Rows[0].Entities)
	assert.Equal(t, 2, m.Rows[0].TotalCount)
	assert.InDelta(t, 0.5, m.Rows[0].MaxSeverity, 1e-9)
}

func TestBuildFromRawAnomaliesSortByOccurrence(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityA, Points: schema.Series{point(1, 0.9)}},
		{Entities: entityB, Points: schema.Series{point(1, 0.1), point(2, 0.1), point(3, 0.1)}},
		{Entities: entityC, Points: schema.Series{point(1, 0.2), point(30, 0.2)}},
	}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 2, SortType: schema.SortByOccurrence})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, entityB, m.Rows[0].Entities)
	assert.Equal(t, entityC, m.Rows[1].Entities)
	assert.Equal(t, schema.SortByOccurrence, m.SortType)
}

func TestBuildFromRawAnomaliesStableTies(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityC, Points: schema.Series{point(1, 0.5)}},
		{Entities: entityA, Points: schema.Series{point(1, 0.5)}},
		{Entities: entityB, Points: schema.Series{point(1, 0.5)}},
	}
	for range 10 {
		m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 3})
		require.NoError(t, err)
		require.Len(t, m.Rows, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{m.Rows[0].Label, m.Rows[1].Label, m.Rows[2].Label})
	}
}

func TestBuildFromRawAnomaliesDropsQuietRows(t *testing.T) {
	rows := []schema.EntitySeries{
		{Entities: entityA, Points: schema.Series{point(1, 0), point(2, 0)}},
		{Entities: entityB},
	}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 3})
	require.NoError(t, err)
	assert.Empty(t, m.Rows)
	assert.False(t, m.Placeholder)
}

func TestBuildFromRawAnomaliesPlaceholder(t *testing.T) {
	m, err := BuildFromRawAnomalies(nil, testRange, HeatmapOptions{NumCells: 4, TopN: 3, Placeholder: true})
	require.NoError(t, err)
	assert.True(t, m.Placeholder)
	require.Len(t, m.Rows, 3)

	labels := make(map[string]struct{})
	for _, row := range m.Rows {
		assert.True(t, row.Placeholder)
		assert.Empty(t, row.Entities)
		require.Len(t, row.Cells, 4)
		for _, cell := range row.Cells {
			assert.Zero(t, cell.MaxSeverity)
			assert.Zero(t, cell.OccurrenceCount)
		}
		labels[row.Label] = struct{}{}
	}
	assert.Len(t, labels, 3, "placeholder labels must be distinct")
	assert.Equal(t, " ", m.Rows[0].Label)
	assert.Equal(t, "   ", m.Rows[2].Label)
}

func TestBuildFromRawAnomaliesPlaceholderOnlyWhenEmpty(t *testing.T) {
	rows := []schema.EntitySeries{{Entities: entityA, Points: schema.Series{point(1, 0.4)}}}
	m, err := BuildFromRawAnomalies(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 3, Placeholder: true})
	require.NoError(t, err)
	assert.False(t, m.Placeholder)
	require.Len(t, m.Rows, 1)
	assert.False(t, m.Rows[0].Placeholder)
}

func TestBuildFromRawAnomaliesErrors(t *testing.T) {
	good := []schema.EntitySeries{{Entities: entityA, Points: schema.Series{point(1, 0.5)}}}
	tests := []struct {
		name string
		rows []schema.EntitySeries
		r    schema.TimeWindow
		opts HeatmapOptions
	}{
		{"zero cells", good, testRange, HeatmapOptions{TopN: 1}},
		{"zero top", good, testRange, HeatmapOptions{NumCells: 4}},
		{"bad sort", good, testRange, HeatmapOptions{NumCells: 4, TopN: 1, SortType: "alphabetical"}},
		{"inverted range", good, schema.TimeWindow{StartDate: 10, EndDate: 0}, HeatmapOptions{NumCells: 4, TopN: 1}},
		{"severity above one", []schema.EntitySeries{{Entities: entityA, Points: schema.Series{point(1, 1.5)}}}, testRange, HeatmapOptions{NumCells: 4, TopN: 1}},
		{"negative severity", []schema.EntitySeries{{Entities: entityA, Points: schema.Series{point(1, -0.1)}}}, testRange, HeatmapOptions{NumCells: 4, TopN: 1}},
		{"nan severity", []schema.EntitySeries{{Entities: entityA, Points: schema.Series{point(1, math.NaN())}}}, testRange, HeatmapOptions{NumCells: 4, TopN: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFromRawAnomalies(tt.rows, tt.r, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestBuildFromPrecomputedSummaries(t *testing.T) {
	rows := []schema.EntitySummary{
		{Entities: entityA, Buckets: []schema.BucketSummary{
			{Key: 0, MaxSeverity: 0.3, Count: 2},
			{Key: 5 * minute, MaxSeverity: 0.5, Count: 1}, // same column as key 0
			{Key: 30 * minute, MaxSeverity: 0.2, Count: 4},
		}},
		{Entities: entityB, Buckets: []schema.BucketSummary{
			{Key: 20 * minute, MaxSeverity: 0.8, Count: 1},
			{Key: 50 * minute, MaxSeverity: 1.0, Count: 9}, // outside range
		}},
		{Entities: entityC, Buckets: []schema.BucketSummary{{Key: 10 * minute, MaxSeverity: 0, Count: 0}}},
	}

	m, err := BuildFromPrecomputedSummaries(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 10})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)

	assert.Equal(t, entityB, m.Rows[0].Entities)
	assert.InDelta(t, 0.8, m.Rows[0].Cells[2].MaxSeverity, 1e-9)
	assert.Equal(t, 1, m.Rows[0].TotalCount)

	a := m.Rows[1]
	assert.InDelta(t, 0.5, a.Cells[0].MaxSeverity, 1e-9)
	assert.Equal(t, 3, a.Cells[0].OccurrenceCount)
	assert.Equal(t, 4, a.Cells[3].OccurrenceCount)
	assert.Equal(t, 7, a.TotalCount)

	m, err = BuildFromPrecomputedSummaries(rows, testRange, HeatmapOptions{NumCells: 4, TopN: 1, SortType: schema.SortByOccurrence})
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, entityA, m.Rows[0].Entities)
}

func TestBuildFromPrecomputedSummariesErrorsAndPlaceholder(t *testing.T) {
	bad := []schema.EntitySummary{{Entities: entityA, Buckets: []schema.BucketSummary{{Key: 0, MaxSeverity: 0.5, Count: -1}}}}
	_, err := BuildFromPrecomputedSummaries(bad, testRange, HeatmapOptions{NumCells: 4, TopN: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	bad[0].Buckets[0] = schema.BucketSummary{Key: 0, MaxSeverity: 2, Count: 1}
	_, err = BuildFromPrecomputedSummaries(bad, testRange, HeatmapOptions{NumCells: 4, TopN: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	m, err := BuildFromPrecomputedSummaries(nil, testRange, HeatmapOptions{NumCells: 4, TopN: 2, Placeholder: true})
	require.NoError(t, err)
	assert.True(t, m.Placeholder)
	assert.Len(t, m.Rows, 2)
}

func TestHeatmapRowsHaveEveryColumn(t *testing.T) {
	r := schema.TimeWindow{StartDate: 1_700_000_000_000, EndDate: 1_700_000_000_000 + schema.OneDayMillis}
	var rows []schema.EntitySeries
	for i := range 30 {
		es := schema.EntitySeries{Entities: schema.EntityList{{Name: "host", Value: string(rune('a' + i%26)) + string(rune('0'+i/26))}}}
		for j := range 50 {
			es.Points = append(es.Points, schema.TimePoint{
				Timestamp: r.StartDate + int64(j)*30*minute,
				Severity:  float64((i*j)%10) / 10,
			})
		}
		rows = append(rows, es)
	}
	m, err := BuildFromRawAnomalies(rows, r, HeatmapOptions{NumCells: DefaultNumCells, TopN: DefaultTopN})
	require.NoError(t, err)
	require.Len(t, m.Columns, DefaultNumCells)
	assert.Len(t, m.Rows, DefaultTopN)
	for _, row := range m.Rows {
		assert.Len(t, row.Cells, DefaultNumCells)
		for _, cell := range row.Cells {
			assert.GreaterOrEqual(t, cell.MaxSeverity, 0.0)
			assert.LessOrEqual(t, cell.MaxSeverity, 1.0)
		}
	}
	for i := 1; i < len(m.Rows); i++ {
		assert.GreaterOrEqual(t, m.Rows[i-1].MaxSeverity, m.Rows[i].MaxSeverity)
	}
}
