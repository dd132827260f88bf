package algo

import (
	"testing"

	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankRows(t *testing.T) {
	rows := func() []schema.HeatmapRow {
		return []schema.HeatmapRow{
			{Label: "low", MaxSeverity: 0.1, TotalCount: 9},
			{Label: "high", MaxSeverity: 0.9, TotalCount: 1},
			{Label: "mid", MaxSeverity: 0.5, TotalCount: 5},
			{Label: "mid2", MaxSeverity: 0.5, TotalCount: 5},
		}
	}
	labels := func(rs []schema.HeatmapRow) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Label
		}
		return out
	}

	tests := []struct {
		name     string
		sortType schema.HeatmapSortType
		limit    int
		want     []string
	}{
		{"severity", schema.SortBySeverity, 10, []string{"high", "mid", "mid2", "low"}},
		{"severity top two", schema.SortBySeverity, 2, []string{"high", "mid"}},
		{"occurrence", schema.SortByOccurrence, 10, []string{"low", "mid", "mid2", "high"}},
		{"occurrence top one", schema.SortByOccurrence, 1, []string{"low"}},
		{"unknown falls back to severity", "", 3, []string{"high", "mid", "mid2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labels(RankRows(rows(), tt.sortType, tt.limit)))
		})
	}
}

func TestRankCombos(t *testing.T) {
	series := []schema.ComboSeries{
		{Entities: entityA, Points: schema.Series{point(1, 0.2)}},
		{Entities: entityB, Points: schema.Series{point(1, 0.1), point(2, 0.7)}},
		{Entities: entityC},
	}
	got := RankCombos(series, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, entityB, got[0].Entities)
	assert.Equal(t, entityA, got[1].Entities)
}
