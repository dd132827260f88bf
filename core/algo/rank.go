package algo

import (
	"sort"

	"github.com/huangsam/adviz/schema"
)

// RankRows sorts heatmap rows in descending order of peak severity or total
// occurrences and returns the top 'limit' rows. Equal rows keep their input
// order. If limit is greater than the number of rows, all rows are returned.
func RankRows(rows []schema.HeatmapRow, sortType schema.HeatmapSortType, limit int) []schema.HeatmapRow {
	switch sortType {
	case schema.SortByOccurrence:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].TotalCount > rows[j].TotalCount
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].MaxSeverity > rows[j].MaxSeverity
		})
	}
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// RankCombos orders combination series by their peak severity, highest first,
// and returns the top 'limit' of them.
func RankCombos(series []schema.ComboSeries, limit int) []schema.ComboSeries {
	sort.SliceStable(series, func(i, j int) bool {
		return peakSeverity(series[i].Points) > peakSeverity(series[j].Points)
	})
	if len(series) > limit {
		return series[:limit]
	}
	return series
}

func peakSeverity(s schema.Series) float64 {
	var peak float64
	for _, p := range s {
		peak = max(peak, p.Severity)
	}
	return peak
}
