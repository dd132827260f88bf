package algo

import "github.com/huangsam/adviz/schema"

// GroupByEntity turns raw anomaly results into one series per entity list.
// Groups appear in first-seen order and points keep their input order.
func GroupByEntity(results []schema.AnomalyResult) []schema.EntitySeries {
	index := make(map[string]int)
	var groups []schema.EntitySeries
	for _, r := range results {
		key := r.Entity.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, schema.EntitySeries{Entities: r.Entity.Clone()})
		}
		groups[i].Points = append(groups[i].Points, r.ToPoint())
	}
	return groups
}

// AnomalySeries converts anomaly results into a single series.
func AnomalySeries(results []schema.AnomalyResult) schema.Series {
	s := make(schema.Series, len(results))
	for i, r := range results {
		s[i] = r.ToPoint()
	}
	return s
}

// FeatureSeries converts feature results into a single series.
func FeatureSeries(results []schema.FeatureResult) schema.Series {
	s := make(schema.Series, len(results))
	for i, r := range results {
		s[i] = r.ToPoint()
	}
	return s
}
