// Package source serves raw detector results to the pipeline from a JSON
// bundle on disk or from SQL tables holding replayed backend results.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// New opens the result source selected by the configuration.
func New(cfg *contract.Config) (contract.ResultSource, error) {
	switch cfg.SourceBackend {
	case schema.FileBackend, "":
		if cfg.InputFile == "" {
			return nil, fmt.Errorf("--input is required when using the %s backend", schema.FileBackend)
		}
		return NewFileSource(cfg.InputFile)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLSource(cfg.SourceBackend, cfg.SourceConnect)
	default:
		return nil, fmt.Errorf("unsupported source backend: %s. Must be file, sqlite, mysql, or postgresql", cfg.SourceBackend)
	}
}

// GetSourceDBFilePath returns the default path of the SQLite result database.
func GetSourceDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".adviz.db"
	}
	return filepath.Join(homeDir, ".adviz.db")
}

// summaryAccumulator folds anomalous results into per-entity buckets the way
// the backend aggregation does: max grade and count of graded results.
type summaryAccumulator struct {
	start, width int64
	index        map[string]int
	rows         []schema.EntitySummary
	buckets      []map[int64]int
}

func newSummaryAccumulator(start, width int64) *summaryAccumulator {
	return &summaryAccumulator{start: start, width: width, index: make(map[string]int)}
}

func (a *summaryAccumulator) add(entities schema.EntityList, plotTime int64, grade float64, count int) {
	key := entities.Key()
	i, ok := a.index[key]
	if !ok {
		i = len(a.rows)
		a.index[key] = i
		a.rows = append(a.rows, schema.EntitySummary{Entities: entities.Clone()})
		a.buckets = append(a.buckets, make(map[int64]int))
	}
	bucketKey := a.start + (plotTime-a.start)/a.width*a.width
	j, ok := a.buckets[i][bucketKey]
	if !ok {
		j = len(a.rows[i].Buckets)
		a.buckets[i][bucketKey] = j
		a.rows[i].Buckets = append(a.rows[i].Buckets, schema.BucketSummary{Key: bucketKey})
	}
	b := &a.rows[i].Buckets[j]
	b.MaxSeverity = max(b.MaxSeverity, grade)
	b.Count += count
}

func (a *summaryAccumulator) result() []schema.EntitySummary {
	for i := range a.rows {
		sort.Slice(a.rows[i].Buckets, func(x, y int) bool {
			return a.rows[i].Buckets[x].Key < a.rows[i].Buckets[y].Key
		})
	}
	return a.rows
}

// distinctFieldValues collects the values of field among entity lists matching
// filter, sorted for stable output.
func distinctFieldValues(lists []schema.EntityList, filter schema.EntityList, field string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, l := range lists {
		if !l.Matches(filter) {
			continue
		}
		for _, e := range l {
			if e.Name != field {
				continue
			}
			if _, ok := seen[e.Value]; !ok {
				seen[e.Value] = struct{}{}
				values = append(values, e.Value)
			}
		}
	}
	sort.Strings(values)
	return values
}
