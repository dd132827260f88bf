package core

import (
	"context"
	"fmt"

	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

func heatmapOptions(cfg *contract.Config) algo.HeatmapOptions {
	return algo.HeatmapOptions{
		NumCells:    cfg.NumCells,
		TopN:        cfg.TopN,
		SortType:    cfg.SortType,
		Placeholder: cfg.Placeholder,
	}
}

// GetHeatmapResult builds the entity × time heatmap of a high-cardinality detector.
//
// The rows come from one of three places:
//   - explicit child fields: one row per expanded combination, fetched concurrently
//   - cfg.Precomputed: per-entity buckets aggregated by the source
//   - otherwise: raw anomalies grouped by entity
func GetHeatmapResult(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (schema.HeatmapResult, error) {
	d, err := loadDetector(ctx, cfg, src)
	if err != nil {
		return schema.HeatmapResult{}, err
	}
	if err := requireHighCardinality(d); err != nil {
		return schema.HeatmapResult{}, err
	}
	r := cfg.Range()
	opts := heatmapOptions(cfg)

	var matrix schema.HeatmapMatrix
	switch {
	case len(cfg.Children) > 0:
		combos, err := resolveCombos(ctx, cfg, src, d)
		if err != nil {
			return schema.HeatmapResult{}, err
		}
		rows, err := fetchComboSeries(ctx, cfg, src, combos)
		if err != nil {
			return schema.HeatmapResult{}, err
		}
		matrix, err = algo.BuildFromRawAnomalies(rows, r, opts)
		if err != nil {
			return schema.HeatmapResult{}, err
		}
	case cfg.Precomputed:
		matrix, err = precomputedHeatmap(ctx, cfg, src, r, opts)
		if err != nil {
			return schema.HeatmapResult{}, err
		}
	default:
		anomalies, err := src.GetAnomalies(ctx, resultQuery(cfg, cfg.Entities))
		if err != nil {
			return schema.HeatmapResult{}, fmt.Errorf("failed to fetch anomalies: %w", err)
		}
		matrix, err = algo.BuildFromRawAnomalies(algo.GroupByEntity(anomalies), r, opts)
		if err != nil {
			return schema.HeatmapResult{}, err
		}
	}

	return schema.HeatmapResult{
		DetectorID:  cfg.DetectorID,
		Range:       r,
		Precomputed: cfg.Precomputed && len(cfg.Children) == 0,
		Matrix:      matrix,
	}, nil
}

// precomputedHeatmap asks the source for buckets as wide as the heatmap columns.
func precomputedHeatmap(ctx context.Context, cfg *contract.Config, src contract.ResultSource, r schema.TimeWindow, opts algo.HeatmapOptions) (schema.HeatmapMatrix, error) {
	columns, err := algo.PartitionWindows(opts.NumCells, r)
	if err != nil {
		return schema.HeatmapMatrix{}, err
	}
	var summaries []schema.EntitySummary
	if len(columns) > 0 {
		summaries, err = src.GetEntitySummaries(ctx, resultQuery(cfg, cfg.Entities), columns[0].Duration())
		if err != nil {
			return schema.HeatmapMatrix{}, fmt.Errorf("failed to fetch entity summaries: %w", err)
		}
	}
	return algo.BuildFromPrecomputedSummaries(summaries, r, opts)
}
