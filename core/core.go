// Package core orchestrates fetching raw detector results from a source and
// turning them into chart payloads with the transforms in core/algo.
package core

import (
	"context"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the different chart modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.ResultSource) error

// ExecuteSeries builds a downsampled series with missing-data annotations and prints it.
// It serves as the main entry point for the 'series' mode.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, src contract.ResultSource) error {
	start := time.Now()
	result, err := GetSeriesResult(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSeries(result, cfg, time.Since(start))
}

// ExecuteMissing computes the full missing-data flags for a series and prints them.
func ExecuteMissing(ctx context.Context, cfg *contract.Config, src contract.ResultSource) error {
	start := time.Now()
	result, err := GetMissingResult(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMissing(result, cfg, time.Since(start))
}

// ExecuteHeatmap builds the entity heatmap of a high-cardinality detector and prints it.
// It serves as the main entry point for the 'heatmap' mode.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, src contract.ResultSource) error {
	start := time.Now()
	result, err := GetHeatmapResult(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHeatmap(result, cfg, time.Since(start))
}

// ExecuteCombos expands parent/child entity combinations and prints them,
// along with their series when cfg.Fetch is set.
func ExecuteCombos(ctx context.Context, cfg *contract.Config, src contract.ResultSource) error {
	start := time.Now()
	result, err := GetComboResult(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCombos(result, cfg, time.Since(start))
}
