package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"golang.org/x/sync/errgroup"
)

// fetchComboSeries fetches the raw anomaly series of every combination using
// at most cfg.Workers concurrent queries. Results keep the order of combos.
func fetchComboSeries(ctx context.Context, cfg *contract.Config, src contract.ResultSource, combos []schema.EntityList) ([]schema.EntitySeries, error) {
	out := make([]schema.EntitySeries, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i, combo := range combos {
		g.Go(func() error {
			start := time.Now()
			anomalies, err := src.GetAnomalies(gctx, resultQuery(cfg, combo))
			if err != nil {
				return fmt.Errorf("failed to fetch anomalies for %s: %w", combo.Key(), err)
			}
			out[i] = schema.EntitySeries{Entities: combo, Points: algo.AnomalySeries(anomalies)}
			contract.Logger().Debug("combo fetched", "entity", combo.Key(), "points", len(anomalies), "took", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
