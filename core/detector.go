package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// loadDetector fetches the detector and applies the configured overrides.
func loadDetector(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (schema.Detector, error) {
	if cfg.DetectorID == "" {
		return schema.Detector{}, fmt.Errorf("a detector ID is required")
	}
	d, err := src.GetDetector(ctx, cfg.DetectorID)
	if err != nil {
		return schema.Detector{}, fmt.Errorf("failed to load detector %s: %w", cfg.DetectorID, err)
	}
	d = cfg.Overrides.Apply(d)
	if d.IntervalMinutes <= 0 {
		return schema.Detector{}, fmt.Errorf("detector %s has no detection interval; pass --interval", d.ID)
	}
	if cfg.Feature != "" && len(d.Features) > 0 && !slices.Contains(d.Features, cfg.Feature) {
		return schema.Detector{}, fmt.Errorf("detector %s has no feature %q (features: %v)", d.ID, cfg.Feature, d.Features)
	}
	return d, nil
}

// requireEntity checks that a single series of a high-cardinality detector is
// pinned to one entity, i.e. every category field has a value.
func requireEntity(d schema.Detector, entities schema.EntityList) error {
	if !d.IsHighCardinality() {
		return nil
	}
	for _, field := range d.CategoryFields {
		if !slices.ContainsFunc(entities, func(e schema.Entity) bool { return e.Name == field }) {
			return fmt.Errorf("detector %s is split by %v; pass --entity %s=<value>", d.ID, d.CategoryFields, field)
		}
	}
	return nil
}

// requireHighCardinality rejects detectors that are not split by category fields.
func requireHighCardinality(d schema.Detector) error {
	if !d.IsHighCardinality() {
		return fmt.Errorf("detector %s has no category fields; entity charts need a high-cardinality detector", d.ID)
	}
	return nil
}

func resultQuery(cfg *contract.Config, entities schema.EntityList) schema.ResultQuery {
	return schema.ResultQuery{DetectorID: cfg.DetectorID, Range: cfg.Range(), Entities: entities}
}
