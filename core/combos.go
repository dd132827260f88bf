package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// resolveCombos expands cfg.Entities by cfg.Children. Child fields given
// without values are filled with the distinct values the source has under
// the parent entities. The expansion fails rather than truncates when it
// exceeds cfg.ComboLimit.
func resolveCombos(ctx context.Context, cfg *contract.Config, src contract.ResultSource, d schema.Detector) ([]schema.EntityList, error) {
	children := make([]schema.FieldValues, 0, len(cfg.Children))
	for _, child := range cfg.Children {
		if !slices.Contains(d.CategoryFields, child.Name) {
			return nil, fmt.Errorf("field %q is not a category field of detector %s (fields: %v)", child.Name, d.ID, d.CategoryFields)
		}
		if len(child.Values) == 0 {
			values, err := src.GetCategoryValues(ctx, resultQuery(cfg, cfg.Entities), child.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to list values of %s: %w", child.Name, err)
			}
			contract.Logger().Debug("child values discovered", "field", child.Name, "count", len(values))
			child = schema.FieldValues{Name: child.Name, Values: values}
		}
		children = append(children, child)
	}
	for _, e := range cfg.Entities {
		if !slices.Contains(d.CategoryFields, e.Name) {
			return nil, fmt.Errorf("field %q is not a category field of detector %s (fields: %v)", e.Name, d.ID, d.CategoryFields)
		}
	}

	if err := algo.CheckComboLimit(algo.ComboCount(children), cfg.ComboLimit); err != nil {
		return nil, err
	}
	return orderByFields(algo.ExpandCombos(cfg.Entities, children), d.CategoryFields), nil
}

// orderByFields sorts the pairs of each combination into the detector's
// category field order, matching the entity lists the backend returns.
func orderByFields(combos []schema.EntityList, fields []string) []schema.EntityList {
	for _, combo := range combos {
		slices.SortStableFunc(combo, func(a, b schema.Entity) int {
			return slices.Index(fields, a.Name) - slices.Index(fields, b.Name)
		})
	}
	return combos
}

// GetComboResult expands the parent/child entity combinations of a
// high-cardinality detector. With cfg.Fetch it also returns the downsampled
// anomaly series of each combination, most severe first.
func GetComboResult(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (schema.ComboResult, error) {
	d, err := loadDetector(ctx, cfg, src)
	if err != nil {
		return schema.ComboResult{}, err
	}
	if err := requireHighCardinality(d); err != nil {
		return schema.ComboResult{}, err
	}
	combos, err := resolveCombos(ctx, cfg, src, d)
	if err != nil {
		return schema.ComboResult{}, err
	}
	result := schema.ComboResult{DetectorID: cfg.DetectorID, Count: len(combos), Combos: combos}
	if !cfg.Fetch || len(combos) == 0 {
		return result, nil
	}

	raw, err := fetchComboSeries(ctx, cfg, src, combos)
	if err != nil {
		return schema.ComboResult{}, err
	}
	series := make([]schema.ComboSeries, len(raw))
	for i, es := range raw {
		points, err := algo.Downsample(es.Points, cfg.MaxPoints)
		if err != nil {
			return schema.ComboResult{}, err
		}
		series[i] = schema.ComboSeries{Entities: es.Entities, TotalPoints: len(es.Points), Points: points}
	}
	result.Series = algo.RankCombos(series, len(series))
	return result, nil
}
