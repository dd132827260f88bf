package core

import (
	"context"

	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// GetMissingResult flags every expected interval tick of the series as present or missing.
// The checked range is clamped to when the detector actually ran.
func GetMissingResult(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (schema.MissingResult, error) {
	raw, err := fetchSeries(ctx, cfg, src)
	if err != nil {
		return schema.MissingResult{}, err
	}
	r := algo.EffectiveRange(raw.detector, cfg.Range())
	flags, err := algo.DetectMissing(raw.points, r, missingOptions(cfg, raw.detector))
	if err != nil {
		return schema.MissingResult{}, err
	}
	return schema.MissingResult{
		DetectorID:      cfg.DetectorID,
		Feature:         cfg.Feature,
		Range:           r,
		Flags:           flags,
		MissingCount:    algo.CountMissing(flags),
		MissingSeverity: algo.ClassifyMissing(flags, missingThresholds(cfg)),
	}, nil
}
