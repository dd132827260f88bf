package core

import (
	"context"
	"fmt"

	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"golang.org/x/sync/errgroup"
)

// rawSeries is a fetched series before any downsampling.
type rawSeries struct {
	detector schema.Detector
	points   schema.Series
}

// fetchSeries loads the detector and its raw series. Without a feature the
// series is the anomaly grade; with one it is the feature value graded by the
// anomaly result at the same plot time.
func fetchSeries(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (rawSeries, error) {
	d, err := loadDetector(ctx, cfg, src)
	if err != nil {
		return rawSeries{}, err
	}
	if err := requireEntity(d, cfg.Entities); err != nil {
		return rawSeries{}, err
	}
	q := resultQuery(cfg, cfg.Entities)

	if cfg.Feature == "" {
		anomalies, err := src.GetAnomalies(ctx, q)
		if err != nil {
			return rawSeries{}, fmt.Errorf("failed to fetch anomalies: %w", err)
		}
		return rawSeries{detector: d, points: algo.AnomalySeries(anomalies)}, nil
	}

	var (
		anomalies []schema.AnomalyResult
		features  []schema.FeatureResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if anomalies, err = src.GetAnomalies(gctx, q); err != nil {
			return fmt.Errorf("failed to fetch anomalies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if features, err = src.GetFeatureData(gctx, q, cfg.Feature); err != nil {
			return fmt.Errorf("failed to fetch feature %s: %w", cfg.Feature, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return rawSeries{}, err
	}
	return rawSeries{detector: d, points: mergeSeverity(algo.FeatureSeries(features), anomalies)}, nil
}

// mergeSeverity grades each feature point with the anomaly grade at the same plot time.
func mergeSeverity(points schema.Series, anomalies []schema.AnomalyResult) schema.Series {
	grades := make(map[int64]float64, len(anomalies))
	for _, a := range anomalies {
		grades[a.PlotTime] = max(grades[a.PlotTime], a.AnomalyGrade)
	}
	for i := range points {
		points[i].Severity = grades[points[i].Timestamp]
	}
	return points
}

func missingOptions(cfg *contract.Config, d schema.Detector) algo.MissingOptions {
	return algo.MissingOptions{
		IntervalMinutes:    d.IntervalMinutes,
		WindowDelay:        d.WindowDelay,
		WindowDelayApplied: cfg.WindowDelayApplied,
		Offset:             cfg.Missing.Offset,
	}
}

func missingThresholds(cfg *contract.Config) algo.MissingThresholds {
	return algo.MissingThresholds{High: cfg.Missing.HighThreshold, Medium: cfg.Missing.MediumThreshold}
}

// GetSeriesResult builds the chart payload for one series: the points
// downsampled to cfg.MaxPoints plus up to cfg.MaxAnnotations missing-data annotations.
func GetSeriesResult(ctx context.Context, cfg *contract.Config, src contract.ResultSource) (schema.SeriesResult, error) {
	raw, err := fetchSeries(ctx, cfg, src)
	if err != nil {
		return schema.SeriesResult{}, err
	}

	points, err := algo.Downsample(raw.points, cfg.MaxPoints)
	if err != nil {
		return schema.SeriesResult{}, err
	}

	r := algo.EffectiveRange(raw.detector, cfg.Range())
	flags, err := algo.DetectMissing(raw.points, r, missingOptions(cfg, raw.detector))
	if err != nil {
		return schema.SeriesResult{}, err
	}
	annotations, err := algo.SampleMissingAnnotations(flags, r, cfg.MaxAnnotations)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	contract.Logger().Debug("series built",
		"detector", cfg.DetectorID, "raw", len(raw.points), "kept", len(points), "missing", algo.CountMissing(flags))

	return schema.SeriesResult{
		DetectorID:      cfg.DetectorID,
		Feature:         cfg.Feature,
		Entities:        cfg.Entities,
		Range:           cfg.Range(),
		TotalPoints:     len(raw.points),
		Points:          points,
		Annotations:     annotations,
		MissingSeverity: algo.ClassifyMissing(flags, missingThresholds(cfg)),
	}, nil
}
