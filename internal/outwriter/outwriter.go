// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/internal/parquet"
	"github.com/huangsam/adviz/schema"
)

// OutWriter provides a unified interface for all output operations.
// It picks the destination (stdout or --output-file) and the format for each payload.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints a series result using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquet(cfg.OutputFile, "Wrote Parquet series points", func() error {
			return parquet.WriteSeriesPointsParquet(parquet.SeriesPointsFromResult(result), cfg.OutputFile)
		})
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSeriesResults(w, result, cfg, duration)
	}, "Wrote series results")
}

// WriteMissing prints missing-data flags using the configured output format.
func (ow *OutWriter) WriteMissing(result schema.MissingResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquet(cfg.OutputFile, "Wrote Parquet missing flags", func() error {
			return parquet.WriteMissingFlagsParquet(parquet.MissingFlagsFromResult(result), cfg.OutputFile)
		})
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMissingResults(w, result, cfg, duration)
	}, "Wrote missing data results")
}

// WriteHeatmap prints a heatmap using the configured output format.
func (ow *OutWriter) WriteHeatmap(result schema.HeatmapResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquet(cfg.OutputFile, "Wrote Parquet heatmap cells", func() error {
			return parquet.WriteHeatmapCellsParquet(parquet.HeatmapCellsFromResult(result), cfg.OutputFile)
		})
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHeatmapResults(w, result, cfg, duration)
	}, "Wrote heatmap results")
}

// WriteCombos prints entity combinations using the configured output format.
func (ow *OutWriter) WriteCombos(result schema.ComboResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquet(cfg.OutputFile, "Wrote Parquet combination series", func() error {
			return parquet.WriteSeriesPointsParquet(parquet.SeriesPointsFromCombos(result), cfg.OutputFile)
		})
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComboResults(w, result, cfg, duration)
	}, "Wrote combination results")
}

func writeParquet(outputFile, successMsg string, write func() error) error {
	if err := write(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}
