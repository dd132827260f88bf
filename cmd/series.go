package cmd

import (
	"github.com/huangsam/adviz/core"
	"github.com/spf13/cobra"
)

// seriesCmd builds one chart-ready series.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show a downsampled detector series with missing-data annotations.",
	Long: `Fetch the raw results of one detector series and reduce them to a chart budget.

The series is the anomaly grade by default, or a feature value with --feature.
Large series are downsampled by keeping the most severe point of each chunk,
so spikes survive. Expected detection intervals without data are summarized
into at most --max-annotations annotations.

High-cardinality detectors need one --entity per category field.

Examples:
  # Anomaly grades over the last day
  adviz series -d det-1 -i results.json --start "1 day ago"

  # A feature of one entity, capped at 200 points
  adviz series -d det-1 -e host=a --feature cpu --max-points 200

  # Export to Parquet for notebooks
  adviz series -d det-1 -e host=a --output parquet --output-file series.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("series", core.ExecuteSeries),
}

// missingCmd lists the missing-data flags of one series.
var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List expected detection intervals and whether their data arrived.",
	Long: `Check every expected interval tick of a series for data.

The checked range starts no earlier than when the detector was enabled and
ends before the window delay and the last --missing-offset intervals, whose
data may still be in flight.

Examples:
  # Missing ticks of the last 6 hours
  adviz missing -d det-1 --start "6 hours ago"

  # As CSV, with an interval override for a detector without metadata
  adviz missing -d det-1 --interval 5 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("missing data", core.ExecuteMissing),
}
