package cmd

import (
	"github.com/huangsam/adviz/core"
	"github.com/spf13/cobra"
)

// heatmapCmd builds the entity heatmap of a high-cardinality detector.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the entity by time heatmap of a high-cardinality detector.",
	Long: `Summarize anomalies per entity and time window.

Each cell holds the highest anomaly grade and the number of anomalous results
of an entity in one of --num-cells windows. Rows are ranked by --sort and only
the --top rows are kept.

Rows come from raw results by default. With --precomputed the source
aggregates the buckets itself. With --child the rows are the expanded
parent/child combinations, fetched concurrently.

Examples:
  # Top 10 hosts by severity over the last day
  adviz heatmap -d det-1 --start "1 day ago"

  # Most frequently anomalous entities from source-side buckets
  adviz heatmap -d det-1 --precomputed --sort occurrence --top 20

  # Hosts of one region
  adviz heatmap -d det-1 -e region=us --child host=a,b,c`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("heatmap", core.ExecuteHeatmap),
}

// combosCmd expands parent/child entity combinations.
var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "Expand parent entities by child field values.",
	Long: `List every combination of the --entity parents and the --child values.

A --child field without values lists every value the source has under the
parent. Expansions above --combo-limit fail instead of being truncated.

Examples:
  # All hosts of one region
  adviz combos -d det-1 -e region=us --child host

  # Two hosts in two regions, with their series
  adviz combos -d det-1 --child region=us,eu --child host=a,b --combo-limit 4 --fetch`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("entity combinations", core.ExecuteCombos),
}
