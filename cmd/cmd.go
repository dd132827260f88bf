// Package cmd defines the command-line interface for adviz.
package cmd

import (
	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(missingCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(combosCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sourceCmd)

	// Add the source subcommands to the parent source command
	sourceCmd.AddCommand(sourceMigrateCmd)
	sourceCmd.AddCommand(sourceStatusCmd)
	sourceCmd.AddCommand(sourceImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("detector", "d", "", "ID of the anomaly detector or forecaster")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago (default: 7 days before end)")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago (default: now)")
	rootCmd.PersistentFlags().StringArrayP("entity", "e", nil, "Entity filter as field=value (repeatable)")
	rootCmd.PersistentFlags().StringArray("child", nil, "Child field as field=v1,v2; a bare field lists all values (repeatable)")
	rootCmd.PersistentFlags().String("feature", "", "Chart this feature instead of the anomaly grade")
	rootCmd.PersistentFlags().Int("combo-limit", algo.DefaultComboLimit, "Maximum entity combinations to chart at once")
	rootCmd.PersistentFlags().Int("max-points", contract.DefaultMaxPoints, "Point budget for downsampled series")
	rootCmd.PersistentFlags().String("source-backend", string(schema.FileBackend), "Result source: file or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("source-connect", "", "Database connection string for mysql/postgresql, or a path for sqlite")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Result bundle JSON for the file source")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent source queries")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Int("interval", 0, "Override the detector interval in minutes")
	rootCmd.PersistentFlags().String("window-delay", "", "Override the detector window delay, e.g. '1 minutes'")
	rootCmd.PersistentFlags().String("category-fields", "", "Override the detector category fields (comma-separated)")
	rootCmd.PersistentFlags().Bool("window-delay-applied", false, "The end time already accounts for the window delay")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Missing-data tuning lives under the nested "missing" config key
	rootCmd.PersistentFlags().Int("missing-offset", contract.DefaultMissingOffset, "Trailing intervals never checked for missing data")
	rootCmd.PersistentFlags().Int("missing-high", contract.DefaultMissingHigh, "Missing points that grade a series High")
	rootCmd.PersistentFlags().Int("missing-medium", contract.DefaultMissingMedium, "Missing points that grade a series Medium")
	for key, flag := range map[string]string{
		"missing.offset":           "missing-offset",
		"missing.high-threshold":   "missing-high",
		"missing.medium-threshold": "missing-medium",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			contract.LogFatal("Error binding missing flags", err)
		}
	}

	// Bind all flags of seriesCmd to Viper
	seriesCmd.Flags().Int("max-annotations", contract.DefaultMaxAnnotations, "Maximum missing-data annotations")
	if err := viper.BindPFlags(seriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding series flags", err)
	}

	// Bind all flags of heatmapCmd to Viper
	heatmapCmd.Flags().Int("num-cells", contract.DefaultNumCells, "Number of time columns")
	heatmapCmd.Flags().Int("top", contract.DefaultTopN, "Number of entity rows to keep")
	heatmapCmd.Flags().String("sort", string(schema.SortBySeverity), "Row order: severity or occurrence")
	heatmapCmd.Flags().Bool("precomputed", false, "Use buckets aggregated by the source instead of raw results")
	heatmapCmd.Flags().String("placeholder", "yes", "Fill an empty heatmap with blank rows (yes/no)")
	if err := viper.BindPFlags(heatmapCmd.Flags()); err != nil {
		contract.LogFatal("Error binding heatmap flags", err)
	}

	// Bind all flags of combosCmd to Viper
	combosCmd.Flags().Bool("fetch", false, "Also fetch the series of every combination")
	if err := viper.BindPFlags(combosCmd.Flags()); err != nil {
		contract.LogFatal("Error binding combos flags", err)
	}

	// Bind all flags of sourceMigrateCmd to Viper
	sourceMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sourceMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding source migrate flags", err)
	}
}
