package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/internal/source"
	"github.com/huangsam/adviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceSetup loads minimal configuration needed for source maintenance.
// This is used by commands that need source access without full shared setup.
func sourceSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("source-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid source backend '%s'. must be file, sqlite, mysql, postgresql", backend)
	}
	connStr := viper.GetString("source-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.SourceBackend = backend
	cfg.SourceConnect = connStr
	cfg.InputFile = viper.GetString("input")
	return nil
}

// sourceSetupWrapper wraps sourceSetup to provide PreRunE for source commands.
func sourceSetupWrapper(_ *cobra.Command, _ []string) error {
	return sourceSetup()
}

// sourceCmd focused on result source maintenance.
//
// Note: Source subcommands use minimal initialization (sourceSetup) instead of
// the full sharedSetup used by chart commands. No detector or time range is needed.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the database holding replayed detector results",
	Long: `Manage the SQL tables that serve detector results to the chart commands.

Supported backends: file (JSON bundle, read-only), SQLite (default database),
MySQL, PostgreSQL

Subcommands:
  migrate - Create or upgrade the result tables
  status  - Show row counts and the covered time range
  import  - Load a JSON result bundle into the tables

Examples:
  # Prepare the default SQLite database and load a bundle
  adviz source migrate --source-backend sqlite
  adviz source import results.json --source-backend sqlite

  # Check a PostgreSQL source (set connection string via env variable)
  ADVIZ_SOURCE_BACKEND=postgresql ADVIZ_SOURCE_CONNECT="..." adviz source status`,
}

// sourceMigrateCmd runs database migrations for the result tables.
var sourceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the result tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  adviz source migrate --source-backend sqlite

  # Rollback to the initial state
  adviz source migrate --source-backend sqlite --target-version 0`,
	PreRunE: sourceSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := source.Migrate(cfg.SourceBackend, cfg.SourceConnect, targetVersion, cmd.OutOrStdout()); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// sourceStatusCmd shows source status.
var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display source statistics and connection details",
	Long: `Show the backend, connection state, number of detectors, row counts per
table and the plot time range covered by the stored results.

Examples:
  # Status of a bundle
  adviz source status -i results.json

  # Status of the default SQLite database
  adviz source status --source-backend sqlite`,
	PreRunE: sourceSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		src, err := source.New(cfg)
		if err != nil {
			contract.LogFatal("Failed to open source", err)
		}
		defer func() { _ = src.Close() }()

		status, err := src.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get source status", err)
		}
		source.PrintSourceStatus(cmd.OutOrStdout(), status)
	},
}

// sourceImportCmd loads a result bundle into a SQL source.
var sourceImportCmd = &cobra.Command{
	Use:   "import <bundle.json>",
	Short: "Load a JSON result bundle into the result tables",
	Long: `Store the detector, anomaly results and feature data of a JSON result bundle.

Rows already held for the bundle's detector are replaced. Run 'adviz source
migrate' first.

Examples:
  adviz source import results.json --source-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sourceSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.SourceBackend == schema.FileBackend {
			contract.LogFatal("Cannot import", fmt.Errorf("the %s backend is read-only; pass --source-backend", schema.FileBackend))
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read bundle", err)
		}
		bundle, err := source.DecodeBundle(data)
		if err != nil {
			contract.LogFatal("Failed to decode bundle", err)
		}

		src, err := source.NewSQLSource(cfg.SourceBackend, cfg.SourceConnect)
		if err != nil {
			contract.LogFatal("Failed to open source", err)
		}
		defer func() { _ = src.Close() }()

		n, err := src.ImportBundle(rootCtx, bundle)
		if err != nil {
			contract.LogFatal("Failed to import bundle", err)
		}
		cmd.Printf("Imported %d results for detector %s.\n", n, bundle.Detector.ID)
	},
}
