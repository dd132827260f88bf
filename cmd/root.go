package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/adviz/core"
	"github.com/huangsam/adviz/core/algo"
	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/internal/source"
	"github.com/huangsam/adviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// resultSource is the source opened by sharedSetup.
var resultSource contract.ResultSource

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Stderr keeps stdout clean for results and the MCP transport
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "adviz",
	Short:              "Turn raw anomaly detection results into chart-ready data.",
	Long:               `Adviz downsamples detector result series, flags missing data, and builds entity heatmaps for high-cardinality detectors.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigFile points Viper at --config or the default .adviz.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".adviz")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	viper.SetEnvPrefix("ADVIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("source-backend", string(schema.FileBackend))
	viper.SetDefault("source-connect", "")
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("max-points", contract.DefaultMaxPoints)
	viper.SetDefault("max-annotations", contract.DefaultMaxAnnotations)
	viper.SetDefault("num-cells", contract.DefaultNumCells)
	viper.SetDefault("top", contract.DefaultTopN)
	viper.SetDefault("sort", string(schema.SortBySeverity))
	viper.SetDefault("placeholder", "yes")
	viper.SetDefault("combo-limit", algo.DefaultComboLimit)
	viper.SetDefault("missing.offset", contract.DefaultMissingOffset)
	viper.SetDefault("missing.high-threshold", contract.DefaultMissingHigh)
	viper.SetDefault("missing.medium-threshold", contract.DefaultMissingMedium)
}

// applyColorMode turns colors off when asked to. Otherwise fatih/color keeps
// its own terminal detection, so piped output stays plain.
func applyColorMode(useColors bool) {
	if !useColors {
		color.NoColor = true
	}
}

// sharedSetup unmarshals config, runs validation and opens the result source.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetLogLevel(cfg.LogLevel)
	applyColorMode(cfg.UseColors)

	// 4. Open the result source with the validated config.
	src, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.SourceBackend, err)
	}
	resultSource = src
	contract.Logger().Debug("source opened", "backend", cfg.SourceBackend, "detector", cfg.DetectorID)
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to the source commands.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// runExecutor adapts a core executor to a Cobra Run function.
func runExecutor(name string, exec core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := exec(rootCtx, cfg, resultSource); err != nil {
			contract.LogFatal("Cannot build "+name, err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// CloseSource closes the result source opened during setup, if any.
func CloseSource() error {
	if resultSource == nil {
		return nil
	}
	return resultSource.Close()
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
