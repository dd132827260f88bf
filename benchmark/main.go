// Package main provides a performance benchmarking tool for the adviz CLI.
// It generates synthetic result bundles of increasing size, loads each one
// into a SQLite source, and times the chart commands against both the file
// and the SQLite backend. Each command runs several times; the first
// successful run counts as cold and the rest are averaged as warm.
//
// Prerequisites:
// - adviz binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated bundles and SQLite databases
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/adviz/schema"
)

// BenchmarkResult holds the timings of one command on one dataset.
type BenchmarkResult struct {
	Dataset  string
	Command  string
	FileTime string
	ColdTime string
	WarmTime string
}

// Dataset describes a synthetic high-cardinality detector.
type Dataset struct {
	Name     string
	Entities int
	Points   int // Per entity, one per interval
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Workers  int
	FileRuns int
	SQLRuns  int
	Datasets []Dataset
}

// Fixed range origin so runs are comparable.
const benchStart int64 = 1762128000000

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  5 * time.Minute,
		Workers:  8,
		FileRuns: 3,
		SQLRuns:  4,
		Datasets: []Dataset{
			{Name: "small", Entities: 10, Points: 1_000},
			{Name: "medium", Entities: 100, Points: 2_000},
			{Name: "large", Entities: 500, Points: 5_000},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the adviz binary and the work dir exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("adviz"); err != nil {
		return fmt.Errorf("adviz binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateBundle writes a random bundle for the dataset and returns its path.
func generateBundle(config BenchmarkConfig, ds Dataset) (string, error) {
	rng := rand.New(rand.NewPCG(uint64(ds.Entities), uint64(ds.Points)))
	bundle := schema.ResultBundle{
		Detector: schema.Detector{
			ID:              "bench-" + ds.Name,
			Name:            "bench",
			IntervalMinutes: 1,
			CategoryFields:  []string{"host"},
			EnabledTime:     benchStart,
		},
	}
	for e := range ds.Entities {
		entity := schema.EntityList{{Name: "host", Value: "host-" + strconv.Itoa(e)}}
		for p := range ds.Points {
			// Drop about 1% of points so missing-data detection has work to do
			if rng.IntN(100) == 0 {
				continue
			}
			grade := 0.0
			if rng.IntN(20) == 0 {
				grade = rng.Float64()
			}
			ts := benchStart + int64(p)*schema.OneMinuteMillis
			bundle.Anomalies = append(bundle.Anomalies, schema.AnomalyResult{
				AnomalyGrade: grade,
				Confidence:   0.9,
				StartTime:    ts - schema.OneMinuteMillis,
				EndTime:      ts,
				PlotTime:     ts,
				Entity:       entity,
			})
		}
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	path := filepath.Join(config.WorkDir, ds.Name+".json")
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured datasets.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, file: %d runs, sqlite: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.FileRuns, config.SQLRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Benchmarking %s (%d entities x %d points)\n", ds.Name, ds.Entities, ds.Points)

		bundlePath, err := generateBundle(config, ds)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", ds.Name, err)
			continue
		}
		dbPath := filepath.Join(config.WorkDir, ds.Name+".db")
		_ = os.Remove(dbPath)
		if err := loadSQLite(bundlePath, dbPath); err != nil {
			fmt.Printf("Warning: failed to load %s into SQLite: %v\n", ds.Name, err)
			continue
		}

		end := time.UnixMilli(benchStart + int64(ds.Points)*schema.OneMinuteMillis).UTC().Format(time.RFC3339)
		common := []string{
			"-d", "bench-" + ds.Name,
			"--start", time.UnixMilli(benchStart).UTC().Format(time.RFC3339),
			"--end", end,
			"--workers", strconv.Itoa(config.Workers),
			"--color", "no",
		}
		suites := []struct {
			command, description string
			args                 []string
		}{
			{"series", "series of one entity", []string{"series", "-e", "host=host-0"}},
			{"heatmap", "raw heatmap", []string{"heatmap"}},
			{"precomputed", "precomputed heatmap", []string{"heatmap", "--precomputed"}},
			{"combos", "fetched combinations", []string{"combos", "--child", "host=host-0,host-1,host-2,host-3,host-4", "--fetch"}},
		}
		for _, s := range suites {
			args := append(append([]string{}, s.args...), common...)
			result := runBenchmarkSuite(config, ds.Name, s.command, s.description, args, bundlePath, dbPath)
			results = append(results, result)
		}
	}

	return results
}

// loadSQLite migrates a fresh SQLite database and imports the bundle.
func loadSQLite(bundlePath, dbPath string) error {
	for _, args := range [][]string{
		{"source", "migrate", "--source-backend", "sqlite", "--source-connect", dbPath},
		{"source", "import", bundlePath, "--source-backend", "sqlite", "--source-connect", dbPath},
	} {
		if output, err := exec.Command("adviz", args...).CombinedOutput(); err != nil {
			return fmt.Errorf("%v: %w\nOutput: %s", args, err, string(output))
		}
	}
	return nil
}

// runBenchmarkSuite runs a command against the file and the SQLite backend.
func runBenchmarkSuite(config BenchmarkConfig, dataset, command, description string, args []string, bundlePath, dbPath string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, dataset)

	// Helper to run a benchmark phase
	runPhase := func(backendArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, append(append([]string{}, args...), backendArgs...), numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: JSON bundle, decoded on every run
	_, fileAvg := runPhase([]string{"--source-backend", "file", "-i", bundlePath}, config.FileRuns, "File")

	// Phase 2: SQLite
	coldTime, warmAvg := runPhase([]string{"--source-backend", "sqlite", "--source-connect", dbPath}, config.SQLRuns, "SQLite")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		FileTime: fileAvg,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes an adviz command multiple times and returns the cold
// time and the warm times. Timed-out or failed runs are dropped.
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "adviz", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			continue
		}
		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Completed in") &&
		strings.Contains(outputStr, "Source backend")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/adviz_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "file_avg", "sqlite_cold", "sqlite_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "series", "Series:")
	printCommandSummary(results, "heatmap", "Raw Heatmap:")
	printCommandSummary(results, "precomputed", "Precomputed Heatmap:")
	printCommandSummary(results, "combos", "Fetched Combinations:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: File: %s, Cold: %s, Warm: %s\n", result.Dataset, result.FileTime, result.ColdTime, result.WarmTime)
		}
	}
}
