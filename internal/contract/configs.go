package contract

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/adviz/schema"
	"github.com/jonboulle/clockwork"
)

// Default values for configuration.
const (
	DefaultLookbackDays   = 7
	DefaultMaxPoints      = 1000
	MaxMaxPoints          = 100_000
	DefaultMaxAnnotations = 100
	MaxMaxAnnotations     = 10_000
	DefaultNumCells       = 20
	MaxNumCells           = 1000
	DefaultTopN           = 10
	MaxTopN               = 1000
	DefaultComboLimit     = 5
	DefaultPrecision      = 2
	DefaultMissingOffset  = 2
	DefaultMissingHigh    = 3
	DefaultMissingMedium  = 2
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// DetectorOverrides replaces detector metadata served by the source.
// Zero values mean "use the source".
type DetectorOverrides struct {
	IntervalMinutes int
	WindowDelay     *schema.WindowDelay
	CategoryFields  []string
}

// Apply returns d with the overrides applied.
func (o DetectorOverrides) Apply(d schema.Detector) schema.Detector {
	if o.IntervalMinutes > 0 {
		d.IntervalMinutes = o.IntervalMinutes
	}
	if o.WindowDelay != nil {
		d.WindowDelay = *o.WindowDelay
	}
	if len(o.CategoryFields) > 0 {
		d.CategoryFields = append([]string(nil), o.CategoryFields...)
	}
	return d
}

// MissingConfig holds the missing-data detection tuning.
type MissingConfig struct {
	Offset          int
	HighThreshold   int
	MediumThreshold int
}

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	DetectorID string
	StartTime  time.Time
	EndTime    time.Time

	SourceBackend schema.DatabaseBackend
	SourceConnect string // Please use env var as this is plaintext
	InputFile     string // Result bundle for the file backend

	MaxPoints      int
	MaxAnnotations int
	NumCells       int
	TopN           int
	SortType       schema.HeatmapSortType
	ComboLimit     int
	Entities       schema.EntityList
	Children       []schema.FieldValues
	Feature        string
	Precomputed    bool
	Placeholder    bool
	Fetch          bool

	WindowDelayApplied bool
	Missing            MissingConfig
	Overrides          DetectorOverrides

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Workers    int
	LogLevel   slog.Level

	Clock clockwork.Clock // Resolves relative times; real clock when nil
}

// MissingRawInput holds the nested missing-data keys.
type MissingRawInput struct {
	Offset          int `mapstructure:"offset"`
	HighThreshold   int `mapstructure:"high-threshold"`
	MediumThreshold int `mapstructure:"medium-threshold"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Detector       string `mapstructure:"detector"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	SourceBackend  string `mapstructure:"source-backend"`
	SourceConnect  string `mapstructure:"source-connect"`
	Input          string `mapstructure:"input"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Workers        int    `mapstructure:"workers"`
	LogLevel       string `mapstructure:"log-level"`
	Interval       int    `mapstructure:"interval"`
	WindowDelay    string `mapstructure:"window-delay"`
	CategoryFields string `mapstructure:"category-fields"`

	Entity []string `mapstructure:"entity"`

	// --- Fields from seriesCmd/missingCmd.Flags() ---
	Feature            string          `mapstructure:"feature"`
	MaxPoints          int             `mapstructure:"max-points"`
	MaxAnnotations     int             `mapstructure:"max-annotations"`
	WindowDelayApplied bool            `mapstructure:"window-delay-applied"`
	Missing            MissingRawInput `mapstructure:"missing"`

	// --- Fields from heatmapCmd/combosCmd.Flags() ---
	NumCells    int      `mapstructure:"num-cells"`
	Top         int      `mapstructure:"top"`
	Sort        string   `mapstructure:"sort"`
	Precomputed bool     `mapstructure:"precomputed"`
	Placeholder string   `mapstructure:"placeholder"`
	ComboLimit  int      `mapstructure:"combo-limit"`
	Child       []string `mapstructure:"child"`
	Fetch       bool     `mapstructure:"fetch"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Entities = c.Entities.Clone()
	if c.Children != nil {
		clone.Children = make([]schema.FieldValues, len(c.Children))
		for i, fv := range c.Children {
			clone.Children[i] = schema.FieldValues{Name: fv.Name, Values: append([]string(nil), fv.Values...)}
		}
	}
	if c.Overrides.WindowDelay != nil {
		wd := *c.Overrides.WindowDelay
		clone.Overrides.WindowDelay = &wd
	}
	if c.Overrides.CategoryFields != nil {
		clone.Overrides.CategoryFields = append([]string(nil), c.Overrides.CategoryFields...)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// Range returns the configured time range in epoch milliseconds.
func (c *Config) Range() schema.TimeWindow {
	return ToWindow(c.StartTime, c.EndTime)
}

// Now returns the current time from the configured clock.
func (c *Config) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processEntities(cfg, input); err != nil {
		return err
	}
	if err := processMissingConfig(cfg, input); err != nil {
		return err
	}
	if err := processDetectorOverrides(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.FileBackend, schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-connect is required when using %s backend", backend)
		}
		if _, err := mysql.ParseDSN(connStr); err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSourceConfig validates the result source backend configuration.
func validateSourceConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.SourceBackend)
	if backend == "" {
		backend = string(schema.FileBackend)
	}
	cfg.SourceBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.SourceBackend]; !ok {
		return fmt.Errorf("invalid source backend '%s'. must be file, sqlite, mysql, postgresql", input.SourceBackend)
	}
	cfg.SourceConnect = input.SourceConnect
	cfg.InputFile = strings.TrimSpace(input.Input)
	return ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DetectorID = strings.TrimSpace(input.Detector)
	cfg.Feature = strings.TrimSpace(input.Feature)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Precomputed = input.Precomputed
	cfg.WindowDelayApplied = input.WindowDelayApplied
	cfg.Fetch = input.Fetch

	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	placeholder, err := ParseBoolString(defaultString(input.Placeholder, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --placeholder value: %w", err)
	}
	cfg.Placeholder = placeholder

	if err := checkRange("max-points", input.MaxPoints, MaxMaxPoints); err != nil {
		return err
	}
	cfg.MaxPoints = input.MaxPoints

	if err := checkRange("max-annotations", input.MaxAnnotations, MaxMaxAnnotations); err != nil {
		return err
	}
	cfg.MaxAnnotations = input.MaxAnnotations

	if err := checkRange("num-cells", input.NumCells, MaxNumCells); err != nil {
		return err
	}
	cfg.NumCells = input.NumCells

	if err := checkRange("top", input.Top, MaxTopN); err != nil {
		return err
	}
	cfg.TopN = input.Top

	if input.ComboLimit <= 0 {
		return fmt.Errorf("combo-limit must be greater than 0 (received %d)", input.ComboLimit)
	}
	cfg.ComboLimit = input.ComboLimit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.SortType = schema.HeatmapSortType(strings.ToLower(defaultString(input.Sort, string(schema.SortBySeverity))))
	if _, ok := schema.ValidSortTypes[cfg.SortType]; !ok {
		return fmt.Errorf("invalid sort '%s'. must be severity, occurrence", input.Sort)
	}

	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(defaultString(input.LogLevel, "warn"))); err != nil {
		return fmt.Errorf("invalid log-level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	return nil
}

// processTimeRange resolves start and end against the configured clock.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := cfg.Now()
	cfg.EndTime = now
	cfg.StartTime = now.AddDate(0, 0, -DefaultLookbackDays)

	if input.End != "" {
		t, err := ParseTimeArg(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
		if input.Start == "" {
			cfg.StartTime = t.AddDate(0, 0, -DefaultLookbackDays)
		}
	}
	if input.Start != "" {
		t, err := ParseTimeArg(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}

	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// processEntities parses the parent entity pairs and the child field values.
func processEntities(cfg *Config, input *ConfigRawInput) error {
	entities, err := schema.ParseEntityList(input.Entity)
	if err != nil {
		return fmt.Errorf("invalid --entity: %w", err)
	}
	cfg.Entities = entities

	cfg.Children = nil
	seen := make(map[string]struct{})
	for _, e := range entities {
		seen[e.Name] = struct{}{}
	}
	for _, raw := range input.Child {
		fv, err := schema.ParseFieldValues(raw)
		if err != nil {
			return fmt.Errorf("invalid --child: %w", err)
		}
		if _, dup := seen[fv.Name]; dup {
			return fmt.Errorf("field %q is given more than once across --entity and --child", fv.Name)
		}
		seen[fv.Name] = struct{}{}
		cfg.Children = append(cfg.Children, fv)
	}
	return nil
}

// processMissingConfig validates the missing-data tuning constants.
func processMissingConfig(cfg *Config, input *ConfigRawInput) error {
	m := input.Missing
	if m.Offset < 0 {
		return fmt.Errorf("missing.offset must not be negative (received %d)", m.Offset)
	}
	if m.MediumThreshold < 1 {
		return fmt.Errorf("missing.medium-threshold must be at least 1 (received %d)", m.MediumThreshold)
	}
	if m.HighThreshold < m.MediumThreshold {
		return fmt.Errorf("missing.high-threshold (%d) must not be below missing.medium-threshold (%d)", m.HighThreshold, m.MediumThreshold)
	}
	cfg.Missing = MissingConfig{Offset: m.Offset, HighThreshold: m.HighThreshold, MediumThreshold: m.MediumThreshold}
	return nil
}

// processDetectorOverrides parses the detector metadata overrides.
func processDetectorOverrides(cfg *Config, input *ConfigRawInput) error {
	cfg.Overrides = DetectorOverrides{}
	if input.Interval < 0 {
		return fmt.Errorf("interval must not be negative (received %d)", input.Interval)
	}
	cfg.Overrides.IntervalMinutes = input.Interval

	if input.WindowDelay != "" {
		wd, err := ParseWindowDelay(input.WindowDelay)
		if err != nil {
			return err
		}
		cfg.Overrides.WindowDelay = &wd
	}

	for f := range strings.SplitSeq(input.CategoryFields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.Overrides.CategoryFields = append(cfg.Overrides.CategoryFields, f)
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

func checkRange(name string, v, limit int) error {
	if v <= 0 || v > limit {
		return fmt.Errorf("%s must be greater than 0 and cannot exceed %d (received %d)", name, limit, v)
	}
	return nil
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
