package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// HeatmapSortType represents how heatmap rows are ordered.
	HeatmapSortType string

	// DatabaseBackend represents the backend that serves raw result sets.
	DatabaseBackend string

	// TimeUnit represents the unit of a detector window delay.
	TimeUnit string

	// MissingSeverity represents how badly a series is missing data.
	MissingSeverity string
)

// Time constants in epoch milliseconds.
const (
	OneSecondMillis int64 = 1000
	OneMinuteMillis       = 60 * OneSecondMillis
	OneHourMillis         = 60 * OneMinuteMillis
	OneDayMillis          = 24 * OneHourMillis
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All heatmap sort types supported.
const (
	SortBySeverity   HeatmapSortType = "severity" // default
	SortByOccurrence HeatmapSortType = "occurrence"
)

// All source backends supported.
const (
	FileBackend       DatabaseBackend = "file" // default
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All window delay units supported.
const (
	Seconds TimeUnit = "seconds"
	Minutes TimeUnit = "minutes"
	Hours   TimeUnit = "hours"
	Days    TimeUnit = "days"
)

// All missing data severities.
const (
	MissingNone   MissingSeverity = "none"
	MissingLow    MissingSeverity = "low"
	MissingMedium MissingSeverity = "medium"
	MissingHigh   MissingSeverity = "high"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSortTypes lists all valid heatmap sort types.
var ValidSortTypes = map[HeatmapSortType]struct{}{
	SortBySeverity:   {},
	SortByOccurrence: {},
}

// ValidDatabaseBackends lists all valid source backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	FileBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// TimeUnitMillis maps each window delay unit to its length in milliseconds.
var TimeUnitMillis = map[TimeUnit]int64{
	Seconds: OneSecondMillis,
	Minutes: OneMinuteMillis,
	Hours:   OneHourMillis,
	Days:    OneDayMillis,
}
