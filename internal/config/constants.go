package config

// Application constants - all hardcoded values for the CyclePulse pipeline
const (
	// Application Info
	AppName = "CyclePulse"

	// Environment variable prefix (CYCLE_INPUT_DIR, CYCLE_LOGGING_LEVEL, ...)
	EnvPrefix = "CYCLE"

	// Timestamp Layouts
	// Trip logs carry local timestamps with or without a seconds component.
	TimestampLayout       = "2006-01-02 15:04:05"
	TimestampLayoutMinute = "2006-01-02 15:04"

	// File Paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultInputDir   = "data/trips"
	DefaultReportsDir = "data/reports"
	DefaultChartsDir  = "data/charts"
	DefaultLogsDir    = "logs"

	// Trip file discovery
	DefaultTripFilePattern = "*.csv"

	// Well-known report files
	CleanedTripsCSVName = "cleaned_trips.csv"
	SummariesJSONName   = "ride_summaries.json"
	SummaryWorkbookName = "ride_summaries.xlsx"
	SummaryCSVPrefix    = "summary_"
	CSVFileExtension    = ".csv"

	// Chart output
	ChartFileExtension       = ".png"
	DefaultChartWidthInches  = 8
	DefaultChartHeightInches = 5

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "both"
	DefaultLogFile   = "logs/cyclepulse.log"
)
