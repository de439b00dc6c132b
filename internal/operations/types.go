package operations

import (
	"time"
)

// operation step identifiers
const (
	StageIDLoad      = "load"
	StageIDClean     = "clean"
	StageIDSummarize = "summarize"
	StageIDExport    = "export"
	StageIDCharts    = "charts"
)

// operation step names
const (
	StageNameLoad      = "Trip Loading"
	StageNameClean     = "Trip Cleaning"
	StageNameSummarize = "Ride Summaries"
	StageNameExport    = "Report Export"
	StageNameCharts    = "Chart Rendering"
)

// Context keys for run metadata steps publish into the operation state.
const (
	ContextKeyInputDir       = "input_dir"
	ContextKeyRowsLoaded     = "rows_loaded"
	ContextKeyRowsRetained   = "rows_retained"
	ContextKeyTablesBuilt    = "tables_built"
	ContextKeyReportsWritten = "reports_written"
	ContextKeyChartsRendered = "charts_rendered"
)

// OperationRequest represents a request to execute an operation. The ID is
// optional; the manager assigns one when it is empty.
type OperationRequest struct {
	ID string `json:"id"`
}

// OperationResponse represents the outcome of an operation execution
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}
