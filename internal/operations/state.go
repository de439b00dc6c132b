package operations

import (
	"sync"
	"time"

	"cyclecli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// Context keys for the in-memory working set steps hand to each other.
// Nothing here persists; the export step is what writes files.
const (
	contextKeyRecords     = "trip_records"
	contextKeyTrips       = "cleaned_trips"
	contextKeyTables      = "summary_tables"
	contextKeyCleanReport = "clean_report"
	contextKeySourceFiles = "source_files"
)

// OperationState represents the complete state of an operation execution
type OperationState struct {
	mu sync.RWMutex

	// Basic operation information
	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	// Step states
	Steps map[string]*StepState `json:"steps"`

	// operation context for passing data between steps
	Context map[string]interface{} `json:"-"`

	// Error if operation failed
	Error error `json:"error,omitempty"`
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
}

// GetStage returns the state of a specific step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// SetRecords stores the raw trip rows the loading step produced.
func (p *OperationState) SetRecords(records []domain.TripRecord) {
	p.SetContext(contextKeyRecords, records)
}

// Records returns the raw trip rows, if the loading step has run.
func (p *OperationState) Records() ([]domain.TripRecord, bool) {
	val, ok := p.GetContext(contextKeyRecords)
	if !ok {
		return nil, false
	}
	records, ok := val.([]domain.TripRecord)
	return records, ok
}

// SetCleanedTrips stores the cleaned working set.
func (p *OperationState) SetCleanedTrips(trips []domain.CleanedTrip) {
	p.SetContext(contextKeyTrips, trips)
}

// CleanedTrips returns the cleaned working set, if the cleaning step has run.
func (p *OperationState) CleanedTrips() ([]domain.CleanedTrip, bool) {
	val, ok := p.GetContext(contextKeyTrips)
	if !ok {
		return nil, false
	}
	trips, ok := val.([]domain.CleanedTrip)
	return trips, ok
}

// SetTables stores the generated summary tables.
func (p *OperationState) SetTables(tables []*domain.SummaryTable) {
	p.SetContext(contextKeyTables, tables)
}

// Tables returns the summary tables, if the summarize step has run.
func (p *OperationState) Tables() ([]*domain.SummaryTable, bool) {
	val, ok := p.GetContext(contextKeyTables)
	if !ok {
		return nil, false
	}
	tables, ok := val.([]*domain.SummaryTable)
	return tables, ok
}

// SetCleanReport stores the cleaning step's data-quality accounting.
func (p *OperationState) SetCleanReport(report domain.CleanReport) {
	p.SetContext(contextKeyCleanReport, report)
}

// CleanReport returns the data-quality accounting, if the cleaning step has run.
func (p *OperationState) CleanReport() (domain.CleanReport, bool) {
	val, ok := p.GetContext(contextKeyCleanReport)
	if !ok {
		return domain.CleanReport{}, false
	}
	report, ok := val.(domain.CleanReport)
	return report, ok
}

// SetSourceFiles stores the names of the trip files that were loaded.
func (p *OperationState) SetSourceFiles(files []string) {
	p.SetContext(contextKeySourceFiles, files)
}

// SourceFiles returns the loaded trip file names.
func (p *OperationState) SourceFiles() ([]string, bool) {
	val, ok := p.GetContext(contextKeySourceFiles)
	if !ok {
		return nil, false
	}
	files, ok := val.([]string)
	return files, ok
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// GetFailedStages returns all failed steps
func (p *OperationState) GetFailedStages() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var failed []*StepState
	for _, step := range p.Steps {
		if step.Status == StepStatusFailed {
			failed = append(failed, step)
		}
	}
	return failed
}

// IsComplete returns true if all steps are completed or skipped
func (p *OperationState) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		if step.Status == StepStatusPending || step.Status == StepStatusActive {
			return false
		}
	}
	return true
}

// HasFailures returns true if any step has failed
func (p *OperationState) HasFailures() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		if step.Status == StepStatusFailed {
			return true
		}
	}
	return false
}

// Clone creates a copy of the operation state for safe external inspection.
// Step states are copied; the working-set context is shared, not duplicated,
// since the dataset can run to millions of rows.
func (p *OperationState) Clone() *OperationState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clone := &OperationState{
		ID:        p.ID,
		Status:    p.Status,
		StartTime: p.StartTime,
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
		Error:     p.Error,
	}

	if p.EndTime != nil {
		endTime := *p.EndTime
		clone.EndTime = &endTime
	}

	for k, v := range p.Steps {
		v.mu.RLock()
		stepCopy := &StepState{
			ID:        v.ID,
			Name:      v.Name,
			Status:    v.Status,
			StartTime: v.StartTime,
			EndTime:   v.EndTime,
			Progress:  v.Progress,
			Message:   v.Message,
			Error:     v.Error,
			Metadata:  make(map[string]interface{}),
		}
		for mk, mv := range v.Metadata {
			stepCopy.Metadata[mk] = mv
		}
		v.mu.RUnlock()
		clone.Steps[k] = stepCopy
	}

	for k, v := range p.Context {
		clone.Context[k] = v
	}

	return clone
}
