package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cyclecli/internal/infrastructure"
)

// Manager orchestrates operation execution. Steps run strictly one at a
// time in dependency order; the first failure ends the run and every step
// that depends on the failed one is skipped. There is no retry path: a trip
// file that fails to parse on the second attempt fails on the third too.
type Manager struct {
	registry *Registry
	logger   *slog.Logger

	// Active operations
	mu         sync.RWMutex
	operations map[string]*OperationState
}

// NewManager creates a new operation manager
func NewManager(registry *Registry, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry:   registry,
		logger:     infrastructure.WithComponent(logger, "operations"),
		operations: make(map[string]*OperationState),
	}
}

// RegisterStage registers a step with the manager
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs the full pipeline for the given request
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = fmt.Sprintf("run-%s", infrastructure.GenerateTraceID()[:8])
	}

	// Every log line of the run carries the run ID as its trace ID
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID)
	m.storeOperation(state)
	defer m.removeOperation(req.ID)

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		err = NewFatalError("failed to order pipeline steps", err)
		state.Fail(err)
		return m.createResponse(state), err
	}

	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", req.ID),
		slog.Int("steps", len(steps)))

	state.Start()
	err = m.executeSequential(ctx, state, steps)

	if err != nil {
		state.Fail(err)
		m.logger.ErrorContext(ctx, "operation failed",
			slog.String("operation_id", req.ID),
			slog.Duration("duration", state.Duration()),
			slog.String("error", err.Error()))
	} else {
		state.Complete()
		m.logger.InfoContext(ctx, "operation completed",
			slog.String("operation_id", req.ID),
			slog.Duration("duration", state.Duration()))
	}

	return m.createResponse(state), err
}

// executeSequential executes steps one by one in dependency order
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "operation cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			return NewCancellationError(step.ID())
		default:
		}

		stepState := state.GetStage(step.ID())
		if stepState != nil && stepState.Status == StepStatusSkipped {
			continue
		}

		m.logger.InfoContext(ctx, "executing step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.skipDependentStages(state, steps, step.ID())
			return err
		}
	}
	return nil
}

// executeStage executes a single step: dependency check, validation, run.
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if depErr := m.checkDependencies(state, step); depErr != nil {
		stepState.Skip(fmt.Sprintf("dependencies not met: %v", depErr))
		return depErr
	}

	if err := step.Validate(state); err != nil {
		m.logger.WarnContext(ctx, "step validation failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		return NewValidationError(step.ID(), err.Error())
	}

	stepState.Start()
	startTime := time.Now()
	err := step.Execute(ctx, state)
	duration := time.Since(startTime)

	if err != nil {
		stepState.Fail(err)
		m.logger.ErrorContext(ctx, "step failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return WrapError(err, step.ID(), "step execution failed")
	}

	stepState.Complete()
	m.logger.InfoContext(ctx, "step completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipDependentStages marks all steps that depend on the failed step as skipped
func (m *Manager) skipDependentStages(state *OperationState, steps []Step, failedStageID string) {
	for _, step := range steps {
		for _, dep := range step.GetDependencies() {
			if dep == failedStageID {
				stepState := state.GetStage(step.ID())
				if stepState != nil && stepState.Status == StepStatusPending {
					stepState.Skip(fmt.Sprintf("dependency %s failed", failedStageID))
					// Recursively skip steps that depend on this one
					m.skipDependentStages(state, steps, step.ID())
				}
				break
			}
		}
	}
}

// checkDependencies verifies that all dependencies completed
func (m *Manager) checkDependencies(state *OperationState, step Step) *OperationError {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not found", dep))
		}
		if depState.Status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep,
				fmt.Sprintf("dependency %s not completed (status: %s)", dep, depState.Status))
		}
	}
	return nil
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    state.Steps,
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}

	return resp
}

// GetOperation retrieves the state of a running operation
func (m *Manager) GetOperation(id string) (*OperationState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.operations[id]
	if !exists {
		return nil, ErrOperationNotFound
	}

	return state.Clone(), nil
}

// storeOperation stores an operation state
func (m *Manager) storeOperation(state *OperationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[state.ID] = state
}

// removeOperation removes an operation state
func (m *Manager) removeOperation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operations, id)
}
