// Package operations orchestrates the trip analysis pipeline as a sequence
// of dependent steps.
//
// The pipeline runs strictly one step at a time in dependency order: load,
// clean, summarize, then export and charts. Each step hands its output to
// the next through the shared operation state, and the export step is the
// only place anything is written to disk besides the charts.
//
// Core components:
//
// Manager: runs a registered pipeline from start to finish. The first step
// failure ends the run and every step downstream of the failure is skipped.
// There is no retry path; a trip file that fails to parse will fail the same
// way on every attempt.
//
// Step: a single unit of work with an ID, a name, and the IDs of the steps
// it depends on. Validate runs before Execute so setup problems surface as
// validation errors rather than mid-run failures.
//
// Registry: holds the registered steps and resolves their execution order
// by topological sort, rejecting missing dependencies and cycles.
//
// OperationState: tracks the run and per-step status plus the in-memory
// working set (raw rows, cleaned trips, summary tables) that steps pass
// between each other.
//
// Example usage:
//
//	registry, err := operations.NewStandardRegistry(cfg, paths, logger)
//	if err != nil {
//		return err
//	}
//	manager := operations.NewManager(registry, logger)
//	resp, err := manager.Execute(ctx, operations.OperationRequest{})
package operations
