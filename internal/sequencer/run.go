package sequencer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for run-level misconfiguration. Step-level failures are
// recorded in Run.Results rather than returned.
var (
	// ErrCycleDetected indicates the dependency graph contains a cycle.
	// Detected before any action executes.
	ErrCycleDetected = errors.New("dependency cycle detected")

	// ErrUnknownStep indicates a requested or depended-on step name is not
	// in the registry.
	ErrUnknownStep = errors.New("unknown step")
)

// Status is the outcome of a single step within a run.
type Status int

const (
	// Skipped means the idempotency check reported the desired state
	// already holds; the action did not run.
	Skipped Status = iota

	// Succeeded means the action ran and returned no error.
	Succeeded

	// Failed means the action or its satisfaction check failed, or a
	// dependency failed under the Fatal policy.
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Succeeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Result records the outcome of one step.
type Result struct {
	Status Status
	Reason string // populated for Failed results
}

// Run is one execution of the sequencer against a requested subset of the
// step graph. It is discarded after Results is produced; the only state that
// outlives a run lives in the external systems the actions mutated.
type Run struct {
	// Requested holds the step names the invoker asked for.
	Requested []string

	// Order is the executed topological order: every step appears after
	// all of its dependencies. Deterministic for a fixed registry and
	// request.
	Order []string

	// Results maps step name to outcome for every step in Order.
	Results map[string]Result
}

// Failed reports whether any step in the run ended Failed.
func (r *Run) Failed() bool {
	for _, res := range r.Results {
		if res.Status == Failed {
			return true
		}
	}
	return false
}

// Err returns an error summarizing failed steps, or nil.
func (r *Run) Err() error {
	var failed []string
	for _, name := range r.Order {
		if res, ok := r.Results[name]; ok && res.Status == Failed {
			failed = append(failed, fmt.Sprintf("%s (%s)", name, res.Reason))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d step(s) failed: %s", len(failed), strings.Join(failed, ", "))
}

// dfs colors for cycle detection.
const (
	unvisited = iota
	inProgress
	done
)

// Execute runs the requested steps and their transitive dependencies in
// dependency order. Cycles and unknown step names are reported before any
// action executes. The observer receives one event per step outcome.
func Execute(ctx context.Context, reg *Registry, obs Observer, requested ...string) (*Run, error) {
	order, err := resolveOrder(reg, requested)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Requested: requested,
		Order:     order,
		Results:   make(map[string]Result, len(order)),
	}

	for i, name := range order {
		// A Fatal failure earlier in the run already recorded results
		// for this step's failed ancestors; the step itself may have
		// been marked as a transitive dependent.
		if _, executed := run.Results[name]; executed {
			continue
		}

		step := reg.Get(name)
		obs.StepStarted(name, i+1, len(order))

		result := executeStep(ctx, step)
		run.Results[name] = result

		switch result.Status {
		case Skipped:
			obs.StepSkipped(name)
		case Succeeded:
			obs.StepSucceeded(name)
		case Failed:
			obs.StepFailed(name, result.Reason)
			if step.OnFailure == Fatal {
				failDependents(reg, run, obs, order)
				return run, nil
			}
		}
	}

	return run, nil
}

// executeStep probes and, if needed, runs a single step.
func executeStep(ctx context.Context, step *Step) Result {
	satisfied, err := step.IsSatisfied(ctx)
	if err != nil {
		return Result{Status: Failed, Reason: fmt.Sprintf("satisfaction check error: %v", err)}
	}
	if satisfied {
		return Result{Status: Skipped}
	}
	if err := step.Action(ctx); err != nil {
		return Result{Status: Failed, Reason: err.Error()}
	}
	return Result{Status: Succeeded}
}

// failDependents marks every not-yet-executed transitive dependent of the
// failed step as Failed without invoking its action. Each marked step is
// reported to the observer like any other failure.
func failDependents(reg *Registry, run *Run, obs Observer, order []string) {
	// Walk the remaining order; a step inherits the failure if any of its
	// dependencies already carries a Failed result.
	for _, name := range order {
		if _, executed := run.Results[name]; executed {
			continue
		}
		step := reg.Get(name)
		for _, dep := range step.DependsOn {
			if res, ok := run.Results[dep]; ok && res.Status == Failed {
				run.Results[name] = Result{Status: Failed, Reason: "dependency failed"}
				obs.StepFailed(name, "dependency failed")
				break
			}
		}
	}
}

// resolveOrder computes the deterministic topological order of the requested
// steps and their transitive dependency closure. Uses a three-color DFS:
// hitting an in-progress node again is a back edge, i.e. a cycle.
func resolveOrder(reg *Registry, requested []string) ([]string, error) {
	if len(requested) == 0 {
		requested = reg.Names()
	}

	color := make(map[string]int, reg.Len())
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case done:
			return nil
		case inProgress:
			return fmt.Errorf("%w: %s", ErrCycleDetected, name)
		}

		step := reg.Get(name)
		if step == nil {
			return fmt.Errorf("%w: %s", ErrUnknownStep, name)
		}

		color[name] = inProgress
		for _, dep := range step.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range requested {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
