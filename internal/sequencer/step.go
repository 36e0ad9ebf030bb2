// Package sequencer executes provisioning steps in dependency order.
//
// A step is a named unit of work with an idempotency probe and an action.
// Steps declare the names of the steps they depend on; the sequencer derives
// a deterministic topological order for a requested set of steps, skips steps
// whose desired state already holds, and propagates failures according to a
// per-step policy.
package sequencer

import (
	"context"
	"fmt"
)

// OnFailure controls how a step failure affects the rest of the run.
type OnFailure int

const (
	// Fatal aborts the run: transitive dependents are marked failed and
	// no further actions execute.
	Fatal OnFailure = iota

	// BestEffort records the failure and continues with the next step.
	// Teardown steps use this so a partially-absent resource does not
	// block the rest of the cleanup.
	BestEffort
)

// String returns the policy name.
func (p OnFailure) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// Step is a named, idempotency-checked unit of provisioning work.
type Step struct {
	// Name uniquely identifies the step within a registry.
	Name string

	// DependsOn lists steps that must be skipped or succeed before this
	// step runs.
	DependsOn []string

	// IsSatisfied probes whether the step's desired external state
	// already holds. It must not mutate external state. A non-nil error
	// means the probe could not determine the state (for example the
	// external system is unreachable) and is treated as a step failure
	// under the step's policy.
	IsSatisfied func(ctx context.Context) (bool, error)

	// Action performs the step's work. Only called when IsSatisfied
	// reported false.
	Action func(ctx context.Context) error

	// OnFailure is the failure-propagation policy. Zero value is Fatal.
	OnFailure OnFailure
}

// Registry holds the static set of step definitions. Registration order is
// the tie-break for topological ordering, so runs are reproducible.
type Registry struct {
	steps map[string]*Step
	order []string
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]*Step)}
}

// Register adds a step definition. Duplicate names and anonymous steps are
// configuration errors.
func (r *Registry) Register(step *Step) error {
	if step.Name == "" {
		return fmt.Errorf("step has no name")
	}
	if _, exists := r.steps[step.Name]; exists {
		return fmt.Errorf("duplicate step name: %s", step.Name)
	}
	r.steps[step.Name] = step
	r.order = append(r.order, step.Name)
	return nil
}

// Get returns the step with the given name, or nil.
func (r *Registry) Get(name string) *Step {
	return r.steps[name]
}

// Names returns all registered step names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.order)
}
