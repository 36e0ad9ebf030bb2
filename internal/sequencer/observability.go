package sequencer

import "log"

// Observer receives step lifecycle events during a run.
type Observer interface {
	// StepStarted is emitted before a step's satisfaction check runs.
	StepStarted(name string, position, total int)

	// StepSkipped is emitted when the idempotency check reported the
	// desired state already holds.
	StepSkipped(name string)

	// StepSucceeded is emitted after a step's action completes.
	StepSucceeded(name string)

	// StepFailed is emitted when a step fails, including dependency
	// failures recorded without running the action.
	StepFailed(name, reason string)
}

// ConsoleObserver logs step events using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// StepStarted implements Observer.
func (o *ConsoleObserver) StepStarted(name string, position, total int) {
	log.Printf("[%s] (%d/%d) starting", name, position, total)
}

// StepSkipped implements Observer.
func (o *ConsoleObserver) StepSkipped(name string) {
	log.Printf("[%s] already satisfied, skipping", name)
}

// StepSucceeded implements Observer.
func (o *ConsoleObserver) StepSucceeded(name string) {
	log.Printf("[%s] completed", name)
}

// StepFailed implements Observer.
func (o *ConsoleObserver) StepFailed(name, reason string) {
	log.Printf("[%s] failed: %s", name, reason)
}

// NopObserver discards all events. Used in tests.
type NopObserver struct{}

func (NopObserver) StepStarted(string, int, int) {}
func (NopObserver) StepSkipped(string)           {}
func (NopObserver) StepSucceeded(string)         {}
func (NopObserver) StepFailed(string, string)    {}
