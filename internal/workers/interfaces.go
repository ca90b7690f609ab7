// Package workers provides abstractions for managing and running
// background workers of the sync agent.
// It defines the Worker interface, a Workers aggregate that runs
// multiple workers in a unified way, and the periodic sync job driving
// the sync engine.
package workers

// Worker is the interface that must be implemented by any background
// worker. It defines a single Run method that starts the worker's
// execution.
//
// Implementations are expected to block for the duration of their work
// or spawn goroutines internally.
type Worker interface {
	Run()
}
