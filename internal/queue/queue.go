// Package queue defines the command sink: the append-only queue of pending
// mutation commands that the extension executor drains.
package queue

import "github.com/lotas/tabwarden/internal/types"

// Sink is the planner's write side of the command queue. Implementations
// must tolerate a missing backing store on Pending (absence of a prior
// queue means no commands, not an error). The persistence backing is
// interchangeable; the sqlite-backed implementation lives in the storage
// package.
type Sink interface {
	// Append adds a command to the queue.
	Append(cmd types.Command) error
	// Pending returns queued commands that have not been executed yet,
	// oldest first.
	Pending() ([]types.Command, error)
	// Clear empties the queue.
	Clear() error
}
