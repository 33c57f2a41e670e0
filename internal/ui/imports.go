package ui

import "github.com/bamsammich/rdd/internal/event"

// Event is the engine progress event consumed by presenters.
type Event = event.Event

// Re-export event types for convenience.
const (
	RunStarted     = event.RunStarted
	BlockWritten   = event.BlockWritten
	ReadFailed     = event.ReadFailed
	ReadSkipped    = event.ReadSkipped
	WriteFailed    = event.WriteFailed
	InputExhausted = event.InputExhausted
)
