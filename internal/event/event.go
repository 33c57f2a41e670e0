package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	RunStarted Type = iota + 1
	BlockWritten
	ReadFailed
	ReadSkipped
	WriteFailed
	InputExhausted
)

var typeNames = [...]string{
	RunStarted:     "RunStarted",
	BlockWritten:   "BlockWritten",
	ReadFailed:     "ReadFailed",
	ReadSkipped:    "ReadSkipped",
	WriteFailed:    "WriteFailed",
	InputExhausted: "InputExhausted",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Block     int64 // 1-based block number (BlockWritten, WriteFailed)
	Offset    int64 // destination offset (BlockWritten, WriteFailed), source offset (ReadSkipped)
	Size      int64 // bytes written, or the block size that failed
	Total     int64 // destination size (RunStarted)
	Error     error
}
