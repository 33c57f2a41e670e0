package ui

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned by ParseStatusLevel for unknown levels.
var ErrInvalidStatus = errors.New("invalid status level")

// StatusLevel selects how much progress output a run produces.
type StatusLevel int

const (
	StatusNone StatusLevel = iota
	StatusNoxfer
	StatusProgress
	StatusBitArray
)

var statusNames = [...]string{
	StatusNone:     "none",
	StatusNoxfer:   "noxfer",
	StatusProgress: "progress",
	StatusBitArray: "bitarray",
}

func (l StatusLevel) String() string {
	if l >= 0 && int(l) < len(statusNames) {
		return statusNames[l]
	}
	return fmt.Sprintf("StatusLevel(%d)", int(l))
}

// ParseStatusLevel parses a --status value. The empty string selects the
// default level, noxfer.
func ParseStatusLevel(s string) (StatusLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "noxfer":
		return StatusNoxfer, nil
	case "none":
		return StatusNone, nil
	case "progress":
		return StatusProgress, nil
	case "bitarray":
		return StatusBitArray, nil
	}
	return StatusNone, fmt.Errorf("%w %q (want none, noxfer, progress or bitarray)", ErrInvalidStatus, s)
}
