package abi

import (
	"slices"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

// Outcome is the classification of a host status code.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	OutcomeAbsent
	OutcomeErr
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAbsent:
		return "absent"
	default:
		return "err"
	}
}

// Classify maps a host status to OK, Absent (when code is one of absent) or Err.
// The success code always classifies as OK, even if listed in absent.
func Classify(c entities.ErrorCode, absent ...entities.ErrorCode) Outcome {
	switch {
	case c == entities.OK:
		return OutcomeOK
	case slices.Contains(absent, c):
		return OutcomeAbsent
	default:
		return OutcomeErr
	}
}

// Check returns nil for OK and a *errors.HostError naming op otherwise.
func Check(op string, c entities.ErrorCode) error {
	if Classify(c) == OutcomeOK {
		return nil
	}
	return &errors.HostError{Op: op, Code: c}
}
