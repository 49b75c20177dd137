package model

import "fmt"

// ErrInvalidStateTransition is returned when a document or job is asked
// to move to a status its state machine does not allow.
type ErrInvalidStateTransition struct {
	error
}

func NewErrInvalidStateTransition(from, to string) *ErrInvalidStateTransition {
	return &ErrInvalidStateTransition{fmt.Errorf("invalid state transition from %s to %s", from, to)}
}
