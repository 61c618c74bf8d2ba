package store

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction      = errors.New("invalid action")
	ErrReentrantDispatch  = errors.New("reentrant dispatch")
	ErrInvalidStateAccess = errors.New("invalid state access while reducing")
	ErrPrematureDispatch  = errors.New("dispatch while constructing middleware")
	ErrMisbehavingReducer = errors.New("misbehaving reducer")
	ErrTooManyEnhancers   = errors.New("more than one enhancer")
)

// ShapeRule names the reducer contract a slice reducer violated.
type ShapeRule string

const (
	RuleInitialState  ShapeRule = "initial-state"
	RuleUnknownAction ShapeRule = "unknown-action"
	RuleSliceKey      ShapeRule = "slice-key"
)

// ReducerShapeError is returned by a combined reducer whose slices failed
// validation. It matches ErrMisbehavingReducer with errors.Is.
type ReducerShapeError struct {
	Key  string
	Rule ShapeRule
	Err  error
}

func (e *ReducerShapeError) Error() string {
	var msg string
	switch e.Rule {
	case RuleInitialState:
		msg = fmt.Sprintf("reducer %q returned an absent state during initialization; "+
			"when given an undefined state it must return an explicit initial state", e.Key)
	case RuleUnknownAction:
		msg = fmt.Sprintf("reducer %q did not return the current state when probed with an unknown action; "+
			"do not handle %s or other actions in the reserved namespace, return the current state instead",
			e.Key, ActionInit)
	default:
		msg = fmt.Sprintf("reducer %q: invalid slice key", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReducerShapeError) Is(target error) bool {
	return target == ErrMisbehavingReducer
}

func (e *ReducerShapeError) Unwrap() error {
	return e.Err
}

var (
	ErrNilReducer  = errors.New("reducer is nil")
	ErrNilListener = errors.New("listener is nil")
)
