package store

import "github.com/google/uuid"

// Action describes something that happened. Applications declare a closed set
// of concrete action types and switch over them in their reducers.
type Action interface {
	Type() string
}

// ActionType is a bare discriminator that is itself a valid Action.
type ActionType string

func (t ActionType) Type() string {
	return string(t)
}

const reservedPrefix = "@@flowstore/"

// Reserved actions. Reducers must treat them like any other unknown action.
const (
	ActionInit    ActionType = reservedPrefix + "INIT"
	ActionReplace ActionType = reservedPrefix + "REPLACE"
)

// ProbeAction returns an action with a random, unguessable type. It is used
// for reducer shape validation only.
func ProbeAction() ActionType {
	return ActionType(reservedPrefix + "PROBE_UNKNOWN_ACTION_" + uuid.NewString())
}

// IsReserved reports whether the action type belongs to the store's namespace.
func IsReserved(a Action) bool {
	if a == nil {
		return false
	}
	t := a.Type()
	return len(t) >= len(reservedPrefix) && t[:len(reservedPrefix)] == reservedPrefix
}

// Reducer computes the next state from the current state and an action. It
// must return the state it was given for actions it does not handle, and must
// never mutate its input. A returned error aborts the dispatch.
type Reducer[S any] func(state S, action Action) (S, error)

// Dispatch submits an Action, or an async value for middleware to resolve.
type Dispatch func(action any) (any, error)

// Listener is notified, without arguments, after every successful dispatch.
type Listener func()

// Unsubscribe removes a listener. Calling it more than once is a no-op.
type Unsubscribe func() error
