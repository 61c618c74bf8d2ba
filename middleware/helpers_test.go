package middleware

import (
	"testing"

	"flowstore/store"

	"github.com/stretchr/testify/require"
)

const reset store.ActionType = "test/reset"

type add struct {
	By int `json:"by"`
}

func (add) Type() string { return "test/add" }

func counter(state int, action store.Action) (int, error) {
	switch a := action.(type) {
	case add:
		return state + a.By, nil
	case store.ActionType:
		if a == reset {
			return 0, nil
		}
	}
	return state, nil
}

func newStore(t *testing.T, factories ...store.MiddlewareFactory[int]) store.Store[int] {
	t.Helper()
	s, err := store.Create(counter, nil, store.ApplyMiddleware(factories...))
	require.NoError(t, err)
	return s
}

func stateOf(t *testing.T, s store.Store[int]) int {
	t.Helper()
	v, err := s.GetState()
	require.NoError(t, err)
	return v
}
