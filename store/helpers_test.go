package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type increment struct {
	by int
}

func (increment) Type() string { return "counter/increment" }

type rename struct {
	name string
}

func (rename) Type() string { return "profile/rename" }

type profile struct {
	name string
}

var defaultProfile = &profile{name: "anonymous"}

func counterReducer(state int, action Action) (int, error) {
	switch a := action.(type) {
	case increment:
		return state + a.by, nil
	default:
		return state, nil
	}
}

func profileReducer(state *profile, action Action) (*profile, error) {
	if state == nil {
		state = defaultProfile
	}
	switch a := action.(type) {
	case rename:
		return &profile{name: a.name}, nil
	default:
		return state, nil
	}
}

func mustCreate[S any](t *testing.T, reducer Reducer[S], preloaded *S, enhancers ...Enhancer[S]) Store[S] {
	t.Helper()
	s, err := Create(reducer, preloaded, enhancers...)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func mustState[S any](t *testing.T, s Store[S]) S {
	t.Helper()
	state, err := s.GetState()
	require.NoError(t, err)
	return state
}
