package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindActionCreator(t *testing.T) {
	s := mustCreate(t, counterReducer, nil)
	add := BindActionCreator(func() any { return increment{by: 4} }, s.Dispatch)

	action, err := add()

	require.NoError(t, err)
	assert.Equal(t, increment{by: 4}, action)
	assert.Equal(t, 4, mustState(t, s))
}

func TestBindActionCreator_ReturnsActionOnFailure(t *testing.T) {
	s := mustCreate(t, counterReducer, nil)
	bad := BindActionCreator(func() any { return 42 }, s.Dispatch)

	action, err := bad()

	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, 42, action)
	assert.Equal(t, 0, mustState(t, s))
}

func TestBindActionCreators_KeepsOrder(t *testing.T) {
	s := mustCreate(t, counterReducer, nil)
	bound := BindActionCreators([]ActionCreator{
		func() any { return increment{by: 1} },
		func() any { return increment{by: 10} },
	}, s.Dispatch)

	require.Len(t, bound, 2)
	_, err := bound[1]()
	require.NoError(t, err)
	assert.Equal(t, 10, mustState(t, s))

	_, err = bound[0]()
	require.NoError(t, err)
	assert.Equal(t, 11, mustState(t, s))
}
