package middleware

import (
	"context"
	"testing"

	"flowstore/internal/metrics"
	"flowstore/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_DisposeOldCancelsRunning(t *testing.T) {
	scope := NewScope(DisposeOld)

	first, doneFirst, ok := scope.Begin(context.Background())
	require.True(t, ok)
	second, doneSecond, ok := scope.Begin(context.Background())
	require.True(t, ok)

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())

	doneFirst()
	assert.True(t, scope.Active(), "a stale done must not release the newer operation")

	doneSecond()
	assert.False(t, scope.Active())
	assert.ErrorIs(t, second.Err(), context.Canceled)
}

func TestScope_DropNewKeepsRunning(t *testing.T) {
	scope := NewScope(DropNew)

	running, done, ok := scope.Begin(context.Background())
	require.True(t, ok)

	dropped, _, ok := scope.Begin(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, dropped.Err(), context.Canceled)
	assert.NoError(t, running.Err())

	done()
	_, done, ok = scope.Begin(context.Background())
	assert.True(t, ok, "a finished operation frees the slot")
	done()
}

func TestScope_Dispose(t *testing.T) {
	scope := NewScope(DropNew)
	ctx, done, ok := scope.Begin(context.Background())
	require.True(t, ok)

	scope.Dispose()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, scope.Active())
	done()
	assert.False(t, scope.Active())
}

func TestScope_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	scope := NewScope(DisposeOld)
	ctx, done, ok := scope.Begin(parent)
	require.True(t, ok)
	defer done()

	cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestScope_CountsOutcomes(t *testing.T) {
	replaced := metrics.DisposablesTotal.WithLabelValues("dispose-old", "replaced")
	dropped := metrics.DisposablesTotal.WithLabelValues("drop-new", "dropped")
	replacedBefore, droppedBefore := metrics.CounterValue(replaced), metrics.CounterValue(dropped)

	old := NewScope(DisposeOld)
	old.Begin(context.Background())
	old.Begin(context.Background())

	keep := NewScope(DropNew)
	keep.Begin(context.Background())
	keep.Begin(context.Background())

	assert.Equal(t, replacedBefore+1, metrics.CounterValue(replaced))
	assert.Equal(t, droppedBefore+1, metrics.CounterValue(dropped))
}

type start struct{}

func TestDisposable_ScopePerStore(t *testing.T) {
	var scopes []*Scope
	factory := Disposable(DropNew, func(api store.API[int], next store.Dispatch, action any, scope *Scope) (any, error) {
		if _, ok := action.(start); ok {
			scopes = append(scopes, scope)
			_, _, accepted := scope.Begin(context.Background())
			if !accepted {
				return nil, nil
			}
			return next(add{By: 1})
		}
		return next(action)
	})

	a := newStore(t, factory)
	b := newStore(t, factory)

	for _, s := range []store.Store[int]{a, b, a} {
		_, err := s.Dispatch(start{})
		require.NoError(t, err)
	}

	require.Len(t, scopes, 3)
	assert.Same(t, scopes[0], scopes[2])
	assert.NotSame(t, scopes[0], scopes[1])
	assert.Equal(t, 1, stateOf(t, a), "second start on a is dropped")
	assert.Equal(t, 1, stateOf(t, b))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "dispose-old", DisposeOld.String())
	assert.Equal(t, "drop-new", DropNew.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
