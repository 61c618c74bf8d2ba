package store

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Store holds one application state value. The only way to change it is to
// dispatch an action.
type Store[S any] interface {
	Dispatch(action any) (any, error)
	GetState() (S, error)
	Subscribe(listener Listener) (Unsubscribe, error)
	ReplaceReducer(next Reducer[S]) error
}

// Creator builds a store from a reducer and an optional preloaded state.
type Creator[S any] func(reducer Reducer[S], preloaded *S) (Store[S], error)

// Enhancer wraps a Creator to add capabilities such as middleware.
type Enhancer[S any] func(next Creator[S]) Creator[S]

// Create builds a store and dispatches ActionInit so the reducer can seed its
// default state. A nil preloaded leaves the state undefined (the zero value of
// S) for that first reduction. At most one enhancer is accepted; use
// ComposeEnhancers to stack several.
func Create[S any](reducer Reducer[S], preloaded *S, enhancers ...Enhancer[S]) (Store[S], error) {
	switch len(enhancers) {
	case 0:
	case 1:
		if enhancers[0] != nil {
			return enhancers[0](newStore[S])(reducer, preloaded)
		}
	default:
		return nil, fmt.Errorf("%w: got %d, combine them with ComposeEnhancers", ErrTooManyEnhancers, len(enhancers))
	}
	return newStore(reducer, preloaded)
}

type subscription struct {
	listener Listener
}

type store[S any] struct {
	mu      sync.Mutex
	reducer Reducer[S]
	state   S

	// committed is read by the dispatch in flight; pending takes subscribe and
	// unsubscribe. They share a backing array until pending is first mutated
	// after a commit.
	committed []*subscription
	pending   []*subscription
	diverged  bool

	reducing bool
	inFlight bool
}

func newStore[S any](reducer Reducer[S], preloaded *S) (Store[S], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}

	s := &store[S]{reducer: reducer}
	if preloaded != nil {
		s.state = *preloaded
	}

	if _, err := s.Dispatch(ActionInit); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	slog.Debug("store initialized", "preloaded", preloaded != nil)
	return s, nil
}

func (s *store[S]) GetState() (S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reducing {
		var zero S
		return zero, fmt.Errorf("%w: get state: the reducer has already received the state as an argument", ErrInvalidStateAccess)
	}
	return s.state, nil
}

func (s *store[S]) Subscribe(listener Listener) (Unsubscribe, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reducing {
		return nil, fmt.Errorf("%w: subscribe: subscribe after the reducer returns and read state in the listener", ErrInvalidStateAccess)
	}

	sub := &subscription{listener: listener}
	s.ensurePendingCopy()
	s.pending = append(s.pending, sub)

	subscribed := true
	return func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !subscribed {
			return nil
		}
		if s.reducing {
			return fmt.Errorf("%w: unsubscribe", ErrInvalidStateAccess)
		}

		subscribed = false
		s.ensurePendingCopy()
		s.pending = slices.DeleteFunc(s.pending, func(other *subscription) bool {
			return other == sub
		})
		return nil
	}, nil
}

// ensurePendingCopy gives pending its own backing array. Caller holds mu.
func (s *store[S]) ensurePendingCopy() {
	if s.diverged {
		return
	}
	s.pending = slices.Clone(s.committed)
	s.diverged = true
}

func (s *store[S]) Dispatch(action any) (any, error) {
	act, err := plainAction(action)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s dispatched while another action is being processed", ErrReentrantDispatch, act.Type())
	}
	s.inFlight = true
	s.reducing = true
	reducer, current := s.reducer, s.state
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reducing = false
		s.inFlight = false
		s.mu.Unlock()
	}()

	next, err := reducer(current, act)

	s.mu.Lock()
	s.reducing = false
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("reduce %s: %w", act.Type(), err)
	}
	s.state = next
	if s.diverged {
		s.committed = s.pending
		s.diverged = false
	}
	listeners := s.committed
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.listener()
	}

	return act, nil
}

func (s *store[S]) ReplaceReducer(next Reducer[S]) error {
	if next == nil {
		return ErrNilReducer
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return fmt.Errorf("%w: replace reducer", ErrReentrantDispatch)
	}
	s.reducer = next
	s.mu.Unlock()

	slog.Debug("reducer replaced")
	_, err := s.Dispatch(ActionReplace)
	return err
}

func plainAction(action any) (Action, error) {
	if isAbsent(action) {
		return nil, fmt.Errorf("%w: actions may not be nil", ErrInvalidAction)
	}
	act, ok := action.(Action)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an Action, async actions must be handled by middleware", ErrInvalidAction, action)
	}
	return act, nil
}

// isAbsent reports whether v is a nil interface or a nil reference value.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
