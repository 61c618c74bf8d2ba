package store

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Combined is the immutable state produced by CombineReducers: one value per
// slice key, in declaration order. A nil *Combined is the undefined state.
type Combined struct {
	keys   []string
	values map[string]any
}

// NewCombined builds a combined state, typically to preload a store. Keys are
// kept in sorted order until the first reduction reorders them.
func NewCombined(values map[string]any) *Combined {
	return &Combined{
		keys:   slices.Sorted(maps.Keys(values)),
		values: maps.Clone(values),
	}
}

func (c *Combined) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

func (c *Combined) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

func (c *Combined) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

func (c *Combined) String() string {
	if c == nil {
		return "<undefined>"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%v", k, c.values[k])
	}
	b.WriteByte('}')
	return b.String()
}

// SliceOf returns the slice stored under key with its concrete type.
func SliceOf[T any](c *Combined, key string) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// SliceReducer is one named child of a combined reducer. Build it with Slice.
type SliceReducer interface {
	Key() string
	reduce(prev any, present bool, action Action) (next any, changed bool, err error)
	validate() error
}

// Slice binds a reducer to a key of the combined state. T is comparable so
// that an unchanged slice can be detected with ==; use pointers for
// collection-valued slices. With an interface T, a value whose dynamic type
// is not comparable always counts as changed.
func Slice[T comparable](key string, reducer Reducer[T]) SliceReducer {
	return &slice[T]{key: key, reducer: reducer}
}

type slice[T comparable] struct {
	key     string
	reducer Reducer[T]
}

func (s *slice[T]) Key() string {
	return s.key
}

func (s *slice[T]) reduce(prev any, present bool, action Action) (any, bool, error) {
	var current T
	if present && prev != nil {
		v, ok := prev.(T)
		if !ok {
			return nil, false, fmt.Errorf("slice %q holds %T, want %T", s.key, prev, current)
		}
		current = v
	}

	next, err := s.reducer(current, action)
	if err != nil {
		return nil, false, fmt.Errorf("slice %q: %w", s.key, err)
	}
	eq, ok := equal(next, current)
	return next, !present || !ok || !eq, nil
}

// validate runs the reducer with INIT on the undefined state, then with a
// random action on the result. A panic in either call is reported as the
// rule being checked.
func (s *slice[T]) validate() (err error) {
	if s.reducer == nil {
		return &ReducerShapeError{Key: s.key, Rule: RuleInitialState, Err: ErrNilReducer}
	}

	rule := RuleInitialState
	defer func() {
		if r := recover(); r != nil {
			err = &ReducerShapeError{Key: s.key, Rule: rule, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var undefined T
	initial, err := s.reducer(undefined, ActionInit)
	if err != nil || isAbsent(initial) {
		return &ReducerShapeError{Key: s.key, Rule: RuleInitialState, Err: err}
	}

	rule = RuleUnknownAction
	probed, err := s.reducer(initial, ProbeAction())
	if err != nil {
		return &ReducerShapeError{Key: s.key, Rule: RuleUnknownAction, Err: err}
	}
	eq, ok := equal(probed, initial)
	if !ok {
		return &ReducerShapeError{Key: s.key, Rule: RuleUnknownAction, Err: fmt.Errorf("state of type %T is not comparable", initial)}
	}
	if !eq {
		return &ReducerShapeError{Key: s.key, Rule: RuleUnknownAction}
	}
	return nil
}

// equal compares with ==. ok is false when T is an interface type holding a
// dynamic value that cannot be compared, such as a slice or map.
func equal[T comparable](a, b T) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}

// CombineReducers merges slice reducers into one reducer over *Combined. Every
// slice sees every action. When no slice changes, the previous *Combined is
// returned as is.
//
// Slices are validated once, here. A failure does not surface until the
// returned reducer is first called, and every call after that returns it.
func CombineReducers(reducers ...SliceReducer) Reducer[*Combined] {
	shapeErr := assertReducerShapes(reducers)
	if shapeErr != nil {
		slog.Debug("reducer shape validation failed", "error", shapeErr)
	}

	keys := make([]string, 0, len(reducers))
	for _, sr := range reducers {
		if sr != nil {
			keys = append(keys, sr.Key())
		}
	}

	return func(state *Combined, action Action) (*Combined, error) {
		if shapeErr != nil {
			return state, shapeErr
		}

		changed := state.Len() != len(reducers)
		values := make(map[string]any, len(reducers))
		for _, sr := range reducers {
			prev, present := state.Get(sr.Key())
			next, sliceChanged, err := sr.reduce(prev, present, action)
			if err != nil {
				return state, err
			}
			values[sr.Key()] = next
			changed = changed || sliceChanged
		}

		if !changed {
			return state, nil
		}
		return &Combined{keys: keys, values: values}, nil
	}
}

func assertReducerShapes(reducers []SliceReducer) error {
	seen := make(map[string]struct{}, len(reducers))
	for i, sr := range reducers {
		if sr == nil {
			return &ReducerShapeError{Key: fmt.Sprintf("#%d", i), Rule: RuleSliceKey, Err: ErrNilReducer}
		}
		key := sr.Key()
		if key == "" {
			return &ReducerShapeError{Key: fmt.Sprintf("#%d", i), Rule: RuleSliceKey, Err: fmt.Errorf("empty key")}
		}
		if _, dup := seen[key]; dup {
			return &ReducerShapeError{Key: key, Rule: RuleSliceKey, Err: fmt.Errorf("duplicate key")}
		}
		seen[key] = struct{}{}

		if err := sr.validate(); err != nil {
			return err
		}
	}
	return nil
}
