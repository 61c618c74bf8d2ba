package store

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// API is the capability a middleware receives for one store.
type API[S any] interface {
	Dispatch(action any) (any, error)
	GetState() (S, error)
}

// Middleware intercepts actions between callers and the store. Wrap receives
// the next dispatch in the chain and returns the dispatch it exposes to the
// links before it.
type Middleware interface {
	Wrap(next Dispatch) Dispatch
}

// MiddlewareFactory builds the middleware instance for a single store.
type MiddlewareFactory[S any] func(api API[S]) Middleware

// WrapFunc adapts a function to the Middleware interface.
type WrapFunc func(next Dispatch) Dispatch

func (f WrapFunc) Wrap(next Dispatch) Dispatch {
	return f(next)
}

// Compose folds middlewares right to left, so the first one is the outermost:
// Compose(a, b)(d) behaves as a.Wrap(b.Wrap(d)).
func Compose(middlewares ...Middleware) func(Dispatch) Dispatch {
	switch len(middlewares) {
	case 0:
		return func(d Dispatch) Dispatch { return d }
	case 1:
		return middlewares[0].Wrap
	}

	return func(d Dispatch) Dispatch {
		for i := len(middlewares) - 1; i >= 0; i-- {
			d = middlewares[i].Wrap(d)
		}
		return d
	}
}

// ApplyMiddleware returns an enhancer that installs the middleware chain in
// front of the store's dispatch. Middleware must not dispatch while it is being
// constructed; doing so fails with ErrPrematureDispatch.
func ApplyMiddleware[S any](factories ...MiddlewareFactory[S]) Enhancer[S] {
	return func(next Creator[S]) Creator[S] {
		return func(reducer Reducer[S], preloaded *S) (Store[S], error) {
			base, err := next(reducer, preloaded)
			if err != nil {
				return nil, err
			}

			api := &middlewareAPI[S]{store: base}
			premature := Dispatch(func(any) (any, error) {
				return nil, fmt.Errorf("%w: other middleware would not be applied to this dispatch", ErrPrematureDispatch)
			})
			api.dispatch.Store(&premature)

			chain := make([]Middleware, 0, len(factories))
			for i, factory := range factories {
				if factory == nil {
					return nil, fmt.Errorf("middleware factory %d is nil", i)
				}
				mw := factory(api)
				if mw == nil {
					return nil, fmt.Errorf("middleware factory %d returned nil", i)
				}
				chain = append(chain, mw)
			}

			dispatch := Compose(chain...)(base.Dispatch)
			api.dispatch.Store(&dispatch)

			slog.Debug("middleware applied", "count", len(chain))
			return &enhancedStore[S]{Store: base, dispatch: dispatch}, nil
		}
	}
}

// ComposeEnhancers stacks enhancers; the first is the outermost wrapper.
func ComposeEnhancers[S any](enhancers ...Enhancer[S]) Enhancer[S] {
	return func(next Creator[S]) Creator[S] {
		for i := len(enhancers) - 1; i >= 0; i-- {
			if enhancers[i] != nil {
				next = enhancers[i](next)
			}
		}
		return next
	}
}

type middlewareAPI[S any] struct {
	store    Store[S]
	dispatch atomic.Pointer[Dispatch]
}

// Dispatch resolves the composed chain at call time.
func (a *middlewareAPI[S]) Dispatch(action any) (any, error) {
	return (*a.dispatch.Load())(action)
}

func (a *middlewareAPI[S]) GetState() (S, error) {
	return a.store.GetState()
}

type enhancedStore[S any] struct {
	Store[S]
	dispatch Dispatch
}

func (e *enhancedStore[S]) Dispatch(action any) (any, error) {
	return e.dispatch(action)
}
