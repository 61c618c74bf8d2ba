package middleware

import (
	"context"
	"sync"

	"flowstore/internal/metrics"
	"flowstore/store"
)

// Mode decides what happens when a scope is asked to start an operation while
// another one is still running.
type Mode int

const (
	// DisposeOld cancels the running operation and starts the new one.
	DisposeOld Mode = iota
	// DropNew keeps the running operation and refuses the new one.
	DropNew
)

func (m Mode) String() string {
	switch m {
	case DisposeOld:
		return "dispose-old"
	case DropNew:
		return "drop-new"
	default:
		return "unknown"
	}
}

const (
	outcomeStarted  = "started"
	outcomeReplaced = "replaced"
	outcomeDropped  = "dropped"
)

// Scope tracks at most one cancellable operation.
type Scope struct {
	mode Mode

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

func NewScope(mode Mode) *Scope {
	return &Scope{mode: mode}
}

// Begin starts an operation derived from parent. The returned done must be
// called when the operation finishes; it releases the slot and cancels ctx.
// ok is false when the scope is in DropNew mode and an operation is already
// running; ctx is then already cancelled.
func (s *Scope) Begin(parent context.Context) (ctx context.Context, done func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := outcomeStarted
	if s.cancel != nil {
		if s.mode == DropNew {
			metrics.DisposablesTotal.WithLabelValues(s.mode.String(), outcomeDropped).Inc()
			dropped, cancel := context.WithCancel(parent)
			cancel()
			return dropped, func() {}, false
		}
		s.cancel()
		outcome = outcomeReplaced
	}
	metrics.DisposablesTotal.WithLabelValues(s.mode.String(), outcome).Inc()

	ctx, cancel := context.WithCancel(parent)
	s.gen++
	gen := s.gen
	s.cancel = cancel

	return ctx, func() {
		cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.cancel = nil
		}
	}, true
}

// Active reports whether an operation is running.
func (s *Scope) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Dispose cancels the running operation, if any.
func (s *Scope) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.gen++
	}
}

// DisposableBlock is a middleware body with access to the scope owned by its
// middleware instance.
type DisposableBlock[S any] func(api store.API[S], next store.Dispatch, action any, scope *Scope) (any, error)

// Disposable builds a middleware whose instances each own one Scope in the
// given mode.
func Disposable[S any](mode Mode, block DisposableBlock[S]) store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		scope := NewScope(mode)
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				return block(api, next, action, scope)
			}
		})
	}
}
