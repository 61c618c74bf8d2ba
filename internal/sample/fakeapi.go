package sample

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"flowstore/middleware"
	"flowstore/store"
)

// FakeAPI handles LoadSomething: it dispatches BeginLoad right away and
// FinishLoad once delay has passed. Starting a new load cancels the pending
// one. Pending loads are abandoned when ctx is done. Timers run on bg.
func FakeAPI(ctx context.Context, delay time.Duration, bg *sync.WaitGroup) store.MiddlewareFactory[*store.Combined] {
	return middleware.Disposable(middleware.DisposeOld,
		func(api store.API[*store.Combined], next store.Dispatch, action any, scope *middleware.Scope) (any, error) {
			if _, ok := action.(LoadSomething); !ok {
				return next(action)
			}

			opCtx, done, _ := scope.Begin(ctx)
			if _, err := api.Dispatch(BeginLoad); err != nil {
				done()
				return nil, err
			}

			bg.Go(func() {
				defer done()
				finishAfter(opCtx, delay, api.Dispatch)
			})
			return action, nil
		})
}

// LoadWithThunk is the thunk flavour of FakeAPI.
func LoadWithThunk(ctx context.Context, delay time.Duration, bg *sync.WaitGroup) middleware.ThunkFunc[*store.Combined] {
	return func(dispatch store.Dispatch, _ func() (*store.Combined, error)) (any, error) {
		if _, err := dispatch(BeginLoad); err != nil {
			return nil, err
		}
		bg.Go(func() { finishAfter(ctx, delay, dispatch) })
		return nil, nil
	}
}

// CountTo increments the counter one step at a time.
func CountTo(steps int) middleware.ThunkFunc[*store.Combined] {
	return func(dispatch store.Dispatch, getState func() (*store.Combined, error)) (any, error) {
		for i := 0; i < steps; i++ {
			if _, err := dispatch(Increment{By: 1}); err != nil {
				return nil, err
			}
		}
		state, err := getState()
		if err != nil {
			return nil, err
		}
		return ViewOf(state).Counter, nil
	}
}

func finishAfter(ctx context.Context, delay time.Duration, dispatch store.Dispatch) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		slog.Debug("load cancelled", "cause", context.Cause(ctx))
		return
	case <-timer.C:
	}

	if _, err := dispatch(FinishLoad); err != nil {
		slog.Warn("finish load failed", "error", err)
	}
}
