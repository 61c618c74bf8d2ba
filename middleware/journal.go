package middleware

import (
	"log/slog"

	"flowstore/internal/journal"
	"flowstore/store"
)

// Recorder persists accepted actions. *journal.Journal implements it.
type Recorder interface {
	Append(actionType string, payload any) (journal.Record, error)
}

// Journal records every plain action the rest of the chain accepted. Async
// values and rejected dispatches are not recorded. A failed write is logged
// and does not fail the dispatch, whose state change is already committed.
func Journal[S any](rec Recorder) store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				result, err := next(action)
				if err != nil {
					return result, err
				}

				a, ok := action.(store.Action)
				if !ok {
					return result, nil
				}
				if _, err := rec.Append(a.Type(), payloadOf(a)); err != nil {
					slog.Warn("journal write failed", "action", a.Type(), "error", err)
				}
				return result, nil
			}
		})
	}
}

// payloadOf leaves bare action types without a payload.
func payloadOf(a store.Action) any {
	if _, ok := a.(store.ActionType); ok {
		return nil
	}
	return a
}
