package middleware

import (
	"log/slog"
	"time"

	"flowstore/internal/metrics"
	"flowstore/store"
)

// Logger logs every action that passes through it with its outcome.
// Rejected dispatches are logged at WARN. A nil logger uses slog.Default.
func Logger[S any](logger *slog.Logger) store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		log := logger
		if log == nil {
			log = slog.Default()
		}
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				start := time.Now()
				result, err := next(action)
				label := metrics.ActionLabel(action)
				if err != nil {
					log.Warn("dispatch rejected", "action", label, "duration", time.Since(start), "error", err)
					return result, err
				}
				log.Debug("dispatched", "action", label, "duration", time.Since(start))
				return result, nil
			}
		})
	}
}
