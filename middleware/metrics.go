package middleware

import (
	"time"

	"flowstore/internal/metrics"
	"flowstore/store"
)

// Metrics records dispatch counts, latency and the number of dispatches in
// the chain below it.
func Metrics[S any]() store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				label := metrics.ActionLabel(action)

				metrics.DispatchInFlight.Inc()
				defer metrics.DispatchInFlight.Dec()

				start := time.Now()
				result, err := next(action)
				metrics.DispatchDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

				status := metrics.StatusOK
				if err != nil {
					status = metrics.StatusRejected
				}
				metrics.DispatchTotal.WithLabelValues(label, status).Inc()
				return result, err
			}
		})
	}
}
