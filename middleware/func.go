package middleware

import "flowstore/store"

// Block is the whole body of a middleware: it sees the store API, the next
// dispatch and the action in one call.
type Block[S any] func(api store.API[S], next store.Dispatch, action any) (any, error)

// Func builds a middleware factory from a single function.
func Func[S any](block Block[S]) store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				return block(api, next, action)
			}
		})
	}
}
