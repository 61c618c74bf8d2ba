package middleware

import "flowstore/store"

// ThunkFunc is an async action resolved by Thunk. It receives the store's
// full dispatch chain and a state getter.
type ThunkFunc[S any] func(dispatch store.Dispatch, getState func() (S, error)) (any, error)

// Thunk runs ThunkFunc actions and returns their result. Every other value,
// including functions of a different shape, is passed to next unchanged, so
// an unknown async value still ends in ErrInvalidAction at the store.
func Thunk[S any]() store.MiddlewareFactory[S] {
	return func(api store.API[S]) store.Middleware {
		return store.WrapFunc(func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				var thunk ThunkFunc[S]
				switch fn := action.(type) {
				case ThunkFunc[S]:
					thunk = fn
				case func(store.Dispatch, func() (S, error)) (any, error):
					thunk = fn
				default:
					return next(action)
				}
				if thunk == nil {
					return next(action)
				}
				return thunk(api.Dispatch, api.GetState)
			}
		})
	}
}
