package store

// ActionCreator produces an action, or an async value for middleware.
type ActionCreator func() any

// BoundActionCreator creates an action and dispatches it in one call.
type BoundActionCreator func() (any, error)

// BindActionCreator wraps creator so that calling it also dispatches what it
// produced. The created action is returned even when dispatch fails.
func BindActionCreator(creator ActionCreator, dispatch Dispatch) BoundActionCreator {
	return func() (any, error) {
		action := creator()
		if _, err := dispatch(action); err != nil {
			return action, err
		}
		return action, nil
	}
}

func BindActionCreators(creators []ActionCreator, dispatch Dispatch) []BoundActionCreator {
	bound := make([]BoundActionCreator, len(creators))
	for i, creator := range creators {
		bound[i] = BindActionCreator(creator, dispatch)
	}
	return bound
}
