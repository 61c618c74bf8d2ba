package sample

import "flowstore/store"

func LoadReducer(state LoadState, action store.Action) (LoadState, error) {
	if state == "" {
		state = Empty
	}
	switch action {
	case BeginLoad:
		return Loading, nil
	case FinishLoad:
		return Loaded, nil
	}
	return state, nil
}

func CounterReducer(state int, action store.Action) (int, error) {
	switch a := action.(type) {
	case Increment:
		return state + a.By, nil
	case store.ActionType:
		if a == Reset {
			return 0, nil
		}
	}
	return state, nil
}

// Reducer is the root reducer of the sample application.
func Reducer() store.Reducer[*store.Combined] {
	return store.CombineReducers(
		store.Slice(KeyLoad, LoadReducer),
		store.Slice(KeyCounter, CounterReducer),
	)
}

// View is a typed read of the combined state.
type View struct {
	Load    LoadState
	Counter int
}

func ViewOf(state *store.Combined) View {
	load, _ := store.SliceOf[LoadState](state, KeyLoad)
	count, _ := store.SliceOf[int](state, KeyCounter)
	return View{Load: load, Counter: count}
}
