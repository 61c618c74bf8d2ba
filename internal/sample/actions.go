package sample

import "flowstore/store"

const (
	BeginLoad  store.ActionType = "load/begin"
	FinishLoad store.ActionType = "load/finish"
	Reset      store.ActionType = "counter/reset"
)

// Increment adds By to the counter.
type Increment struct {
	By int `json:"by"`
}

func (Increment) Type() string { return "counter/increment" }

// LoadSomething is an async action. It is not a store.Action, so only the
// FakeAPI middleware can turn it into state changes.
type LoadSomething struct{}

type LoadState string

const (
	Empty   LoadState = "empty"
	Loading LoadState = "loading"
	Loaded  LoadState = "loaded"
)

const (
	KeyLoad    = "load"
	KeyCounter = "counter"
)
