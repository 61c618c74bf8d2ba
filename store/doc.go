// Package store is a single-process state container. One state value is
// changed only by dispatching actions through a reducer; middleware sits
// between Dispatch callers and the reducer, and listeners are notified after
// every successful dispatch.
//
// A store is not meant to be driven from several goroutines at once. Its
// fields are guarded so that middleware completing on another goroutine is
// safe, but a Dispatch that overlaps another one on the same store fails with
// ErrReentrantDispatch instead of waiting.
package store
