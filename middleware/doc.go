// Package middleware holds reusable store middleware: adapters for writing
// middleware as a single function, a scope for one cancellable background
// operation, thunk resolution, and logging, metrics and journal taps.
package middleware
