package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Watch streams the store's state. Every call owns its own subscription, so
// cancelling one stream leaves the others running. The current state is sent
// right away. The channel holds one value and a slow reader only sees the
// newest state. It is closed when ctx is done.
func Watch[S any](ctx context.Context, s Store[S]) (<-chan S, error) {
	w := &watcher[S]{
		store: s,
		ch:    make(chan S, 1),
	}

	unsubscribe, err := s.Subscribe(func() { _ = w.refresh() })
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	// A dispatch reducing on another goroutine may fail and never notify, so
	// keep trying until the current state has been read.
	retryWhileReducing(ctx, w.refresh)

	go func() {
		<-ctx.Done()
		w.close()
		release(unsubscribe)
	}()

	return w.ch, nil
}

type watcher[S any] struct {
	mu     sync.Mutex
	closed bool
	store  Store[S]
	ch     chan S
}

// refresh reads and sends under mu so the last send always carries the
// latest state.
func (w *watcher[S]) refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	state, err := w.store.GetState()
	if err != nil {
		return err
	}

	select {
	case <-w.ch:
	default:
	}
	w.ch <- state
	return nil
}

func (w *watcher[S]) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	close(w.ch)
}

// release retries while a reducer is running; unsubscribe is rejected then.
func release(unsubscribe Unsubscribe) {
	retryWhileReducing(context.Background(), func() error { return unsubscribe() })
}

func retryWhileReducing(ctx context.Context, op func() error) {
	for {
		err := op()
		if !errors.Is(err, ErrInvalidStateAccess) || ctx.Err() != nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
