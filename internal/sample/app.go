package sample

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flowstore/internal/configuration"
	"flowstore/internal/journal"
	"flowstore/middleware"
	"flowstore/store"
)

var ErrUnknownScenario = errors.New("unknown scenario")

type Options struct {
	Scenario   string
	LoadDelay  time.Duration
	ThunkSteps int
	// Journal, when set, records accepted actions.
	Journal *journal.Journal
	Logger  *slog.Logger
}

// App is the sample store plus the background loads it started.
type App struct {
	Store store.Store[*store.Combined]

	ctx  context.Context
	opts Options
	bg   sync.WaitGroup
}

// NewApp builds the sample store. The middleware order is logger, metrics,
// journal, thunk, fake api; the logger sees every dispatch first. Background
// loads stop when ctx is done.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	app := &App{ctx: ctx, opts: opts}

	chain := []store.MiddlewareFactory[*store.Combined]{
		middleware.Logger[*store.Combined](opts.Logger),
		middleware.Metrics[*store.Combined](),
	}
	if opts.Journal != nil {
		chain = append(chain, middleware.Journal[*store.Combined](opts.Journal))
	}
	chain = append(chain,
		middleware.Thunk[*store.Combined](),
		FakeAPI(ctx, opts.LoadDelay, &app.bg),
	)

	s, err := store.Create(Reducer(), nil, store.ApplyMiddleware(chain...))
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	app.Store = s
	return app, nil
}

// Wait blocks until every background load has finished or been cancelled.
func (a *App) Wait() {
	a.bg.Wait()
}

// Run drives the configured scenario and returns the final view once it has
// settled. Every observed state is passed to observe.
func (a *App) Run(ctx context.Context, observe func(View)) (View, error) {
	var (
		start func() error
		until func(View) bool
	)
	switch a.opts.Scenario {
	case configuration.ScenarioSimpleAsync:
		start = func() error {
			_, err := a.Store.Dispatch(LoadSomething{})
			return err
		}
		until = func(v View) bool { return v.Load == Loaded }
	case configuration.ScenarioThunk:
		start = func() error {
			if _, err := a.Store.Dispatch(CountTo(a.opts.ThunkSteps)); err != nil {
				return err
			}
			_, err := a.Store.Dispatch(LoadWithThunk(a.ctx, a.opts.LoadDelay, &a.bg))
			return err
		}
		until = func(v View) bool { return v.Load == Loaded && v.Counter >= a.opts.ThunkSteps }
	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownScenario, a.opts.Scenario)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	states, err := store.Watch(watchCtx, a.Store)
	if err != nil {
		return View{}, err
	}

	slog.Info("scenario started", "scenario", a.opts.Scenario)
	if err := start(); err != nil {
		return View{}, fmt.Errorf("start %s: %w", a.opts.Scenario, err)
	}

	var last View
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case state, ok := <-states:
			if !ok {
				return last, ctx.Err()
			}
			last = ViewOf(state)
			if observe != nil {
				observe(last)
			}
			if until(last) {
				slog.Info("scenario finished", "scenario", a.opts.Scenario, "state", state.String())
				return last, nil
			}
		}
	}
}
