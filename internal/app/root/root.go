// Package root is the demo host application's composition root: one
// struct that owns the scheduler, every aggregate, and the optional debug
// graph, so that no mutable state anywhere in this module lives in a
// package-level var. This directly implements spec.md §9's "state
// ownership flows top-down from an application root struct" Design Note,
// replacing the "hidden global state" and "Manager/Service/Controller"
// indirection it calls out as requiring re-architecture.
package root

import (
	"context"
	"fmt"

	"github.com/novywave/reactivecore/internal/app/composer"
	"github.com/novywave/reactivecore/internal/app/selectedvariables"
	"github.com/novywave/reactivecore/internal/app/trackedfiles"
	"github.com/novywave/reactivecore/internal/app/waveview"
	"github.com/novywave/reactivecore/internal/config"
	"github.com/novywave/reactivecore/internal/debuggraph"
	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/scheduler"
	"github.com/novywave/reactivecore/internal/trace"
)

// App owns one instance of every aggregate the demo host application
// needs. There is exactly one App per process; package cmd's run command
// constructs it once and hands it a context for its whole lifetime.
type App struct {
	cfg  config.Config
	log  *obslog.Logger
	sched scheduler.Scheduler

	Graph             *debuggraph.Graph // nil unless cfg.DebugGraphEnabled
	TrackedFiles      *trackedfiles.TrackedFiles
	SelectedVariables *selectedvariables.SelectedVariables
	Composer          *composer.Composer
	View              *waveview.ViewState
}

// New constructs every aggregate and starts their drivers. ctx governs the
// whole App's lifetime — canceling it terminates every driver goroutine
// and the optional debug graph.
func New(ctx context.Context, cfg config.Config, log *obslog.Logger) (*App, error) {
	sched := scheduler.New()

	a := &App{cfg: cfg, log: log, sched: sched, View: waveview.New()}

	var hook trace.Hook
	if cfg.DebugGraphEnabled {
		a.Graph = debuggraph.New(ctx, sched, log)
		hook = a.Graph
	}

	tf, err := trackedfiles.New(ctx, sched, log, hook, cfg.TrackedFilesDir, cfg.ParseRetryMax)
	if err != nil {
		return nil, fmt.Errorf("root: starting trackedfiles: %w", err)
	}
	a.TrackedFiles = tf

	a.SelectedVariables = selectedvariables.New(ctx, sched, log, hook)
	a.Composer = composer.New(ctx, sched, log, hook)

	return a, nil
}

// Start is a no-op beyond New: every aggregate's driver is already running
// by the time New returns and already receiving filesystem events. Start
// only logs the settings the App was started with.
func (a *App) Start(ctx context.Context) error {
	a.log.Info("reactorctl: started",
		"tracked_files_dir", a.cfg.TrackedFilesDir,
		"debug_graph_enabled", a.cfg.DebugGraphEnabled)
	return nil
}

// Stop releases the App's own resources (the debug graph's watermill
// pub/sub). Canceling the context passed to New is what actually stops
// every driver goroutine; Stop only cleans up what isn't ctx-scoped.
func (a *App) Stop(ctx context.Context) error {
	if a.Graph != nil {
		return a.Graph.Close()
	}
	return nil
}
