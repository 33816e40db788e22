// Package selectedvariables is the demo host app's second collection:
// the set of variables a user has picked to plot. Per spec.md's Design
// Notes ban on derived signals writing back to a source, the only way
// into this collection is the variable_picked_relay — there is no path
// from "a signal observed X" to "write X into this CellVec" anywhere in
// the core or this app.
package selectedvariables

import (
	"context"

	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/relay"
	"github.com/novywave/reactivecore/internal/scheduler"
	"github.com/novywave/reactivecore/internal/signal/signalvec"
	"github.com/novywave/reactivecore/internal/trace"
)

// Variable identifies one signal within one loaded module.
type Variable struct {
	Module string
	Name   string
}

// Pick is the sole mutation event: picking an already-selected variable
// deselects it.
type Pick struct {
	Variable Variable
}

// SelectedVariables is the picked-variables aggregate.
type SelectedVariables struct {
	Vec    *cell.CellVec[Variable]
	Picked relay.Sender[Pick]
}

// New starts the aggregate's driver via sched. hook, if non-nil, feeds the
// debug connection graph; pass nil when no graph is wired.
func New(ctx context.Context, sched scheduler.Scheduler, log *obslog.Logger, hook trace.Hook) *SelectedVariables {
	sender, stream := relay.New[Pick]("selectedvariables_variable_picked_relay", log, hook, "selectedvariables")

	vec := cell.NewVec[Variable](ctx, sched, "selected_variables", log, nil, func(ctx context.Context, w *cell.VecWriteHandle[Variable]) {
		runDriver(ctx, w, stream)
	})

	return &SelectedVariables{Vec: vec, Picked: sender}
}

// SignalVec exposes the picked-variables collection as a diff stream, for
// internal/app/ui to patch its retained-mode list widget directly from
// Push/RemoveAt diffs rather than collapsing to a ToSignal() snapshot.
func (s *SelectedVariables) SignalVec() signalvec.SignalVec[Variable] {
	return signalvec.FromCellVec(s.Vec)
}

func runDriver(ctx context.Context, w *cell.VecWriteHandle[Variable], stream relay.Stream[Pick]) {
	var order []Variable
	ch := stream.Chan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-ch:
			if !ok {
				return
			}
			if idx := indexOf(order, p.Variable); idx >= 0 {
				w.RemoveAt(idx)
				order = append(order[:idx], order[idx+1:]...)
			} else {
				w.Push(p.Variable)
				order = append(order, p.Variable)
			}
		}
	}
}

func indexOf(order []Variable, v Variable) int {
	for i, existing := range order {
		if existing == v {
			return i
		}
	}
	return -1
}
