// Package ui is the demo host app's one retained-mode UI consumer: a
// termui.List widget patched directly from SelectedVariables' diff
// stream. It exists to demonstrate spec.md §4.4's required invariant —
// "collections must be consumable as diff streams by a retained-mode
// UI" — so it deliberately never calls signalvec.ToSignal() on its hot
// path; it subscribes to the SignalVec itself and keeps its own local
// mirror via cell.ApplyVecDiff, the same incremental-update pattern
// internal/signal/signalvec's own combinators use internally.
package ui

import (
	"context"
	"fmt"

	termui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/novywave/reactivecore/internal/app/selectedvariables"
	"github.com/novywave/reactivecore/internal/cell"
)

// Run initializes the terminal, renders the picked-variables list, and
// blocks until ctx is canceled or the user presses q / Ctrl-C.
func Run(ctx context.Context, sv *selectedvariables.SelectedVariables) error {
	if err := termui.Init(); err != nil {
		return fmt.Errorf("ui: termui init: %w", err)
	}
	defer termui.Close()

	list := widgets.NewList()
	list.Title = "Selected Variables"
	list.TextStyle = termui.NewStyle(termui.ColorYellow)
	width, height := termui.TerminalDimensions()
	list.SetRect(0, 0, width, height)

	var mirror []selectedvariables.Variable
	cancel := sv.SignalVec().Subscribe(func(d cell.VecDiff[selectedvariables.Variable]) {
		mirror = cell.ApplyVecDiff(mirror, d)
		list.Rows = labelRows(mirror)
		termui.Render(list)
	}, nil)
	defer cancel()

	termui.Render(list)

	events := termui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Resize>":
				payload := e.Payload.(termui.Resize)
				list.SetRect(0, 0, payload.Width, payload.Height)
				termui.Render(list)
			}
		}
	}
}

func labelRows(vs []selectedvariables.Variable) []string {
	rows := make([]string, len(vs))
	for i, v := range vs {
		rows[i] = fmt.Sprintf("%s.%s", v.Module, v.Name)
	}
	return rows
}
