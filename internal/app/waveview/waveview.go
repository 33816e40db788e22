// Package waveview holds the demo host app's component-local UI state:
// hover position, cursor position, and dialog-open/closed, each modeled as
// an atom.Atom[T] per spec.md §4.6 rather than an aggregate Cell. None of
// it coordinates across components — a waveform pane's hover state never
// feeds another component directly; anything that needs to react to it
// subscribes to the atom's own Signal.
package waveview

import (
	"github.com/novywave/reactivecore/internal/atom"
	"github.com/novywave/reactivecore/internal/signal"
)

// HoverTarget identifies what the pointer is currently over, if anything.
type HoverTarget struct {
	Module   string
	Variable string
	Active   bool
}

// CursorPosition is the waveform cursor's current sample index.
type CursorPosition struct {
	SampleIndex int64
}

// ViewState is one waveform pane's local, non-shared UI state.
type ViewState struct {
	Hover      *atom.Atom[HoverTarget]
	Cursor     *atom.Atom[CursorPosition]
	DialogOpen *atom.Atom[bool]
}

// New constructs a ViewState with nothing hovered, cursor at sample 0, and
// every dialog closed.
func New() *ViewState {
	return &ViewState{
		Hover:      atom.New(HoverTarget{}, signal.ComparableEqual[HoverTarget]()),
		Cursor:     atom.New(CursorPosition{}, signal.ComparableEqual[CursorPosition]()),
		DialogOpen: atom.New(false, signal.ComparableEqual[bool]()),
	}
}
