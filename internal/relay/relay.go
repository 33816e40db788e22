// Package relay implements the core's event channel primitive: an
// unbounded, fan-in/fan-out-one queue created together with its single
// consumer stream, per spec.md §3/§4.1.
//
// Grounded on the teacher's mailbox-channel idiom
// (internal/domain/registry.Cell.mailbox, internal/domain/model.connect.sendCh):
// there, a bounded channel absorbs bursts and sheds load under
// backpressure. A Relay generalizes that to the core's unbounded
// contract — the design assumes producers never outrun a cooperatively
// scheduled consumer, and pushes the responsibility for debouncing back
// onto the consuming actor (spec.md §5) instead of dropping events.
package relay

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/trace"
)

// Sender is the cheaply-clonable producer handle for a Relay. Many
// components may hold a clone; emitting never blocks and never panics.
type Sender[T any] struct {
	q *queue[T]
}

// Stream is the single, non-clonable consumer side of a Relay. It must be
// moved into exactly the actor that will own processing; spec.md §3
// requires exactly one consumer stream per relay.
type Stream[T any] struct {
	q *queue[T]
}

// EmitError is returned by Sender.TryEmit.
type EmitError struct {
	Relay string
	Cause string
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("relay %q: %s", e.Relay, e.Cause)
}

// ErrNoConsumer-shaped error: the consumer Stream has been dropped.
func errNoConsumer(name string) *EmitError {
	return &EmitError{Relay: name, Cause: "no consumer: stream has been dropped"}
}

// nameContract matches the "{source}_{event}_relay" naming convention from
// spec.md §4.1. It is intentionally permissive about the body and strict
// about the shape: snake_case words ending in "_relay", not starting with
// an imperative/command verb.
var (
	imperativePrefix = regexp.MustCompile(`^(add|set|remove|start|stop|create|delete|update|open|close)_`)
	relaySuffix      = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*_relay$`)
)

// ValidateName enforces the event-source naming contract from spec.md
// §4.1. It is a runtime check (not a compile-time one — Go generics can't
// express it) so the contract is actually exercised by tests, not merely
// documented as a code-review rule.
func ValidateName(name string) error {
	if name == "" {
		return nil // anonymous relays (tests, ad-hoc wiring) are exempt
	}
	if imperativePrefix.MatchString(name) {
		return fmt.Errorf("relay name %q reads as a command, not an event: rename to describe what happened at the source", name)
	}
	if !relaySuffix.MatchString(name) {
		return fmt.Errorf("relay name %q must be snake_case and end in \"_relay\"", name)
	}
	return nil
}

// New creates a relay and returns its sender/stream pair. name is used for
// debug logging and the naming-contract check; pass "" to skip the check
// (e.g. anonymous test relays). hook, if non-nil, is notified of every
// EmitFrom call for the debug connection graph (plain Emit and TryEmit do
// not notify it); actorName identifies the
// consumer that will eventually own the Stream.
func New[T any](name string, log *obslog.Logger, hook trace.Hook, actorName string) (Sender[T], Stream[T]) {
	if err := ValidateName(name); err != nil && log != nil {
		log.Error("relay naming contract violated", "err", err)
	}
	q := &queue[T]{name: name, log: log, hook: hook, actorName: actorName}
	q.cond = sync.NewCond(&q.mu)
	return Sender[T]{q: q}, Stream[T]{q: q}
}

// queue is the shared unbounded FIFO behind both handles: a slice that is
// appended to and resliced from the front, guarded by a mutex and woken by a condition variable, in lieu of an
// actual unbounded channel (Go channels are always bounded or rendezvous).
type queue[T any] struct {
	name      string
	log       *obslog.Logger
	hook      trace.Hook
	actorName string

	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// Emit enqueues event and returns immediately. If the consumer stream has
// been dropped, the emission is logged and discarded; Emit never blocks
// and never panics, per spec.md §4.1.
func (s Sender[T]) Emit(event T) {
	_ = s.TryEmit(event)
}

// EmitFrom is Emit plus an emitter-site label for the debug connection
// graph (e.g. "trackedfiles.watchLoop"). Use Emit when no graph is wired
// or the site isn't worth naming.
func (s Sender[T]) EmitFrom(emitterSite string, event T) {
	if s.q.hook != nil {
		s.q.hook.Edge(emitterSite, s.q.name, s.q.actorName)
	}
	s.Emit(event)
}

// TryEmit is the fallible variant: it reports EmitError when the
// consumer has already been dropped.
func (s Sender[T]) TryEmit(event T) error {
	q := s.q
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		if q.log != nil {
			q.log.Error("relay emit dropped", "relay", q.name, "reason", "no consumer")
		}
		return errNoConsumer(q.name)
	}
	q.items = append(q.items, event)
	q.cond.Signal()
	q.mu.Unlock()
	return nil
}

// Next blocks until the next event is available, or the stream has been
// closed (ok=false). Called from inside the owning actor's loop.
func (s Stream[T]) Next() (event T, ok bool) {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	event = q.items[0]
	q.items = q.items[1:]
	return event, true
}

// Close drops the consumer side. Subsequent emissions are logged and
// discarded per spec.md §3's "owning actor terminates" lifecycle clause.
func (s Stream[T]) Close() {
	q := s.q
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.cond.Broadcast()
	q.mu.Unlock()
}
