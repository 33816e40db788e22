// Package composer implements spec.md §4.5's cache-current-values idiom
// as a runnable actor: an outbox of sent Message values, fed by three
// relays (user_changed, text_changed, send_pressed), where "on
// send_pressed, send a message using the latest username and text" can
// only be answered by mirroring each input relay's latest value into a
// plain local inside the single driver loop — there is no synchronous way
// to read another actor's Cell from here (spec.md §4.2's "no synchronous
// get" rule), and there must not be, since that read/modify/write window
// is exactly what the single-writer-per-actor design eliminates.
//
// This package also resolves spec.md §8 scenario 5's open variant: after a
// message is sent, the cached text resets to "". Rather than clearing the
// local inside the send_pressed case directly (which would special-case
// "my own future state" instead of routing it as an event), the driver
// emits an explicit message_sent_relay feedback event to itself and clears
// the cached text only when that event is observed on a later loop
// iteration — the same discipline spec.md's Design Notes require of a
// cross-actor feedback edge, applied even though the feedback happens to
// loop back into the same actor.
package composer

import (
	"context"

	"github.com/novywave/reactivecore/internal/cachecurrent"
	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/relay"
	"github.com/novywave/reactivecore/internal/scheduler"
	"github.com/novywave/reactivecore/internal/trace"
)

// Message is one composed chat-style message, built from whatever
// username and text were cached at the moment send_pressed fired.
type Message struct {
	User string
	Text string
}

// Sent is the feedback event the driver emits to itself immediately after
// pushing a Message, carrying nothing — its only purpose is to land on a
// later loop iteration and clear the cached text.
type Sent struct{}

// Composer is the cache-current-values demo aggregate: an outbox CellVec
// plus the three input relays external code emits on.
type Composer struct {
	Outbox      *cell.CellVec[Message]
	UserChanged relay.Sender[string]
	TextChanged relay.Sender[string]
	SendPressed relay.Sender[struct{}]
}

// New starts the aggregate's driver via sched. hook, if non-nil, feeds the
// debug connection graph.
func New(ctx context.Context, sched scheduler.Scheduler, log *obslog.Logger, hook trace.Hook) *Composer {
	userSender, userStream := relay.New[string]("composer_user_changed_relay", log, hook, "composer")
	textSender, textStream := relay.New[string]("composer_text_changed_relay", log, hook, "composer")
	sendSender, sendStream := relay.New[struct{}]("composer_send_pressed_relay", log, hook, "composer")
	sentSender, sentStream := relay.New[Sent]("composer_message_sent_relay", log, hook, "composer")

	outbox := cell.NewVec[Message](ctx, sched, "composer_outbox", log, nil, func(ctx context.Context, w *cell.VecWriteHandle[Message]) {
		runDriver(ctx, w, userStream, textStream, sendStream, sentStream, sentSender)
	})

	return &Composer{Outbox: outbox, UserChanged: userSender, TextChanged: textSender, SendPressed: sendSender}
}

func runDriver(
	ctx context.Context,
	w *cell.VecWriteHandle[Message],
	userStream relay.Stream[string],
	textStream relay.Stream[string],
	sendStream relay.Stream[struct{}],
	sentStream relay.Stream[Sent],
	sentSender relay.Sender[Sent],
) {
	user := cachecurrent.NewMirrorWithInitial("")
	text := cachecurrent.NewMirrorWithInitial("")

	userCh := userStream.Chan(ctx)
	textCh := textStream.Chan(ctx)
	sendCh := sendStream.Chan(ctx)
	sentCh := sentStream.Chan(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case u, ok := <-userCh:
			if !ok {
				return
			}
			user.Update(u)

		case t, ok := <-textCh:
			if !ok {
				return
			}
			text.Update(t)

		case _, ok := <-sendCh:
			if !ok {
				return
			}
			u, _ := user.Get()
			t, _ := text.Get()
			w.Push(Message{User: u, Text: t})
			sentSender.Emit(Sent{})

		case _, ok := <-sentCh:
			if !ok {
				return
			}
			text.Update("")
		}
	}
}
