// Package debuggraph implements the optional, observational
// emitter-site→relay→actor connection graph from spec.md §4.7. It is
// purely a debugging aid: wiring it in (or leaving it out) must never
// change any core behavior, so it only ever receives trace.Hook
// callbacks — it never calls back into the relay/cell it's observing.
//
// Grounded on the teacher's delivery pipeline (internal/service/delivery.go,
// internal/handler/amqp/router.go) for the shape of "one actor drains an
// internal queue and republishes transformed events for external
// consumers"; here the internal queue is a Relay[Edge] and the external
// consumers are debughttp/debugws, fed through an in-process
// ThreeDotsLabs/watermill gochannel topic rather than AMQP, since the
// payload never leaves this process.
package debuggraph

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/relay"
	"github.com/novywave/reactivecore/internal/scheduler"
)

// Edge is one observed emitter-site → relay → actor hop, serialized for
// debughttp/debugws consumers.
type Edge struct {
	Seq         uint64 `json:"seq"`
	EmitterSite string `json:"emitter_site"`
	RelayName   string `json:"relay_name"`
	ActorName   string `json:"actor_name"`
}

const edgesTopic = "edges"

// Graph aggregates observed edges and republishes each one as JSON over
// an in-process watermill topic. It implements internal/trace.Hook.
type Graph struct {
	log    *obslog.Logger
	sender relay.Sender[Edge]
	pub    *gochannel.GoChannel

	mu        sync.Mutex
	seq       uint64
	edges     []Edge
	adjacency map[string][]string // actorName -> relay names observed feeding it
}

// New builds a Graph and spawns its single recording goroutine via sched.
func New(ctx context.Context, sched scheduler.Scheduler, log *obslog.Logger) *Graph {
	sender, stream := relay.New[Edge]("", log, nil, "debuggraph")
	var wmLog watermill.LoggerAdapter = watermill.NopLogger{}
	if log != nil {
		wmLog = watermill.NewSlogLogger(log.Slog())
	}
	g := &Graph{
		log:       log,
		sender:    sender,
		pub:       gochannel.NewGoChannel(gochannel.Config{}, wmLog),
		adjacency: map[string][]string{},
	}
	sched.Spawn(ctx, func(ctx context.Context) {
		g.run(ctx, stream)
	})
	return g
}

// Edge implements internal/trace.Hook: it enqueues the observation and
// returns immediately, same non-blocking contract as relay.Sender.Emit.
func (g *Graph) Edge(emitterSite, relayName, actorName string) {
	g.sender.Emit(Edge{EmitterSite: emitterSite, RelayName: relayName, ActorName: actorName})
}

func (g *Graph) run(ctx context.Context, stream relay.Stream[Edge]) {
	ch := stream.Chan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			g.record(e)
		}
	}
}

func (g *Graph) record(e Edge) {
	g.mu.Lock()
	g.seq++
	e.Seq = g.seq
	g.edges = append(g.edges, e)
	g.adjacency[e.ActorName] = appendUnique(g.adjacency[e.ActorName], e.RelayName)
	g.mu.Unlock()

	payload, err := json.Marshal(e)
	if err != nil {
		if g.log != nil {
			g.log.Error("debuggraph: marshal edge failed", "err", err)
		}
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := g.pub.Publish(edgesTopic, msg); err != nil {
		if g.log != nil {
			g.log.Error("debuggraph: publish edge failed", "err", err)
		}
	}
}

// Snapshot returns a copy of every edge observed so far, oldest first.
func (g *Graph) Snapshot() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Edge(nil), g.edges...)
}

// Subscribe returns the watermill subscriber side of the edges topic, for
// debugws to drain as they arrive.
func (g *Graph) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return g.pub.Subscribe(ctx, edgesTopic)
}

// Close releases the underlying watermill pub/sub.
func (g *Graph) Close() error {
	return g.pub.Close()
}

func appendUnique(ss []string, s string) []string {
	for _, existing := range ss {
		if existing == s {
			return ss
		}
	}
	return append(ss, s)
}
