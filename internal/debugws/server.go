// Package debugws streams internal/debuggraph's edges live over a
// websocket, one JSON object per observed edge, for a developer-facing
// viewer running alongside the demo host app.
package debugws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/novywave/reactivecore/internal/debuggraph"
	"github.com/novywave/reactivecore/internal/obslog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // local dev tool only
}

// Handler upgrades to a websocket and forwards every edge the graph
// observes from here on — it does not replay history; debughttp's
// snapshot endpoint is for that.
func Handler(graph *debuggraph.Graph, log *obslog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if log != nil {
				log.Error("debugws: upgrade failed", "err", err)
			}
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		msgs, err := graph.Subscribe(ctx)
		if err != nil {
			if log != nil {
				log.Error("debugws: subscribe failed", "err", err)
			}
			return
		}

		// Detect client disconnects by draining (and discarding) reads;
		// gorilla/websocket requires a read loop to surface close frames.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, m.Payload); err != nil {
					m.Nack()
					return
				}
				m.Ack()
			}
		}
	}
}
