package calculator

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"deskcalc/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only and sessions are addressed by unguessable
	// UUIDs, so cross-origin dashboards may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Watch handles GET /calculator/sessions/{sessionID}/watch — upgrades to a
// WebSocket and streams display snapshots: one on connect, then one after
// every settled command. A consumer that falls behind receives the latest
// snapshot, not a backlog.
func (h *SessionHandlers) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		logger.Warn("websocket upgrade failed",
			zap.String("session_id", sess.ID()),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	watcher := sess.Watch()
	defer sess.Unwatch(watcher)

	watchersGauge.Add(ctx, 1)
	defer watchersGauge.Add(ctx, -1)

	logger.Info("watch stream opened",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	// Reads only serve to notice the peer going away.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, open := <-watcher.C():
			if !open {
				// Session deleted; say goodbye before hanging up.
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-disconnected:
			return
		}
	}
}
