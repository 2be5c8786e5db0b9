package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nerrad567/gridstore-core/internal/fanout"
)

// WebSocket defaults, used when the websocket config section is unset.
const (
	defaultPingInterval   = 30 * time.Second
	defaultPongTimeout    = 10 * time.Second
	defaultMaxMessageSize = 8192
)

// upgrader configures the WebSocket upgrader. Origins follow the CORS list.
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.isAllowedOrigin(origin)
		},
	}
}

func (s *Server) wsTimings() (ping, pong time.Duration, limit int64) {
	ping, pong, limit = defaultPingInterval, defaultPongTimeout, defaultMaxMessageSize
	if s.wsCfg.PingInterval > 0 {
		ping = time.Duration(s.wsCfg.PingInterval) * time.Second
	}
	if s.wsCfg.PongTimeout > 0 {
		pong = time.Duration(s.wsCfg.PongTimeout) * time.Second
	}
	if s.wsCfg.MaxMessageSize > 0 {
		limit = int64(s.wsCfg.MaxMessageSize)
	}
	return ping, pong, limit
}

// handleWebSocket streams the snapshots of one (kind, id) pair as text
// frames. The connection is kept alive with ping/pong; anything the client
// sends is read and discarded.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	kind, id := chi.URLParam(r, "kind"), chi.URLParam(r, "id")

	// Subscribe before upgrading so an unknown kind is still a plain 404.
	sub, err := s.engine.Subscribe(kind, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	defer sub.Close()

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("websocket stream opened", "kind", kind, "id", id)
	defer s.logger.Debug("websocket stream closed", "kind", kind, "id", id, "dropped", sub.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ping, pong, limit := s.wsTimings()
	go s.wsReadPump(conn, cancel, ping+pong, limit)
	s.wsWritePump(ctx, conn, sub, ping, pong)
}

// wsReadPump reads until the connection fails, then cancels the stream.
func (s *Server) wsReadPump(conn *websocket.Conn, cancel context.CancelFunc, wait time.Duration, limit int64) {
	defer cancel()

	conn.SetReadLimit(limit)
	//nolint:errcheck // Best-effort deadline on connection setup
	conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		// Any client message resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		conn.SetReadDeadline(time.Now().Add(wait))
	}
}

// wsWritePump forwards snapshots and pings until ctx ends or a write fails.
func (s *Server) wsWritePump(ctx context.Context, conn *websocket.Conn, sub *fanout.Subscription, ping, writeWait time.Duration) {
	snapshots := make(chan fanout.Message)
	go func() {
		defer close(snapshots)
		for {
			msg, err := sub.Next(ctx)
			if err != nil {
				return
			}
			select {
			case snapshots <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(ping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-snapshots:
			if !ok {
				// Hub closed: the server is going away.
				//nolint:errcheck // Best-effort close message
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if msg.KeepAlive {
				continue
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
