package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// sseEvent is the event name of every snapshot on the SSE stream.
const sseEvent = "update"

// handleStream serves Server-Sent Events for one (kind, id) pair.
//
// Each post-update snapshot is an "update" event whose data is the record's
// JSON. Idle streams receive a keep-alive comment at the hub's interval.
// Snapshots evicted from a slow reader's buffer are reported as a comment.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	kind, id := chi.URLParam(r, "kind"), chi.URLParam(r, "id")

	sub, err := s.engine.Subscribe(kind, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	//nolint:errcheck // Not every writer supports deadlines; the stream works without one
	rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Warn("stream cannot flush", "error", err)
		return
	}

	s.logger.Debug("stream opened", "kind", kind, "id", id)
	defer s.logger.Debug("stream closed", "kind", kind, "id", id, "dropped", sub.Dropped())

	for {
		msg, err := sub.Next(r.Context())
		if err != nil {
			return
		}

		switch {
		case msg.KeepAlive && msg.Dropped > 0:
			err = writeSSEComment(w, fmt.Sprintf("dropped %d", msg.Dropped))
		case msg.KeepAlive:
			err = writeSSEComment(w, "keep-alive")
		default:
			err = writeSSEEvent(w, sseEvent, msg.Data)
		}
		if err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// writeSSEEvent writes one event. Multi-line data is split over data fields.
func writeSSEEvent(w io.Writer, event string, data []byte) error {
	var b bytes.Buffer
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		b.WriteString("data: ")
		b.Write(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := w.Write(b.Bytes())
	return err
}

// writeSSEComment writes a comment line, which clients ignore.
func writeSSEComment(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", text)
	return err
}
