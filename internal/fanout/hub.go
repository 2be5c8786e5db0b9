// Package fanout broadcasts post-update record snapshots to live subscribers.
//
// Channels are keyed by (kind, id) and created the first time anyone
// subscribes. Every subscriber owns a bounded ring: when it falls behind, the
// oldest snapshot is dropped so publishers never block.
//
//	hub := fanout.NewHub(fanout.Config{})
//	sub := hub.Subscribe("Line", "NHV1_NHV2_1")
//	defer sub.Close()
//
//	for {
//	    msg, err := sub.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if msg.KeepAlive {
//	        // write a comment frame
//	        continue
//	    }
//	    // write msg.Data
//	}
package fanout

import (
	"sync"
	"time"
)

// Defaults applied by NewHub to zero Config fields.
const (
	DefaultCapacity  = 100
	DefaultKeepAlive = 15 * time.Second
)

// Config controls per-subscriber buffering and idle keep-alives.
type Config struct {
	// Capacity is the number of snapshots buffered per subscriber.
	Capacity int

	// KeepAlive is how long Next waits before returning a keep-alive.
	KeepAlive time.Duration
}

// Logger defines the logging interface used by the Hub.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Observer receives fan-out counters. It is satisfied by the metrics package.
type Observer interface {
	SnapshotPublished(kind string, delivered int)
	SnapshotDropped(kind string)
	SubscribersChanged(delta int)
}

type key struct {
	kind string
	id   string
}

// Hub is the registry of broadcast channels.
//
// Thread Safety: all methods are safe for concurrent use.
type Hub struct {
	cfg      Config
	mu       sync.RWMutex
	channels map[key]*Channel
	logger   Logger
	observer Observer
	closed   bool
}

// NewHub creates a hub. Zero Config fields take the package defaults.
func NewHub(cfg Config) *Hub {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	return &Hub{
		cfg:      cfg,
		channels: make(map[key]*Channel),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the hub.
func (h *Hub) SetLogger(logger Logger) {
	h.logger = logger
}

// SetObserver sets the metrics observer for the hub.
func (h *Hub) SetObserver(o Observer) {
	h.observer = o
}

// Config returns the effective configuration.
func (h *Hub) Config() Config { return h.cfg }

// Channel returns the channel for (kind, id), creating it on first use.
// Later calls return the same channel while it has subscribers.
func (h *Hub) Channel(kind, id string) *Channel {
	k := key{kind: kind, id: id}

	h.mu.RLock()
	ch, ok := h.channels[k]
	h.mu.RUnlock()
	if ok {
		return ch
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels[k]; ok {
		return ch
	}
	if h.closed {
		return &Channel{hub: h, key: k, subs: make(map[*Subscription]struct{}), retired: true}
	}
	ch = &Channel{hub: h, key: k, subs: make(map[*Subscription]struct{})}
	h.channels[k] = ch
	h.logger.Debug("fan-out channel created", "kind", kind, "id", id)
	return ch
}

// Subscribe attaches a new subscriber to the (kind, id) channel.
// After Close it returns a subscription whose Next reports ErrClosed.
func (h *Hub) Subscribe(kind, id string) *Subscription {
	for {
		if h.isClosed() {
			return closedSubscription(h, key{kind: kind, id: id})
		}
		ch := h.Channel(kind, id)
		if sub, ok := ch.subscribe(); ok {
			if h.observer != nil {
				h.observer.SubscribersChanged(1)
			}
			return sub
		}
		// The channel was retired between lookup and subscribe; look it up again.
	}
}

// Publish sends a snapshot to every subscriber of (kind, id) and returns how
// many received it. Publishing to a channel nobody created is a no-op.
func (h *Hub) Publish(kind, id string, snapshot []byte) int {
	h.mu.RLock()
	ch, ok := h.channels[key{kind: kind, id: id}]
	h.mu.RUnlock()
	if !ok {
		h.logger.Debug("no subscribers for snapshot", "kind", kind, "id", id)
		return 0
	}

	delivered := ch.Send(snapshot)
	if h.observer != nil {
		h.observer.SnapshotPublished(kind, delivered)
	}
	h.logger.Debug("snapshot published", "kind", kind, "id", id, "subscribers", delivered)
	return delivered
}

// Len returns the number of live channels.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// Subscribers returns the number of subscribers across all channels.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	channels := make([]*Channel, 0, len(h.channels))
	for _, ch := range h.channels {
		channels = append(channels, ch)
	}
	h.mu.RUnlock()

	n := 0
	for _, ch := range channels {
		n += ch.Len()
	}
	return n
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Close detaches every subscriber. Pending Next calls return ErrClosed.
// It is safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	channels := h.channels
	h.channels = make(map[key]*Channel)
	h.mu.Unlock()

	for _, ch := range channels {
		ch.closeAll()
	}
}

// retire removes an empty channel from the hub.
func (h *Hub) retire(ch *Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.channels[ch.key]; ok && cur == ch {
		delete(h.channels, ch.key)
		h.logger.Debug("fan-out channel retired", "kind", ch.key.kind, "id", ch.key.id)
	}
}
