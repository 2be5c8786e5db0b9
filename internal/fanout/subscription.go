package fanout

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Next once the subscription or its hub is closed.
var ErrClosed = errors.New("fanout: subscription closed")

// Channel is the broadcast point for one (kind, id) pair.
type Channel struct {
	hub *Hub
	key key

	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	retired bool
}

// Kind returns the record kind the channel carries.
func (c *Channel) Kind() string { return c.key.kind }

// ID returns the record identifier the channel carries.
func (c *Channel) ID() string { return c.key.id }

// Len returns the number of attached subscribers.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Send delivers data to every current subscriber without blocking.
// Subscribers share the slice and must not modify it.
func (c *Channel) Send(data []byte) int {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		if s.push(data) {
			delivered++
		}
	}
	return delivered
}

func (c *Channel) subscribe() (*Subscription, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired {
		c.hub.retire(c)
		return nil, false
	}
	cfg := c.hub.cfg
	s := &Subscription{
		ch:        c,
		keepAlive: cfg.KeepAlive,
		buf:       make([][]byte, cfg.Capacity),
		notify:    make(chan struct{}, 1),
	}
	c.subs[s] = struct{}{}
	return s, true
}

// closedSubscription is handed out by a closed hub. It is never attached to
// a channel and is not counted as a subscriber.
func closedSubscription(h *Hub, k key) *Subscription {
	s := &Subscription{
		ch:        &Channel{hub: h, key: k, subs: make(map[*Subscription]struct{}), retired: true},
		keepAlive: h.cfg.KeepAlive,
		buf:       make([][]byte, 1),
		notify:    make(chan struct{}, 1),
		closed:    true,
	}
	s.closeOnce.Do(func() {})
	return s
}

func (c *Channel) remove(s *Subscription) {
	c.mu.Lock()
	delete(c.subs, s)
	empty := len(c.subs) == 0 && !c.retired
	if empty {
		c.retired = true
	}
	c.mu.Unlock()

	if empty {
		c.hub.retire(c)
	}
}

func (c *Channel) closeAll() {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	c.retired = true
	c.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

// Message is one item read from a subscription.
type Message struct {
	// Data is the serialized snapshot; nil for keep-alives.
	Data []byte

	// KeepAlive is set when the subscription was idle for the keep-alive
	// interval, or when snapshots were dropped because the reader lagged.
	KeepAlive bool

	// Dropped is the number of snapshots lost since the previous read.
	Dropped uint64
}

// Subscription is one reader attached to a channel.
//
// Its buffer is a ring of fixed capacity: when full, the oldest snapshot is
// overwritten and the next read reports the loss as a keep-alive.
type Subscription struct {
	ch        *Channel
	keepAlive time.Duration

	mu      sync.Mutex
	buf     [][]byte
	head    int
	size    int
	lagged  uint64
	dropped uint64
	closed  bool

	notify    chan struct{}
	closeOnce sync.Once
}

// Kind returns the record kind the subscription follows.
func (s *Subscription) Kind() string { return s.ch.Kind() }

// ID returns the record identifier the subscription follows.
func (s *Subscription) ID() string { return s.ch.ID() }

// Dropped returns the total number of snapshots lost to overflow.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Buffered returns the number of unread snapshots.
func (s *Subscription) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *Subscription) push(data []byte) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	overflow := s.size == len(s.buf)
	if overflow {
		s.buf[s.head] = nil
		s.head = (s.head + 1) % len(s.buf)
		s.size--
		s.lagged++
		s.dropped++
	}
	s.buf[(s.head+s.size)%len(s.buf)] = data
	s.size++
	s.mu.Unlock()

	if overflow {
		if o := s.ch.hub.observer; o != nil {
			o.SnapshotDropped(s.ch.key.kind)
		}
	}

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// Next blocks until a snapshot is available, the keep-alive interval passes,
// ctx is done, or the subscription is closed.
//
// Buffered snapshots are still returned after Close; ErrClosed is returned
// once the buffer is empty.
func (s *Subscription) Next(ctx context.Context) (Message, error) {
	timer := time.NewTimer(s.keepAlive)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.lagged > 0 {
			n := s.lagged
			s.lagged = 0
			s.mu.Unlock()
			return Message{KeepAlive: true, Dropped: n}, nil
		}
		if s.size > 0 {
			data := s.buf[s.head]
			s.buf[s.head] = nil
			s.head = (s.head + 1) % len(s.buf)
			s.size--
			s.mu.Unlock()
			return Message{Data: data}, nil
		}
		if s.closed {
			s.mu.Unlock()
			return Message{}, ErrClosed
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-s.notify:
		case <-timer.C:
			return Message{KeepAlive: true}, nil
		}
	}
}

// Close detaches the subscription from its channel. It is safe to call more
// than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.ch.remove(s)
		if o := s.ch.hub.observer; o != nil {
			o.SubscribersChanged(-1)
		}

		select {
		case s.notify <- struct{}{}:
		default:
		}
	})
}
