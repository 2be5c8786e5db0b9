package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func nextWithin(t *testing.T, s *Subscription, d time.Duration) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	msg, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	return msg
}

func TestNewHub_Defaults(t *testing.T) {
	h := NewHub(Config{})
	if h.Config().Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", h.Config().Capacity, DefaultCapacity)
	}
	if h.Config().KeepAlive != DefaultKeepAlive {
		t.Errorf("KeepAlive = %v, want %v", h.Config().KeepAlive, DefaultKeepAlive)
	}
}

func TestHub_ChannelIsLazyAndShared(t *testing.T) {
	h := NewHub(Config{})
	if h.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", h.Len())
	}

	a := h.Channel("Line", "L1")
	b := h.Channel("Line", "L1")
	if a != b {
		t.Error("Channel() returned different channels for the same key")
	}
	if c := h.Channel("Load", "L1"); c == a {
		t.Error("Channel() shared a channel across kinds")
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHub_PublishWithoutChannel(t *testing.T) {
	h := NewHub(Config{})
	if n := h.Publish("Line", "L1", []byte(`{}`)); n != 0 {
		t.Errorf("Publish() = %d, want 0", n)
	}
	if h.Len() != 0 {
		t.Errorf("Publish created a channel: Len() = %d", h.Len())
	}
}

func TestHub_PublishDelivers(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	s1 := h.Subscribe("Line", "L1")
	s2 := h.Subscribe("Line", "L1")
	other := h.Subscribe("Line", "L2")
	defer s1.Close()
	defer s2.Close()
	defer other.Close()

	if n := h.Publish("Line", "L1", []byte(`{"r":1}`)); n != 2 {
		t.Errorf("Publish() = %d, want 2", n)
	}
	for _, s := range []*Subscription{s1, s2} {
		msg := nextWithin(t, s, time.Second)
		if string(msg.Data) != `{"r":1}` {
			t.Errorf("Data = %s, want {\"r\":1}", msg.Data)
		}
	}
	if other.Buffered() != 0 {
		t.Errorf("other key received %d snapshots", other.Buffered())
	}
}

func TestSubscription_DropsOldest(t *testing.T) {
	h := NewHub(Config{Capacity: 3, KeepAlive: time.Hour})
	s := h.Subscribe("Line", "L1")
	defer s.Close()

	for i := range 5 {
		h.Publish("Line", "L1", []byte(fmt.Sprintf("%d", i)))
	}

	msg := nextWithin(t, s, time.Second)
	if !msg.KeepAlive || msg.Dropped != 2 {
		t.Fatalf("first message = %+v, want keep-alive with Dropped=2", msg)
	}
	for _, want := range []string{"2", "3", "4"} {
		msg := nextWithin(t, s, time.Second)
		if string(msg.Data) != want {
			t.Errorf("Data = %s, want %s", msg.Data, want)
		}
	}
	if s.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", s.Dropped())
	}
}

func TestSubscription_IdleKeepAlive(t *testing.T) {
	h := NewHub(Config{KeepAlive: 20 * time.Millisecond})
	s := h.Subscribe("Line", "L1")
	defer s.Close()

	msg := nextWithin(t, s, time.Second)
	if !msg.KeepAlive || msg.Data != nil || msg.Dropped != 0 {
		t.Errorf("idle message = %+v, want plain keep-alive", msg)
	}
}

func TestSubscription_ContextCancel(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	s := h.Subscribe("Line", "L1")
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestSubscription_CloseRetiresChannel(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	s1 := h.Subscribe("Line", "L1")
	s2 := h.Subscribe("Line", "L1")

	s1.Close()
	s1.Close()
	if h.Len() != 1 {
		t.Fatalf("Len() = %d after one of two closed, want 1", h.Len())
	}
	s2.Close()
	if h.Len() != 0 {
		t.Errorf("Len() = %d after last subscriber left, want 0", h.Len())
	}

	if _, err := s2.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() after Close error = %v, want ErrClosed", err)
	}

	// A later subscriber gets a fresh channel.
	s3 := h.Subscribe("Line", "L1")
	defer s3.Close()
	if n := h.Publish("Line", "L1", []byte("x")); n != 1 {
		t.Errorf("Publish() after resubscribe = %d, want 1", n)
	}
}

func TestSubscription_BufferedAfterClose(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	s := h.Subscribe("Line", "L1")
	h.Publish("Line", "L1", []byte("last"))
	s.Close()

	msg := nextWithin(t, s, time.Second)
	if string(msg.Data) != "last" {
		t.Errorf("Data = %s, want last", msg.Data)
	}
	if _, err := s.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() error = %v, want ErrClosed", err)
	}
}

func TestHub_CloseWakesReaders(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	s := h.Subscribe("Line", "L1")

	errc := make(chan error, 1)
	go func() {
		_, err := s.Next(context.Background())
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	h.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Next() error = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not return after hub Close")
	}
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	h := NewHub(Config{KeepAlive: time.Hour})
	h.Close()
	h.Close()

	s := h.Subscribe("Line", "L1")
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Next(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() error = %v, want ErrClosed", err)
	}
	if h.Len() != 0 || h.Subscribers() != 0 {
		t.Errorf("Len() = %d, Subscribers() = %d after Close, want 0/0", h.Len(), h.Subscribers())
	}
	if n := h.Publish("Line", "L1", []byte("x")); n != 0 {
		t.Errorf("Publish() after Close = %d, want 0", n)
	}
}

type countingObserver struct {
	mu          sync.Mutex
	published   int
	dropped     int
	subscribers int
}

func (o *countingObserver) SnapshotPublished(_ string, delivered int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published += delivered
}

func (o *countingObserver) SnapshotDropped(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped++
}

func (o *countingObserver) SubscribersChanged(delta int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers += delta
}

func TestHub_Observer(t *testing.T) {
	h := NewHub(Config{Capacity: 1, KeepAlive: time.Hour})
	obs := &countingObserver{}
	h.SetObserver(obs)

	s := h.Subscribe("Line", "L1")
	h.Publish("Line", "L1", []byte("a"))
	h.Publish("Line", "L1", []byte("b"))
	s.Close()

	if obs.published != 2 {
		t.Errorf("published = %d, want 2", obs.published)
	}
	if obs.dropped != 1 {
		t.Errorf("dropped = %d, want 1", obs.dropped)
	}
	if obs.subscribers != 0 {
		t.Errorf("subscribers = %d, want 0", obs.subscribers)
	}
}

func TestHub_ConcurrentPublishSubscribe(t *testing.T) {
	h := NewHub(Config{Capacity: 8, KeepAlive: time.Hour})

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := h.Subscribe("Line", "L1")
			for range 5 {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
				_, _ = s.Next(ctx)
				cancel()
			}
			s.Close()
		}()
		go func() {
			defer wg.Done()
			for j := range 20 {
				h.Publish("Line", "L1", []byte(fmt.Sprintf("%d-%d", i, j)))
			}
		}()
	}
	wg.Wait()

	if h.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", h.Subscribers())
	}
}
