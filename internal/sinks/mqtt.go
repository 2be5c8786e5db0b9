package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gridstore-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gridstore-core/internal/registry"
)

// defaultUpdateTimeout bounds one update received over MQTT.
const defaultUpdateTimeout = 10 * time.Second

// Publisher is the publishing side of *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Subscriber is the subscribing side of *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Updater applies a raw patch. It is satisfied by *registry.Engine.
type Updater interface {
	Update(ctx context.Context, kind, id string, raw []byte) (*registry.Update, error)
}

// Logger defines the logging interface used by the sinks.
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

// MQTTSink publishes post-update snapshots as retained state messages.
type MQTTSink struct {
	pub    Publisher
	topics mqtt.Topics
	qos    byte
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher, topics mqtt.Topics, qos byte) *MQTTSink {
	return &MQTTSink{pub: pub, topics: topics, qos: qos}
}

// Name implements registry.Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Apply implements registry.Sink.
func (s *MQTTSink) Apply(_ context.Context, u registry.Update) error {
	topic := s.topics.State(u.Kind, u.ID)
	if err := s.pub.Publish(topic, u.Snapshot, s.qos, true); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// UpdateListener applies patches received on the update topics.
type UpdateListener struct {
	sub     Subscriber
	topics  mqtt.Topics
	qos     byte
	engine  Updater
	logger  Logger
	timeout time.Duration
}

// NewUpdateListener creates a listener; call Start to subscribe.
func NewUpdateListener(sub Subscriber, topics mqtt.Topics, qos byte, engine Updater) *UpdateListener {
	return &UpdateListener{
		sub:     sub,
		topics:  topics,
		qos:     qos,
		engine:  engine,
		logger:  noopLogger{},
		timeout: defaultUpdateTimeout,
	}
}

// SetLogger sets the logger for the listener.
func (l *UpdateListener) SetLogger(logger Logger) {
	l.logger = logger
}

// Start subscribes to every update topic.
func (l *UpdateListener) Start() error {
	if err := l.sub.Subscribe(l.topics.AllUpdates(), l.qos, l.handle); err != nil {
		return fmt.Errorf("subscribing to updates: %w", err)
	}
	l.logger.Info("listening for MQTT updates", "topic", l.topics.AllUpdates())
	return nil
}

// Stop unsubscribes from the update topics.
func (l *UpdateListener) Stop() error {
	return l.sub.Unsubscribe(l.topics.AllUpdates())
}

// handle applies one message. Errors are returned to the MQTT client,
// which logs them; nothing is published back.
func (l *UpdateListener) handle(topic string, payload []byte) error {
	kind, id, ok := l.topics.ParseUpdate(topic)
	if !ok {
		return fmt.Errorf("unroutable update topic %q", topic)
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	ctx = registry.ContextWithRequestID(ctx, "mqtt-"+uuid.NewString())

	u, err := l.engine.Update(ctx, kind, id, payload)
	if err != nil {
		return fmt.Errorf("updating %s %q: %w", kind, id, err)
	}
	l.logger.Debug("applied MQTT update", "kind", kind, "id", id, "changed", u.Changed())
	return nil
}
