package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
)

// testConfig returns a configuration pointing at an unreachable broker.
// None of the tests below connect; broker tests carry the integration tag.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "gridstore-test",
		},
		Auth: config.MQTTAuthConfig{
			Username: "user",
			Password: "secret",
		},
		QoS:         1,
		TopicPrefix: "grid",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Options
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(testConfig())

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want [tcp://127.0.0.1:1883]", opts.Servers)
	}
	if opts.ClientID != "gridstore-test" {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, "gridstore-test")
	}
	if opts.Username != "user" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q, want user/secret", opts.Username, opts.Password)
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Errorf("AutoReconnect=%v CleanSession=%v, want both true", opts.AutoReconnect, opts.CleanSession)
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("TLSConfig = %+v, want MinVersion TLS1.2", opts.TLSConfig)
	}
}

func TestConfigureLWT(t *testing.T) {
	c := newClient(testConfig())

	if !c.opts.WillEnabled {
		t.Fatal("WillEnabled = false, want true")
	}
	if c.opts.WillTopic != "grid/system/status" {
		t.Errorf("WillTopic = %q, want %q", c.opts.WillTopic, "grid/system/status")
	}
	if !c.opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}
	if !strings.Contains(string(c.opts.WillPayload), `"reason":"unexpected_disconnect"`) {
		t.Errorf("WillPayload = %s, want unexpected_disconnect reason", c.opts.WillPayload)
	}
}

func TestStatusPayload(t *testing.T) {
	tests := []struct {
		name       string
		clientID   string
		state      string
		reason     string
		wantReason bool
	}{
		{"online", "gridstore-1", "online", "", false},
		{"graceful", "gridstore-1", "offline", "graceful_shutdown", true},
		{"quoted client id", `grid"store`, "online", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			if err := json.Unmarshal([]byte(statusPayload(tt.clientID, tt.state, tt.reason)), &got); err != nil {
				t.Fatalf("statusPayload() is not JSON: %v", err)
			}
			if got["client_id"] != tt.clientID {
				t.Errorf("client_id = %q, want %q", got["client_id"], tt.clientID)
			}
			if got["status"] != tt.state {
				t.Errorf("status = %q, want %q", got["status"], tt.state)
			}
			if _, ok := got["reason"]; ok != tt.wantReason {
				t.Errorf("reason present = %v, want %v", ok, tt.wantReason)
			}
			if _, err := time.Parse(time.RFC3339, got["timestamp"]); err != nil {
				t.Errorf("timestamp %q: %v", got["timestamp"], err)
			}
		})
	}
}

// =============================================================================
// Disconnected client
// =============================================================================

func TestClient_Disconnected(t *testing.T) {
	c := newClient(testConfig())

	if c.IsConnected() {
		t.Error("IsConnected() = true before Connect")
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := newClient(testConfig())
	topic := c.Topics().State("Line", "L1")

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("{}"), 1, ErrInvalidTopic},
		{"invalid qos", topic, []byte("{}"), 3, ErrInvalidQoS},
		{"oversized payload", topic, make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", topic, []byte("{}"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, true)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := newClient(testConfig())
	handler := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{"empty topic", "", 1, handler, ErrInvalidTopic},
		{"invalid qos", "grid/update/+/+", 3, handler, ErrInvalidQoS},
		{"nil handler", "grid/update/+/+", 1, nil, ErrSubscribeFailed},
		{"not connected", "grid/update/+/+", 1, handler, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(c.handlers) != 0 {
		t.Errorf("len(handlers) = %d after failed subscribes, want 0", len(c.handlers))
	}
	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
}

func TestCloseUnconnected(t *testing.T) {
	if err := (&Client{}).Close(); err != nil {
		t.Errorf("Close() on zero client error = %v", err)
	}
}

// =============================================================================
// Handler wrapping
// =============================================================================

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type mockLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestDeliver(t *testing.T) {
	c := newClient(testConfig())
	logger := &mockLogger{}
	c.SetLogger(logger)

	msg := fakeMessage{topic: "grid/update/Line/L1", payload: []byte(`{"r":1}`)}

	var got string
	c.deliver(func(topic string, payload []byte) error {
		got = topic + " " + string(payload)
		return nil
	})(nil, msg)
	if got != `grid/update/Line/L1 {"r":1}` {
		t.Errorf("handler saw %q", got)
	}

	c.deliver(func(string, []byte) error { return errors.New("rejected") })(nil, msg)
	c.deliver(func(string, []byte) error { panic("boom") })(nil, msg)

	if len(logger.warns) != 1 {
		t.Errorf("warns = %v, want one handler error", logger.warns)
	}
	if len(logger.errors) != 1 {
		t.Errorf("errors = %v, want one recovered panic", logger.errors)
	}
}

// =============================================================================
// Topics
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Prefix: "grid/"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"State", topics.State("Line", "L1"), "grid/state/Line/L1"},
		{"Update", topics.Update("Load", "LOAD"), "grid/update/Load/LOAD"},
		{"SystemStatus", topics.SystemStatus(), "grid/system/status"},
		{"AllUpdates", topics.AllUpdates(), "grid/update/+/+"},
		{"default prefix", Topics{}.State("Line", "L1"), "gridstore/state/Line/L1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseUpdate(t *testing.T) {
	topics := Topics{Prefix: "grid"}

	tests := []struct {
		topic    string
		wantKind string
		wantID   string
		wantOK   bool
	}{
		{"grid/update/Line/L1", "Line", "L1", true},
		{"grid/update/Line", "", "", false},
		{"grid/update/Line/", "", "", false},
		{"grid/update/Line/a/b", "", "", false},
		{"grid/state/Line/L1", "", "", false},
		{"other/update/Line/L1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			kind, id, ok := topics.ParseUpdate(tt.topic)
			if kind != tt.wantKind || id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ParseUpdate() = (%q, %q, %v), want (%q, %q, %v)",
					kind, id, ok, tt.wantKind, tt.wantID, tt.wantOK)
			}
		})
	}
}
