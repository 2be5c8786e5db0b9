package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "gridstore"

// Topics builds gridstore MQTT topics under a prefix.
//
//	topics := mqtt.Topics{Prefix: "gridstore"}
//	topics.State("Line", "NHV1_NHV2_1")
//	// Returns: "gridstore/state/Line/NHV1_NHV2_1"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return strings.TrimSuffix(t.Prefix, "/")
}

// State returns the retained snapshot topic of one component.
//
// Example: gridstore/state/Line/NHV1_NHV2_1
func (t Topics) State(kind, id string) string {
	return fmt.Sprintf("%s/state/%s/%s", t.prefix(), kind, id)
}

// Update returns the topic on which update requests for one component are accepted.
// The payload is a patch object.
//
// Example: gridstore/update/Line/NHV1_NHV2_1
func (t Topics) Update(kind, id string) string {
	return fmt.Sprintf("%s/update/%s/%s", t.prefix(), kind, id)
}

// SystemStatus returns the system status topic.
//
// Example: gridstore/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}

// AllUpdates returns a pattern matching every update request topic.
//
// Pattern: gridstore/update/+/+
func (t Topics) AllUpdates() string {
	return fmt.Sprintf("%s/update/+/+", t.prefix())
}

// ParseUpdate extracts kind and identifier from an update request topic.
// Identifiers containing "/" are not addressable over MQTT.
func (t Topics) ParseUpdate(topic string) (kind, id string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.prefix()+"/update/")
	if !found {
		return "", "", false
	}
	kind, id, found = strings.Cut(rest, "/")
	if !found || kind == "" || id == "" || strings.Contains(id, "/") {
		return "", "", false
	}
	return kind, id, true
}
