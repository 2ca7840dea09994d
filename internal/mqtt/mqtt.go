// Package mqtt carries the controller's traffic over MQTT: operator input,
// referee and drive telemetry, transforms and tracker output in; actuator
// commands, detection requests, referee snippets and lifecycle events out.
package mqtt

import (
	"encoding/json"
	"errors"
	"time"
)

// Inbound topics.
const (
	TopicDbus          = "robot/manual/dbus"
	TopicRobotStatus   = "robot/referee/robot_status"
	TopicWheelReadings = "robot/ecat/readings"
	TopicTransforms    = "robot/tf"
	TopicTrack         = "robot/track"
)

// Outbound topics.
const (
	TopicChassisCmd = "robot/manual/cmd/chassis"
	TopicGimbalCmd  = "robot/manual/cmd/gimbal"
	TopicShooterCmd = "robot/manual/cmd/shooter"
	TopicCoverCmd   = "robot/manual/cmd/cover"
	TopicReferee    = "robot/manual/referee"
	TopicSystem     = "robot/manual/system"
)

// InboundTopics lists every topic the controller subscribes to.
func InboundTopics() []string {
	return []string{TopicDbus, TopicRobotStatus, TopicWheelReadings, TopicTransforms, TopicTrack}
}

// DetectionTopic is the request topic of the named detector.
func DetectionTopic(name string) string {
	return "robot/detection/" + name + "/set"
}

// ErrNotConnected is returned for best-effort publishes while the broker is
// unreachable.
var ErrNotConnected = errors.New("mqtt: not connected")

// Publisher publishes controller traffic to MQTT.
type Publisher interface {
	// Publish sends a per-tick message at QoS 0. It is dropped, with
	// ErrNotConnected, while the broker is unreachable.
	Publish(topic string, payload []byte) error

	// PublishRequest sends a one-off request at QoS 1. Requests made while
	// disconnected are queued and replayed on reconnect.
	PublishRequest(topic string, payload []byte) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// Message is one inbound MQTT message.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscriber delivers inbound messages to a channel.
type Subscriber interface {
	// Subscribe registers topics; matching messages are sent to out.
	// Subscriptions survive reconnects.
	Subscribe(topics []string, out chan<- Message) error
}

// ConnectionStatus reports whether the MQTT connection is active and how
// many inbound messages were dropped because the consumer fell behind.
type ConnectionStatus interface {
	IsConnected() bool
	Dropped() uint64
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Session    string
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	Session   string `json:"session,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Session:   event.Session,
		},
	}
	return json.Marshal(payload)
}
