// Package command holds the last commanded message for each actuator surface
// and flushes it to a Sink once per control tick.
package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/sweeney/cover-manual/internal/logic"
)

// Sink delivers encoded command messages.
type Sink interface {
	// Publish sends a per-tick command. Delivery is best effort.
	Publish(topic string, payload []byte) error

	// PublishRequest sends a one-off request that should survive a short
	// broker outage.
	PublishRequest(topic string, payload []byte) error
}

// Vector is the wire form of a linear velocity.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vectorOf(v r3.Vector) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func send(sink Sink, topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	if err := sink.Publish(topic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Compile-time checks that the senders satisfy the decision core's ports.
var (
	_ logic.Chassis         = (*Chassis)(nil)
	_ logic.Gimbal          = (*Gimbal)(nil)
	_ logic.Shooter         = (*Shooter)(nil)
	_ logic.Cover           = (*Cover)(nil)
	_ logic.DetectionSwitch = (*DetectionSwitch)(nil)
)
