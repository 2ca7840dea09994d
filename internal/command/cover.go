package command

import "time"

// CoverMessage is the cover joint command as sent on the wire.
type CoverMessage struct {
	Timestamp string  `json:"timestamp"`
	Position  float64 `json:"position"`
}

// Cover is a binary joint sender switching between two fixed positions.
type Cover struct {
	sink   Sink
	topic  string
	onPos  float64
	offPos float64
	pos    float64
}

// NewCover creates a cover sender commanded closed.
func NewCover(sink Sink, topic string, onPos, offPos float64) *Cover {
	return &Cover{sink: sink, topic: topic, onPos: onPos, offPos: offPos, pos: offPos}
}

// On commands the cover open.
func (c *Cover) On() { c.pos = c.onPos }

// Off commands the cover closed.
func (c *Cover) Off() { c.pos = c.offPos }

// State reports whether the cover is commanded open.
func (c *Cover) State() bool { return c.pos == c.onPos }

// Position returns the commanded joint position.
func (c *Cover) Position() float64 { return c.pos }

// SendCommand publishes the commanded position.
func (c *Cover) SendCommand(now time.Time) error {
	return send(c.sink, c.topic, CoverMessage{Timestamp: stamp(now), Position: c.pos})
}
