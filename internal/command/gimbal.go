package command

import (
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

// GimbalMessage is the gimbal command as sent on the wire. Rate fields are
// used in RATE mode, trajectory fields in TRAJ mode; TRACK follows the
// tracker's own target.
type GimbalMessage struct {
	Timestamp string           `json:"timestamp"`
	Mode      logic.GimbalMode `json:"mode"`
	RateYaw   float64          `json:"rate_yaw"`
	RatePitch float64          `json:"rate_pitch"`
	TrajYaw   float64          `json:"traj_yaw"`
	TrajPitch float64          `json:"traj_pitch"`
}

// Gimbal is the gimbal command sender.
type Gimbal struct {
	sink  Sink
	topic string
	msg   GimbalMessage
}

// NewGimbal creates a gimbal sender in RATE mode.
func NewGimbal(sink Sink, topic string) *Gimbal {
	return &Gimbal{sink: sink, topic: topic, msg: GimbalMessage{Mode: logic.GimbalRate}}
}

func (g *Gimbal) SetMode(mode logic.GimbalMode) { g.msg.Mode = mode }
func (g *Gimbal) Mode() logic.GimbalMode        { return g.msg.Mode }

func (g *Gimbal) SetRate(yaw, pitch float64) {
	g.msg.RateYaw, g.msg.RatePitch = yaw, pitch
}

func (g *Gimbal) SetTraj(yaw, pitch float64) {
	g.msg.TrajYaw, g.msg.TrajPitch = yaw, pitch
}

// Message returns the command that the next SendCommand will publish.
func (g *Gimbal) Message(now time.Time) GimbalMessage {
	msg := g.msg
	msg.Timestamp = stamp(now)
	return msg
}

// SendCommand publishes the current gimbal command.
func (g *Gimbal) SendCommand(now time.Time) error {
	return send(g.sink, g.topic, g.Message(now))
}
