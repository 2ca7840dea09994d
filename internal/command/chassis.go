package command

import (
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/sweeney/cover-manual/internal/logic"
)

// ChassisMessage is the chassis command as sent on the wire.
type ChassisMessage struct {
	Timestamp    string                `json:"timestamp"`
	Mode         logic.ChassisMode     `json:"mode"`
	FollowFrame  string                `json:"follow_frame"`
	Wireless     bool                  `json:"wireless"`
	PowerLimit   logic.PowerLimitState `json:"power_limit"`
	BurstStart   string                `json:"burst_start,omitempty"`
	Linear       Vector                `json:"linear"`
	AngularScale float64               `json:"angular_scale"`
	AngularLimit float64               `json:"angular_limit,omitempty"`
}

// Chassis is the chassis command sender.
type Chassis struct {
	sink  Sink
	topic string

	mode         logic.ChassisMode
	frame        string
	wireless     bool
	power        logic.PowerLimitState
	burstStart   time.Time
	linear       r3.Vector
	angularScale float64
	angularLimit float64
}

// NewChassis creates a chassis sender following the yaw frame.
func NewChassis(sink Sink, topic string) *Chassis {
	return &Chassis{
		sink:  sink,
		topic: topic,
		mode:  logic.ChassisFollow,
		frame: logic.YawFrame,
		power: logic.PowerNormal,
	}
}

func (c *Chassis) SetMode(mode logic.ChassisMode)            { c.mode = mode }
func (c *Chassis) Mode() logic.ChassisMode                   { return c.mode }
func (c *Chassis) SetFollowFrame(frame string)               { c.frame = frame }
func (c *Chassis) FollowFrame() string                       { return c.frame }
func (c *Chassis) SetWirelessState(on bool)                  { c.wireless = on }
func (c *Chassis) SetPowerLimit(state logic.PowerLimitState) { c.power = state }
func (c *Chassis) PowerLimit() logic.PowerLimitState         { return c.power }
func (c *Chassis) SetBurstStart(t time.Time)                 { c.burstStart = t }
func (c *Chassis) SetLinearVel(v r3.Vector)                  { c.linear = v }

// SetAngularZVel sets the spin rate fraction. Negative limits are treated
// as no limit.
func (c *Chassis) SetAngularZVel(scale, limit float64) {
	c.angularScale = scale
	c.angularLimit = math.Max(limit, logic.NoLimit)
}

// Message returns the command that the next SendCommand will publish.
func (c *Chassis) Message(now time.Time) ChassisMessage {
	msg := ChassisMessage{
		Timestamp:    stamp(now),
		Mode:         c.mode,
		FollowFrame:  c.frame,
		Wireless:     c.wireless,
		PowerLimit:   c.power,
		Linear:       vectorOf(c.linear),
		AngularScale: c.angularScale,
		AngularLimit: c.angularLimit,
	}
	if !c.burstStart.IsZero() {
		msg.BurstStart = stamp(c.burstStart)
	}
	return msg
}

// SendCommand publishes the current chassis command.
func (c *Chassis) SendCommand(now time.Time) error {
	return send(c.sink, c.topic, c.Message(now))
}
