package logic

import (
	"errors"
	"time"

	"github.com/golang/geo/r3"
)

// ErrTransformUnavailable is returned (wrapped) by a Transformer when the
// requested frame pair cannot be resolved right now.
var ErrTransformUnavailable = errors.New("transform unavailable")

// NoLimit disables the angular velocity cap in Chassis.SetAngularZVel.
const NoLimit = 0.0

// Chassis is the chassis command surface.
type Chassis interface {
	SetMode(mode ChassisMode)
	Mode() ChassisMode
	SetFollowFrame(frame string)
	FollowFrame() string
	SetWirelessState(on bool)
	SetPowerLimit(state PowerLimitState)
	PowerLimit() PowerLimitState
	SetBurstStart(t time.Time)
	SetLinearVel(v r3.Vector)
	// SetAngularZVel sets the spin rate as a fraction of full rate, capped
	// at limit rad/s unless limit is NoLimit.
	SetAngularZVel(scale, limit float64)
	SendCommand(now time.Time) error
}

// Gimbal is the gimbal command surface.
type Gimbal interface {
	SetMode(mode GimbalMode)
	Mode() GimbalMode
	SetRate(yaw, pitch float64)
	SetTraj(yaw, pitch float64)
	SendCommand(now time.Time) error
}

// Shooter is the shooter command surface.
type Shooter interface {
	SetMode(mode ShootMode)
	Mode() ShootMode
	SetShootFrequency(freq ShootFrequency)
	ShootFrequency() ShootFrequency
	CheckError(now time.Time)
	SendCommand(now time.Time) error
}

// Cover is the binary joint command surface of the supply cover.
type Cover interface {
	On()
	Off()
	// State reports whether the cover is commanded open.
	State() bool
	// Position is the last commanded joint position.
	Position() float64
	SendCommand(now time.Time) error
}

// DetectionSwitch is one detection/targeting surface. CallService is
// fire-and-forget; local state never waits on it.
type DetectionSwitch interface {
	SetTargetType(target DetectionTarget)
	Target() DetectionTarget
	CallService()
}

// Transformer looks up the rotation of source relative to target.
type Transformer interface {
	Lookup(target, source string) (Quaternion, error)
}

// Surfaces bundles every outward collaborator of the controller.
type Surfaces struct {
	Chassis Chassis
	Gimbal  Gimbal
	Shooter Shooter
	Cover   Cover

	// Detection is the secondary detector, Buff the primary target surface,
	// BuffType the buff-type detector and Exposure the camera exposure control.
	Detection DetectionSwitch
	Buff      DetectionSwitch
	BuffType  DetectionSwitch
	Exposure  DetectionSwitch

	Transforms Transformer
}
