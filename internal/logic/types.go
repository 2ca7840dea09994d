// Package logic contains the decision core of the cover manual controller.
// This package has NO I/O dependencies (no MQTT, GPIO, OS, or time.Sleep).
// Time is always injectable via time.Time parameters, and every outward
// effect goes through the small interfaces in ports.go.
package logic

import (
	"math"
	"time"
)

// DetectionTarget is the target type requested from a detection surface.
type DetectionTarget string

const (
	TargetArmor     DetectionTarget = "ARMOR"
	TargetSmallBuff DetectionTarget = "SMALL_BUFF"
	TargetLargeBuff DetectionTarget = "LARGE_BUFF"
)

// SpeedMode selects between the normal and reduced speed tiers.
type SpeedMode string

const (
	SpeedLow    SpeedMode = "LOW"
	SpeedNormal SpeedMode = "NORMAL"
)

// PowerLimitState is the chassis power-limit state consumed by the external
// power-limit controller.
type PowerLimitState string

const (
	PowerNormal PowerLimitState = "NORMAL"
	PowerBurst  PowerLimitState = "BURST"
	PowerCharge PowerLimitState = "CHARGE"
)

// ChassisMode is the heading mode of the chassis.
type ChassisMode string

const (
	ChassisRaw    ChassisMode = "RAW"
	ChassisFollow ChassisMode = "FOLLOW"
)

// GimbalMode is the gimbal command mode.
type GimbalMode string

const (
	GimbalRate  GimbalMode = "RATE"
	GimbalTraj  GimbalMode = "TRAJ"
	GimbalTrack GimbalMode = "TRACK"
)

// ShootMode is the shooter command mode.
type ShootMode string

const (
	ShootStop  ShootMode = "STOP"
	ShootReady ShootMode = "READY"
	ShootPush  ShootMode = "PUSH"
)

// ShootFrequency is a heat-limit tier for the shooter.
type ShootFrequency string

const (
	FreqMinimal ShootFrequency = "MINIMAL"
	FreqLow     ShootFrequency = "LOW"
	FreqHigh    ShootFrequency = "HIGH"
	FreqBurst   ShootFrequency = "BURST"
)

// SwitchPosition is the position of a three-way remote switch.
type SwitchPosition string

const (
	SwitchUp   SwitchPosition = "UP"
	SwitchMid  SwitchPosition = "MID"
	SwitchDown SwitchPosition = "DOWN"
)

// ControlMode is selected by the right switch.
type ControlMode string

const (
	ControlIdle ControlMode = "IDLE"
	ControlRC   ControlMode = "RC"
	ControlPC   ControlMode = "PC"
)

// Well-known frames used by the docking sequence.
const (
	BaseFrame  = "base_link"
	CoverFrame = "cover"
	YawFrame   = "yaw"
)

// Keys holds the keyboard levels of one input sample.
type Keys struct {
	W, A, S, D bool
	Q, E, R    bool
	Z, X, C    bool
	B, F, G    bool
	Ctrl       bool
}

// Mouse holds the mouse state of one input sample.
type Mouse struct {
	X, Y float64
	Left bool
}

// Stick holds the remote stick axes, each in [-1, 1].
type Stick struct {
	LX, LY float64
	RX, RY float64
}

// Input represents a single sample of operator input.
type Input struct {
	Time        time.Time
	RightSwitch SwitchPosition
	Keys        Keys
	Mouse       Mouse
	Stick       Stick
}

// ModuleReading is one module's online flag from drive telemetry.
type ModuleReading struct {
	Name   string
	Online bool
}

// Quaternion is a rotation as reported by the transform service.
type Quaternion struct {
	X, Y, Z, W float64
}

// RPY decomposes q into roll, pitch and yaw (fixed-axis XYZ).
func (q Quaternion) RPY() (roll, pitch, yaw float64) {
	roll = math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}
	yaw = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	return roll, pitch, yaw
}

// QuaternionFromRPY builds the rotation for the given roll, pitch and yaw.
func QuaternionFromRPY(roll, pitch, yaw float64) Quaternion {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)
	return Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// ModeFlags is a point-in-time view of the cross-cutting mode flags.
type ModeFlags struct {
	Control                 ControlMode
	Gyro                    bool
	SupplyRequested         bool
	WirelessFollowRequested bool
	CoverClosed             bool
	SpeedMode               SpeedMode
	DetectionTarget         DetectionTarget
	PowerLimit              PowerLimitState
}

// Telemetry is the outgoing referee snippet produced every tick.
type Telemetry struct {
	CoverOpen     bool
	DetTarget     DetectionTarget
	WheelsOffline bool
}

// WheelStatus is one row of the wheel online table.
type WheelStatus struct {
	Name   string
	Online bool
}

// State is the single mutable record shared by the controller components.
// It is owned by Controller and passed by reference to each component.
type State struct {
	Control     ControlMode
	Gyro        bool
	Supply      bool
	Wireless    bool
	CoverClosed bool

	SpeedMode  SpeedMode
	SpeedScale float64

	// Translational axes in [-1, 1].
	XScale float64
	YScale float64

	LastShootFrequency ShootFrequency
	LastSwitchTime     time.Time

	TrackedID int
	ScanCount int
	AimActive bool

	LastPowerOutput bool
}
