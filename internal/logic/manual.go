package logic

import (
	"time"

	"github.com/golang/geo/r3"
)

// Manual is the base chassis/gimbal/shooter behaviour. Specialised handlers
// in ModeMachine are sequenced around these calls by the Controller.
type Manual struct {
	cfg Config
}

// NewManual creates the base behaviour.
func NewManual(cfg Config) *Manual {
	return &Manual{cfg: cfg}
}

// RightSwitchDown enters IDLE: everything stops, the chassis keeps
// following its frame so docking can still rotate it.
func (m *Manual) RightSwitchDown(s *State, sf Surfaces) {
	s.Control = ControlIdle
	s.Gyro = false
	s.XScale, s.YScale = 0, 0
	sf.Chassis.SetMode(ChassisFollow)
	sf.Chassis.SetLinearVel(r3.Vector{})
	sf.Chassis.SetAngularZVel(0, NoLimit)
	sf.Gimbal.SetMode(GimbalRate)
	sf.Gimbal.SetRate(0, 0)
	sf.Shooter.SetMode(ShootStop)
}

// RightSwitchMid enters stick (RC) control.
func (m *Manual) RightSwitchMid(s *State, sf Surfaces) {
	s.Control = ControlRC
	s.XScale, s.YScale = 0, 0
	sf.Chassis.SetMode(ChassisFollow)
	sf.Gimbal.SetMode(GimbalRate)
	sf.Shooter.SetMode(ShootReady)
}

// RightSwitchUp enters keyboard (PC) control.
func (m *Manual) RightSwitchUp(s *State, sf Surfaces) {
	s.Control = ControlPC
	s.XScale, s.YScale = 0, 0
	sf.Chassis.SetMode(ChassisFollow)
	sf.Gimbal.SetMode(GimbalRate)
	sf.Shooter.SetMode(ShootReady)
}

// KeyAxes sets the translational axes from the held direction keys.
// Ctrl turns the letters into chords, so they do not move the chassis.
func (m *Manual) KeyAxes(s *State, k Keys) {
	if k.Ctrl {
		s.XScale, s.YScale = 0, 0
		return
	}
	s.XScale = level(k.W) - level(k.S)
	s.YScale = level(k.A) - level(k.D)
}

// GyroToggle flips gyro-spin. The spin rate itself is recomputed by the
// caller through ModeMachine.
func (m *Manual) GyroToggle(s *State, sf Surfaces) {
	s.Gyro = !s.Gyro
	if s.Gyro {
		sf.Chassis.SetMode(ChassisRaw)
		return
	}
	sf.Chassis.SetMode(ChassisFollow)
	sf.Chassis.SetAngularZVel(0, NoLimit)
}

// TriggerPressing fires while the trigger is held.
func (m *Manual) TriggerPressing(sf Surfaces, now time.Time) {
	sf.Shooter.SetMode(ShootPush)
	sf.Shooter.CheckError(now)
}

// TriggerRelease stops firing.
func (m *Manual) TriggerRelease(sf Surfaces) {
	sf.Shooter.SetMode(ShootReady)
}

// CycleShootFrequency steps LOW -> HIGH -> BURST -> LOW.
func (m *Manual) CycleShootFrequency(sf Surfaces) {
	switch sf.Shooter.ShootFrequency() {
	case FreqLow:
		sf.Shooter.SetShootFrequency(FreqHigh)
	case FreqHigh:
		sf.Shooter.SetShootFrequency(FreqBurst)
	default:
		sf.Shooter.SetShootFrequency(FreqLow)
	}
}

// Update applies the per-sample continuous inputs for the current control mode.
func (m *Manual) Update(s *State, sf Surfaces, in Input) {
	switch s.Control {
	case ControlPC:
		sf.Chassis.SetLinearVel(r3.Vector{X: s.XScale * s.SpeedScale, Y: s.YScale * s.SpeedScale})
		pitch := -in.Mouse.Y * m.cfg.GimbalScale
		if sf.Cover.State() {
			pitch = 0.0
		}
		sf.Gimbal.SetRate(-in.Mouse.X*m.cfg.GimbalScale, pitch)
	case ControlRC:
		s.XScale = clamp(in.Stick.LY, -1, 1)
		s.YScale = clamp(-in.Stick.LX, -1, 1)
		sf.Chassis.SetLinearVel(r3.Vector{X: s.XScale * s.SpeedScale, Y: s.YScale * s.SpeedScale})
		sf.Gimbal.SetRate(-in.Stick.RX*m.cfg.GimbalScale, -in.Stick.RY*m.cfg.GimbalScale)
	}
}

func level(held bool) float64 {
	if held {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
