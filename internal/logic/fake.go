package logic

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
)

// FakeChassis records chassis commands for test assertions.
type FakeChassis struct {
	ModeValue    ChassisMode
	Frame        string
	Wireless     bool
	Power        PowerLimitState
	BurstStart   time.Time
	Linear       r3.Vector
	AngularScale float64
	AngularLimit float64
	AngularCalls int
	Sent         int
	SendError    error
}

// SetMode records the mode.
func (f *FakeChassis) SetMode(mode ChassisMode) { f.ModeValue = mode }

// Mode returns the recorded mode.
func (f *FakeChassis) Mode() ChassisMode { return f.ModeValue }

// SetFollowFrame records the follow frame.
func (f *FakeChassis) SetFollowFrame(frame string) { f.Frame = frame }

// FollowFrame returns the recorded follow frame.
func (f *FakeChassis) FollowFrame() string { return f.Frame }

// SetWirelessState records the wireless flag.
func (f *FakeChassis) SetWirelessState(on bool) { f.Wireless = on }

// SetPowerLimit records the power-limit state.
func (f *FakeChassis) SetPowerLimit(state PowerLimitState) { f.Power = state }

// PowerLimit returns the recorded power-limit state.
func (f *FakeChassis) PowerLimit() PowerLimitState { return f.Power }

// SetBurstStart records the burst start.
func (f *FakeChassis) SetBurstStart(t time.Time) { f.BurstStart = t }

// SetLinearVel records the linear velocity.
func (f *FakeChassis) SetLinearVel(v r3.Vector) { f.Linear = v }

// SetAngularZVel records the spin rate and cap.
func (f *FakeChassis) SetAngularZVel(scale, limit float64) {
	f.AngularScale = scale
	f.AngularLimit = limit
	f.AngularCalls++
}

// SendCommand counts sends.
func (f *FakeChassis) SendCommand(now time.Time) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent++
	return nil
}

// FakeGimbal records gimbal commands.
type FakeGimbal struct {
	ModeValue GimbalMode
	RateYaw   float64
	RatePitch float64
	TrajYaw   float64
	TrajPitch float64
	Sent      int
}

// SetMode records the mode.
func (f *FakeGimbal) SetMode(mode GimbalMode) { f.ModeValue = mode }

// Mode returns the recorded mode.
func (f *FakeGimbal) Mode() GimbalMode { return f.ModeValue }

// SetRate records the rate.
func (f *FakeGimbal) SetRate(yaw, pitch float64) { f.RateYaw, f.RatePitch = yaw, pitch }

// SetTraj records the trajectory point.
func (f *FakeGimbal) SetTraj(yaw, pitch float64) { f.TrajYaw, f.TrajPitch = yaw, pitch }

// SendCommand counts sends.
func (f *FakeGimbal) SendCommand(now time.Time) error {
	f.Sent++
	return nil
}

// FakeShooter records shooter commands.
type FakeShooter struct {
	ModeValue   ShootMode
	Frequency   ShootFrequency
	ErrorChecks int
	Sent        int
}

// SetMode records the mode.
func (f *FakeShooter) SetMode(mode ShootMode) { f.ModeValue = mode }

// Mode returns the recorded mode.
func (f *FakeShooter) Mode() ShootMode { return f.ModeValue }

// SetShootFrequency records the frequency tier.
func (f *FakeShooter) SetShootFrequency(freq ShootFrequency) { f.Frequency = freq }

// ShootFrequency returns the recorded frequency tier.
func (f *FakeShooter) ShootFrequency() ShootFrequency { return f.Frequency }

// CheckError counts fault checks.
func (f *FakeShooter) CheckError(now time.Time) { f.ErrorChecks++ }

// SendCommand counts sends.
func (f *FakeShooter) SendCommand(now time.Time) error {
	f.Sent++
	return nil
}

// FakeCover is a binary joint with configurable open/closed positions.
type FakeCover struct {
	OnPos  float64
	OffPos float64
	Open   bool
	OnCall int
	Sent   int
}

// On commands the cover open.
func (f *FakeCover) On() {
	f.Open = true
	f.OnCall++
}

// Off commands the cover closed.
func (f *FakeCover) Off() { f.Open = false }

// State reports whether the cover is commanded open.
func (f *FakeCover) State() bool { return f.Open }

// Position returns the commanded joint position.
func (f *FakeCover) Position() float64 {
	if f.Open {
		return f.OnPos
	}
	return f.OffPos
}

// SendCommand counts sends.
func (f *FakeCover) SendCommand(now time.Time) error {
	f.Sent++
	return nil
}

// FakeDetection records target changes and service calls.
type FakeDetection struct {
	TargetValue DetectionTarget
	Calls       int
}

// SetTargetType records the target.
func (f *FakeDetection) SetTargetType(target DetectionTarget) { f.TargetValue = target }

// Target returns the recorded target.
func (f *FakeDetection) Target() DetectionTarget { return f.TargetValue }

// CallService counts service calls.
func (f *FakeDetection) CallService() { f.Calls++ }

// FakeTransformer returns scripted rotations per frame pair.
type FakeTransformer struct {
	Rotations map[string]Quaternion
	Lookups   int
}

// NewFakeTransformer creates an empty FakeTransformer.
func NewFakeTransformer() *FakeTransformer {
	return &FakeTransformer{Rotations: make(map[string]Quaternion)}
}

// Set scripts the rotation of source relative to target.
func (f *FakeTransformer) Set(target, source string, q Quaternion) {
	f.Rotations[target+"->"+source] = q
}

// Remove makes the pair unavailable.
func (f *FakeTransformer) Remove(target, source string) {
	delete(f.Rotations, target+"->"+source)
}

// Lookup returns the scripted rotation or ErrTransformUnavailable.
func (f *FakeTransformer) Lookup(target, source string) (Quaternion, error) {
	f.Lookups++
	q, ok := f.Rotations[target+"->"+source]
	if !ok {
		return Quaternion{}, fmt.Errorf("%s -> %s: %w", target, source, ErrTransformUnavailable)
	}
	return q, nil
}

// FakeSurfaces bundles one fake per port.
type FakeSurfaces struct {
	Chassis    *FakeChassis
	Gimbal     *FakeGimbal
	Shooter    *FakeShooter
	Cover      *FakeCover
	Detection  *FakeDetection
	Buff       *FakeDetection
	BuffType   *FakeDetection
	Exposure   *FakeDetection
	Transforms *FakeTransformer
}

// NewFakeSurfaces creates fakes in their power-on state: armor targets,
// LOW shoot frequency, cover closed at position 0 (open at 1.0).
func NewFakeSurfaces() *FakeSurfaces {
	return &FakeSurfaces{
		Chassis:    &FakeChassis{ModeValue: ChassisFollow, Power: PowerNormal},
		Gimbal:     &FakeGimbal{ModeValue: GimbalRate},
		Shooter:    &FakeShooter{ModeValue: ShootStop, Frequency: FreqLow},
		Cover:      &FakeCover{OnPos: 1.0, OffPos: 0.0},
		Detection:  &FakeDetection{TargetValue: TargetArmor},
		Buff:       &FakeDetection{TargetValue: TargetArmor},
		BuffType:   &FakeDetection{TargetValue: TargetArmor},
		Exposure:   &FakeDetection{TargetValue: TargetArmor},
		Transforms: NewFakeTransformer(),
	}
}

// Surfaces returns the fakes as controller ports.
func (f *FakeSurfaces) Surfaces() Surfaces {
	return Surfaces{
		Chassis:    f.Chassis,
		Gimbal:     f.Gimbal,
		Shooter:    f.Shooter,
		Cover:      f.Cover,
		Detection:  f.Detection,
		Buff:       f.Buff,
		BuffType:   f.BuffType,
		Exposure:   f.Exposure,
		Transforms: f.Transforms,
	}
}
