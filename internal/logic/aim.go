package logic

import (
	"math"
	"time"
)

// ScanPeriod is the pitch period of the search scan, in ticks.
const ScanPeriod = 1100

// ScanPoint returns the gimbal trajectory point for scan tick count. Yaw
// grows without bound; pitch repeats every ScanPeriod ticks.
func ScanPoint(count int) (yaw, pitch float64) {
	yaw = math.Pi * float64(count) / 1000
	pitch = 0.15*math.Sin(2*math.Pi*float64(count%ScanPeriod)/ScanPeriod) + 0.15
	return yaw, pitch
}

// AimAssist scans for a target while the assist control is held and locks
// onto it once the tracker reports one.
type AimAssist struct{}

// NewAimAssist creates the aim-assist sequencer.
func NewAimAssist() *AimAssist {
	return &AimAssist{}
}

// Pressing runs every tick while the assist control is held.
func (a *AimAssist) Pressing(s *State, sf Surfaces, now time.Time) {
	if !s.AimActive {
		s.AimActive = true
		if !s.Gyro {
			sf.Chassis.SetPowerLimit(PowerNormal)
			sf.Chassis.SetMode(ChassisRaw)
		}
	}

	if s.TrackedID == 0 {
		sf.Gimbal.SetMode(GimbalTraj)
		yaw, pitch := ScanPoint(s.ScanCount)
		s.ScanCount++
		sf.Gimbal.SetTraj(yaw, pitch)
		sf.Shooter.SetMode(ShootReady)
		return
	}

	sf.Gimbal.SetMode(GimbalTrack)
	sf.Shooter.SetMode(ShootPush)
	sf.Shooter.CheckError(now)
}

// Release returns the gimbal to manual rate control.
func (a *AimAssist) Release(s *State, sf Surfaces) {
	a.Reset(s)
	sf.Gimbal.SetMode(GimbalRate)
	sf.Shooter.SetMode(ShootReady)
}

// Reset forgets an in-progress scan without touching the surfaces.
func (a *AimAssist) Reset(s *State) {
	s.AimActive = false
	s.ScanCount = 0
}
