package logic

import "time"

// ModeMachine mutates the cross-cutting mode flags in response to dispatched
// events. None of its handlers can fail; detection service calls are
// fire-and-forget and the local flags change immediately.
type ModeMachine struct {
	cfg Config
}

// NewModeMachine creates the mode handlers.
func NewModeMachine(cfg Config) *ModeMachine {
	return &ModeMachine{cfg: cfg}
}

// ChangeSpeedMode selects the translational speed tier.
func (m *ModeMachine) ChangeSpeedMode(s *State, mode SpeedMode) {
	s.SpeedMode = mode
	switch mode {
	case SpeedLow:
		s.SpeedScale = m.cfg.LowSpeedScale
	case SpeedNormal:
		s.SpeedScale = m.cfg.NormalSpeedScale
	}
}

// ChangeGyroSpeedMode recomputes the spin rate from the current
// translational input. LOW caps the rate at the gyro speed limit.
func (m *ModeMachine) ChangeGyroSpeedMode(s *State, sf Surfaces, mode SpeedMode) {
	scale := 1.0
	if translating(s) {
		scale = m.cfg.GyroRotateReduction
	}
	switch mode {
	case SpeedLow:
		sf.Chassis.SetAngularZVel(scale, m.cfg.GyroSpeedLimit)
	case SpeedNormal:
		sf.Chassis.SetAngularZVel(scale, NoLimit)
	}
}

// BuffPress switches every detection surface to the small buff, slows the
// spin if gyro is on and drops the shooter to its minimal heat tier,
// remembering the previous tier. The forward-hold exit window restarts at now.
func (m *ModeMachine) BuffPress(s *State, sf Surfaces, now time.Time) {
	for _, d := range detectionSurfaces(sf) {
		d.SetTargetType(TargetSmallBuff)
	}
	for _, d := range detectionSurfaces(sf) {
		d.CallService()
	}
	if s.Gyro {
		m.ChangeGyroSpeedMode(s, sf, SpeedLow)
	}
	s.LastShootFrequency = sf.Shooter.ShootFrequency()
	sf.Shooter.SetShootFrequency(FreqMinimal)
	s.LastSwitchTime = now
}

// BuffRelease returns to armor detection. The buff-type surface mirrors
// whatever the primary surface now reports.
func (m *ModeMachine) BuffRelease(s *State, sf Surfaces) {
	sf.Buff.SetTargetType(TargetArmor)
	sf.Detection.SetTargetType(TargetArmor)
	sf.BuffType.SetTargetType(sf.Buff.Target())
	sf.Exposure.SetTargetType(TargetArmor)
	for _, d := range detectionSurfaces(sf) {
		d.CallService()
	}
	if s.LastShootFrequency != "" {
		sf.Shooter.SetShootFrequency(s.LastShootFrequency)
	}
	if s.Gyro {
		m.ChangeGyroSpeedMode(s, sf, SpeedNormal)
	}
}

// InBuffMode reports whether the primary surface targets anything but armor.
func (m *ModeMachine) InBuffMode(sf Surfaces) bool {
	return sf.Buff.Target() != TargetArmor
}

// ChargeToggle ties the supply request to the power-limit state: with the
// cover commanded open it requests supply and charges, otherwise it clears
// the request.
func (m *ModeMachine) ChargeToggle(s *State, sf Surfaces) {
	if sf.Cover.State() {
		sf.Chassis.SetPowerLimit(PowerCharge)
		m.ChangeSpeedMode(s, SpeedLow)
		s.Supply = true
		return
	}
	sf.Chassis.SetPowerLimit(PowerNormal)
	m.ChangeSpeedMode(s, SpeedNormal)
	s.Supply = false
}

// WirelessToggle flips the wireless-follow request.
func (m *ModeMachine) WirelessToggle(s *State, sf Surfaces) {
	s.Wireless = !s.Wireless
	sf.Chassis.SetWirelessState(s.Wireless)
}

// BurstStart records the start of a burst window.
func (m *ModeMachine) BurstStart(sf Surfaces, now time.Time) {
	sf.Chassis.SetBurstStart(now)
}

// RawMode hands heading to the operator and allows burst power.
func (m *ModeMachine) RawMode(s *State, sf Surfaces) {
	sf.Chassis.SetMode(ChassisRaw)
	sf.Chassis.SetPowerLimit(PowerBurst)
	if m.InBuffMode(sf) {
		m.ChangeGyroSpeedMode(s, sf, SpeedLow)
	} else {
		m.ChangeGyroSpeedMode(s, sf, SpeedNormal)
	}
}

// FollowMode locks heading to the follow frame.
func (m *ModeMachine) FollowMode(sf Surfaces) {
	sf.Chassis.SetMode(ChassisFollow)
	sf.Chassis.SetPowerLimit(PowerNormal)
}

// GyroToggled recomputes the spin rate after the base gyro toggle.
func (m *ModeMachine) GyroToggled(s *State, sf Surfaces) {
	if !s.Gyro {
		return
	}
	if m.InBuffMode(sf) {
		m.ChangeGyroSpeedMode(s, sf, SpeedLow)
	} else {
		m.ChangeGyroSpeedMode(s, sf, SpeedNormal)
	}
}

// ForwardPressed runs after the base forward press.
func (m *ModeMachine) ForwardPressed(s *State, sf Surfaces, now time.Time) {
	if m.InBuffMode(sf) {
		s.LastSwitchTime = now
	}
}

// ForwardPressing runs after the base forward handling while the key is
// held. Holding forward past the exit duration leaves buff mode.
func (m *ModeMachine) ForwardPressing(s *State, sf Surfaces, now time.Time) {
	if !m.InBuffMode(sf) {
		return
	}
	if !s.LastSwitchTime.IsZero() && now.Sub(s.LastSwitchTime) > m.cfg.ExitBuffModeDuration {
		m.BuffRelease(s, sf)
		return
	}
	m.DirectionalPressing(s, sf)
}

// DirectionalPressing reduces the spin while a directional key is held in
// buff mode.
func (m *ModeMachine) DirectionalPressing(s *State, sf Surfaces) {
	if !m.InBuffMode(sf) {
		return
	}
	scale := 0.0
	if s.Gyro {
		scale = m.cfg.GyroRotateReduction
	}
	sf.Chassis.SetAngularZVel(scale, m.cfg.GyroSpeedLimit)
}

// DirectionalReleased restores the full spin once a directional key is
// released in buff mode.
func (m *ModeMachine) DirectionalReleased(s *State, sf Surfaces) {
	if !m.InBuffMode(sf) {
		return
	}
	scale := 0.0
	if s.Gyro {
		scale = 1.0
	}
	sf.Chassis.SetAngularZVel(scale, m.cfg.GyroSpeedLimit)
}

// UpdateGyro applies the per-sample spin rate while gyro is on. Buff mode
// uses the capped reduced/full rate; armor mode modulates the rate with the
// configured sinusoid.
func (m *ModeMachine) UpdateGyro(s *State, sf Surfaces, now time.Time) {
	if !s.Gyro {
		return
	}
	if m.InBuffMode(sf) {
		m.ChangeGyroSpeedMode(s, sf, SpeedLow)
		return
	}
	scale := m.cfg.GyroScale.At(now)
	if translating(s) {
		scale *= m.cfg.GyroRotateReduction
	}
	sf.Chassis.SetAngularZVel(scale, NoLimit)
}

func translating(s *State) bool {
	return s.XScale != 0.0 || s.YScale != 0.0
}

func detectionSurfaces(sf Surfaces) []DetectionSwitch {
	return []DetectionSwitch{sf.Buff, sf.Detection, sf.BuffType, sf.Exposure}
}
