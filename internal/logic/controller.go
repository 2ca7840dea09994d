package logic

import "time"

// Controller owns the shared State and sequences the base behaviour, mode
// handlers, docking and aim assist. All methods must be called from a single
// goroutine (the control loop).
type Controller struct {
	cfg   Config
	state State
	sf    Surfaces
	now   time.Time

	switches *Dispatcher
	keyboard *Dispatcher

	base     *Manual
	modes    *ModeMachine
	docking  *Docking
	aim      *AimAssist
	watchdog *WheelWatchdog
	composer *Composer
}

// NewController creates a controller with configured defaults and binds the
// operator controls.
func NewController(cfg Config, sf Surfaces) *Controller {
	c := &Controller{
		cfg:      cfg,
		sf:       sf,
		switches: NewDispatcher(),
		keyboard: NewDispatcher(),
		base:     NewManual(cfg),
		modes:    NewModeMachine(cfg),
		docking:  NewDocking(cfg),
		aim:      NewAimAssist(),
		watchdog: NewWheelWatchdog(cfg.ChassisMotors),
	}
	c.composer = NewComposer(c.docking, c.watchdog)
	c.state.Control = ControlIdle
	c.modes.ChangeSpeedMode(&c.state, SpeedNormal)
	c.bind()
	return c
}

func (c *Controller) bind() {
	s, sf := &c.state, c.sf

	c.switches.Bind("right_switch_up", func(in Input) bool { return in.RightSwitch == SwitchUp },
		Rising(func() {
			c.base.RightSwitchUp(s, sf)
			s.Supply = false
		}))
	c.switches.Bind("right_switch_mid", func(in Input) bool { return in.RightSwitch == SwitchMid },
		Rising(func() {
			c.base.RightSwitchMid(s, sf)
			s.Supply = false
		}))
	c.switches.Bind("right_switch_down", func(in Input) bool { return in.RightSwitch == SwitchDown },
		Rising(func() {
			c.base.RightSwitchDown(s, sf)
			s.Supply = true
		}))

	kb := c.keyboard
	kb.Bind("w", func(in Input) bool { return in.Keys.W && !in.Keys.Ctrl },
		Both(func() { c.modes.ForwardPressed(s, sf, c.now) }, func() { c.modes.DirectionalReleased(s, sf) }))
	kb.Bind("w", func(in Input) bool { return in.Keys.W && !in.Keys.Ctrl },
		ActiveHigh(func() { c.modes.ForwardPressing(s, sf, c.now) }, nil))
	c.bindDirection("s", func(in Input) bool { return in.Keys.S && !in.Keys.Ctrl })
	c.bindDirection("a", func(in Input) bool { return in.Keys.A && !in.Keys.Ctrl })
	c.bindDirection("d", func(in Input) bool { return in.Keys.D && !in.Keys.Ctrl })

	kb.Bind("e", func(in Input) bool { return in.Keys.E && !in.Keys.Ctrl },
		Both(func() { c.modes.BuffPress(s, sf, c.now) }, func() { c.modes.BuffRelease(s, sf) }))
	kb.Bind("q", func(in Input) bool { return in.Keys.Q && !in.Keys.Ctrl },
		Rising(func() { c.modes.FollowMode(sf) }))
	kb.Bind("c", func(in Input) bool { return in.Keys.C && !in.Keys.Ctrl },
		Rising(func() { c.modes.RawMode(s, sf) }))
	kb.Bind("b", func(in Input) bool { return in.Keys.B && !in.Keys.Ctrl },
		Rising(func() { c.modes.BurstStart(sf, c.now) }))
	kb.Bind("f", func(in Input) bool { return in.Keys.F && !in.Keys.Ctrl },
		Rising(func() { c.base.CycleShootFrequency(sf) }))
	kb.Bind("g", func(in Input) bool { return in.Keys.G && !in.Keys.Ctrl },
		Rising(func() {
			c.base.GyroToggle(s, sf)
			c.modes.GyroToggled(s, sf)
		}))

	kb.Bind("ctrl_z", func(in Input) bool { return in.Keys.Ctrl && in.Keys.Z },
		Rising(func() { c.modes.ChargeToggle(s, sf) }))
	kb.Bind("ctrl_x", func(in Input) bool { return in.Keys.Ctrl && in.Keys.X },
		Rising(func() { c.modes.WirelessToggle(s, sf) }))
	kb.Bind("ctrl_r", func(in Input) bool { return in.Keys.Ctrl && in.Keys.R },
		ActiveHigh(func() { c.aim.Pressing(s, sf, c.now) }, func() { c.aim.Release(s, sf) }))

	kb.Bind("mouse_left", func(in Input) bool { return in.Mouse.Left },
		ActiveHigh(func() { c.base.TriggerPressing(sf, c.now) }, func() { c.base.TriggerRelease(sf) }))
}

func (c *Controller) bindDirection(name string, signal Signal) {
	s, sf := &c.state, c.sf
	c.keyboard.Bind(name, signal, Falling(func() { c.modes.DirectionalReleased(s, sf) }))
	c.keyboard.Bind(name, signal, ActiveHigh(func() { c.modes.DirectionalPressing(s, sf) }, nil))
}

// Update applies one operator input sample. The keyboard is only sampled in
// PC mode; keys released while away fire their release handlers on return.
func (c *Controller) Update(in Input) {
	c.now = in.Time
	prev := c.state.Control
	c.switches.Update(in)
	if c.state.Control != prev {
		c.aim.Reset(&c.state)
	}
	if c.state.Control == ControlPC {
		c.base.KeyAxes(&c.state, in.Keys)
		c.keyboard.Update(in)
	}
	c.base.Update(&c.state, c.sf, in)
	if c.state.Control != ControlIdle {
		c.modes.UpdateGyro(&c.state, c.sf, in.Time)
	}
}

// OnPowerStatus applies the chassis power-output flag from referee telemetry.
func (c *Controller) OnPowerStatus(chassisOutput bool, now time.Time) {
	c.watchdog.OnPowerTransition(c.state.LastPowerOutput, chassisOutput, now)
	c.state.LastPowerOutput = chassisOutput
}

// OnWheelReadings applies drive-module online readings.
func (c *Controller) OnWheelReadings(readings []ModuleReading) {
	c.watchdog.OnTelemetry(readings)
}

// OnTrack records the currently tracked target id (0 = none).
func (c *Controller) OnTrack(id int) {
	c.state.TrackedID = id
}

// Tick composes and sends the commands for this tick.
func (c *Controller) Tick(now time.Time) (Telemetry, error) {
	return c.composer.Compose(&c.state, c.sf, now)
}

// Flags returns the current mode flags.
func (c *Controller) Flags() ModeFlags {
	return ModeFlags{
		Control:                 c.state.Control,
		Gyro:                    c.state.Gyro,
		SupplyRequested:         c.state.Supply,
		WirelessFollowRequested: c.state.Wireless,
		CoverClosed:             c.state.CoverClosed,
		SpeedMode:               c.state.SpeedMode,
		DetectionTarget:         c.sf.Buff.Target(),
		PowerLimit:              c.sf.Chassis.PowerLimit(),
	}
}

// State returns a copy of the shared state.
func (c *Controller) State() State {
	return c.state
}

// Wheels returns the wheel online table and the offline latch.
func (c *Controller) Wheels() ([]WheelStatus, bool) {
	return c.watchdog.Table(), c.watchdog.Offline()
}

// Bindings returns the names of every bound control.
func (c *Controller) Bindings() []string {
	return append(c.switches.Names(), c.keyboard.Names()...)
}
