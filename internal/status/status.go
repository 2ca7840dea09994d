// Package status provides a thread-safe status tracker for the cover-manual
// controller. It is written by the control loop and read by HTTP handlers,
// the websocket feed and lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

// Config contains controller configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Broker      string
	ClientID    string
	HTTPAddr    string
	PowerPin    int
}

// Snapshot is a point-in-time view of controller state.
// It is a value type; safe to use after the lock is released.
type Snapshot struct {
	Session        string
	Flags          logic.ModeFlags
	Telemetry      logic.Telemetry
	Wheels         []logic.WheelStatus
	ShooterPowered bool
	ChassisPowered bool
	Ticks          uint64
	LastError      string
	LastErrorTime  time.Time
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	MQTTDropped    uint64
	Config         Config

	// Version increases on every change; readers use it to skip
	// unchanged snapshots.
	Version uint64
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker for one controller session.
func NewTracker(startTime time.Time, session string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Session:        session,
			StartTime:      startTime,
			ShooterPowered: true,
			Config:         cfg,
		},
	}
}

// Update records the result of one control tick. Ticks always advances;
// Version only when the flags, telemetry or wheel table differ.
func (t *Tracker) Update(flags logic.ModeFlags, tel logic.Telemetry, wheels []logic.WheelStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Ticks++
	if t.snap.Flags == flags && t.snap.Telemetry == tel && sameWheels(t.snap.Wheels, wheels) {
		return
	}
	t.snap.Flags = flags
	t.snap.Telemetry = tel
	t.snap.Wheels = append([]logic.WheelStatus(nil), wheels...)
	t.snap.Version++
}

func sameWheels(a, b []logic.WheelStatus) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetError records the latest control-loop error. A nil error is ignored.
func (t *Tracker) SetError(err error, now time.Time) {
	if err == nil {
		return
	}
	t.mu.Lock()
	t.snap.LastError = err.Error()
	t.snap.LastErrorTime = now
	t.snap.Version++
	t.mu.Unlock()
}

// SetPower records the referee power-output flags.
func (t *Tracker) SetPower(chassis, shooter bool) {
	t.mu.Lock()
	if t.snap.ChassisPowered != chassis || t.snap.ShooterPowered != shooter {
		t.snap.ChassisPowered = chassis
		t.snap.ShooterPowered = shooter
		t.snap.Version++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	if t.snap.MQTTConnected != connected {
		t.snap.MQTTConnected = connected
		t.snap.Version++
	}
	t.mu.Unlock()
}

// SetMQTTDropped records the inbound drop counter.
func (t *Tracker) SetMQTTDropped(n uint64) {
	t.mu.Lock()
	if t.snap.MQTTDropped != n {
		t.snap.MQTTDropped = n
		t.snap.Version++
	}
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Wheels = append([]logic.WheelStatus(nil), t.snap.Wheels...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
