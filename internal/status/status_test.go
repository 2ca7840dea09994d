package status

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

var testFlags = logic.ModeFlags{
	Control:         logic.ControlPC,
	Gyro:            true,
	SupplyRequested: true,
	SpeedMode:       logic.SpeedLow,
	DetectionTarget: logic.TargetSmallBuff,
	PowerLimit:      logic.PowerCharge,
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{TickMs: 10, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	tr := NewTracker(start, "session-1", cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Session != "session-1" {
		t.Errorf("Session: got %q", snap.Session)
	}
	if snap.Config.TickMs != 10 || snap.Config.HTTPAddr != ":8080" {
		t.Errorf("unexpected config %+v", snap.Config)
	}
	if snap.MQTTConnected || snap.Ticks != 0 {
		t.Error("expected a fresh tracker")
	}
	if !snap.ShooterPowered {
		t.Error("shooter power is assumed on until reported")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	wheels := []logic.WheelStatus{{Name: "lf", Online: true}, {Name: "rf", Online: false}}

	tr.Update(testFlags, logic.Telemetry{CoverOpen: true, DetTarget: logic.TargetLargeBuff}, wheels)
	tr.Update(testFlags, logic.Telemetry{CoverOpen: true, DetTarget: logic.TargetLargeBuff}, wheels)

	snap := tr.Snapshot()
	if snap.Flags != testFlags {
		t.Errorf("Flags: got %+v", snap.Flags)
	}
	if !snap.Telemetry.CoverOpen || snap.Telemetry.DetTarget != logic.TargetLargeBuff {
		t.Errorf("Telemetry: got %+v", snap.Telemetry)
	}
	if snap.Ticks != 2 {
		t.Errorf("Ticks: got %d, want 2", snap.Ticks)
	}
	if len(snap.Wheels) != 2 || snap.Wheels[1].Online {
		t.Errorf("Wheels: got %+v", snap.Wheels)
	}
}

func TestUpdateCopiesWheels(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	wheels := []logic.WheelStatus{{Name: "lf", Online: true}}
	tr.Update(testFlags, logic.Telemetry{}, wheels)

	wheels[0].Online = false
	if !tr.Snapshot().Wheels[0].Online {
		t.Error("tracker must not alias the caller's slice")
	}

	snap := tr.Snapshot()
	snap.Wheels[0].Online = false
	if !tr.Snapshot().Wheels[0].Online {
		t.Error("snapshot must not alias the tracker's slice")
	}
}

func TestUpdateVersionOnlyOnChange(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	wheels := []logic.WheelStatus{{Name: "lf", Online: true}}
	tel := logic.Telemetry{DetTarget: logic.TargetArmor}

	tr.Update(testFlags, tel, wheels)
	v := tr.Snapshot().Version

	tr.Update(testFlags, tel, []logic.WheelStatus{{Name: "lf", Online: true}})
	snap := tr.Snapshot()
	if snap.Version != v {
		t.Errorf("unchanged tick must not bump the version: %d -> %d", v, snap.Version)
	}
	if snap.Ticks != 2 {
		t.Errorf("Ticks: got %d, want 2", snap.Ticks)
	}

	tr.Update(testFlags, tel, []logic.WheelStatus{{Name: "lf", Online: false}})
	if tr.Snapshot().Version == v {
		t.Fatal("wheel change must bump the version")
	}
	v = tr.Snapshot().Version

	tr.Update(testFlags, logic.Telemetry{DetTarget: logic.TargetArmor, CoverOpen: true}, []logic.WheelStatus{{Name: "lf", Online: false}})
	if tr.Snapshot().Version == v {
		t.Fatal("telemetry change must bump the version")
	}
	v = tr.Snapshot().Version

	flags := testFlags
	flags.Gyro = false
	tr.Update(flags, logic.Telemetry{DetTarget: logic.TargetArmor, CoverOpen: true}, []logic.WheelStatus{{Name: "lf", Online: false}})
	if tr.Snapshot().Version == v {
		t.Error("flag change must bump the version")
	}
}

func TestSetPowerVersion(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.SetPower(false, true)
	v := tr.Snapshot().Version
	tr.SetPower(false, true)
	if tr.Snapshot().Version != v {
		t.Error("unchanged power flags must not bump the version")
	}
	tr.SetPower(true, true)
	if tr.Snapshot().Version == v {
		t.Error("changed power flags must bump the version")
	}
}

func TestSetMQTTDropped(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.SetMQTTDropped(3)
	snap := tr.Snapshot()
	if snap.MQTTDropped != 3 {
		t.Fatalf("MQTTDropped: got %d, want 3", snap.MQTTDropped)
	}
	tr.SetMQTTDropped(3)
	if tr.Snapshot().Version != snap.Version {
		t.Error("unchanged counter must not bump the version")
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.MQTT.Dropped != 3 {
		t.Errorf("mqtt.dropped: got %d, want 3", parsed.Status.MQTT.Dropped)
	}
}

func TestSetError(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	at := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)

	tr.SetError(nil, at)
	if tr.Snapshot().LastError != "" {
		t.Fatal("nil error must be ignored")
	}

	tr.SetError(errors.New("docking align: transform unavailable"), at)
	snap := tr.Snapshot()
	if snap.LastError != "docking align: transform unavailable" || !snap.LastErrorTime.Equal(at) {
		t.Errorf("unexpected error state %q at %v", snap.LastError, snap.LastErrorTime)
	}
}

func TestSetMQTTConnectedVersion(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})

	tr.SetMQTTConnected(true)
	v := tr.Snapshot().Version
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(true)
	if tr.Snapshot().Version != v {
		t.Error("unchanged connection state must not bump the version")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().Version == v {
		t.Error("changed connection state must bump the version")
	}
}

func TestSetPower(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.SetPower(true, false)
	snap := tr.Snapshot()
	if !snap.ChassisPowered || snap.ShooterPowered {
		t.Errorf("unexpected power %v/%v", snap.ChassisPowered, snap.ShooterPowered)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "s", Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Session:        "abc",
		Flags:          testFlags,
		Telemetry:      logic.Telemetry{WheelsOffline: true, DetTarget: logic.TargetArmor},
		Wheels:         []logic.WheelStatus{{Name: "lf", Online: false}},
		ShooterPowered: true,
		Ticks:          42,
		StartTime:      start,
		Now:            start.Add(90 * time.Second),
		MQTTConnected:  true,
		Config:         Config{TickMs: 10, Broker: "tcp://localhost:1883"},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Session != "abc" || s.Ticks != 42 || s.UptimeSeconds != 90 {
		t.Errorf("unexpected header %+v", s)
	}
	if s.Modes.Control != "PC" || !s.Modes.Gyro || s.Modes.PowerLimit != "CHARGE" || s.Modes.DetectionTarget != "SMALL_BUFF" {
		t.Errorf("unexpected modes %+v", s.Modes)
	}
	if !s.Referee.WheelsOffline || s.Referee.DetTarget != "ARMOR" {
		t.Errorf("unexpected referee %+v", s.Referee)
	}
	if len(s.Wheels) != 1 || s.Wheels[0].Name != "lf" || s.Wheels[0].Online {
		t.Errorf("unexpected wheels %+v", s.Wheels)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("unexpected mqtt %+v", s.MQTT)
	}
	if s.LastError != nil {
		t.Error("last_error should be omitted")
	}
	if s.StartTime != "2026-01-01T00:00:00Z" || s.Timestamp != "2026-01-01T00:01:30Z" {
		t.Errorf("unexpected times %s %s", s.StartTime, s.Timestamp)
	}
}

func TestFormatJSONUnknownModes(t *testing.T) {
	var parsed StatusJSON
	json.Unmarshal(FormatJSON(Snapshot{}), &parsed)

	if parsed.Status.Modes.Control != "UNKNOWN" || parsed.Status.Modes.SpeedMode != "UNKNOWN" {
		t.Errorf("expected UNKNOWN before the first tick, got %+v", parsed.Status.Modes)
	}
	if parsed.Status.Wheels == nil {
		t.Error("wheels should be an empty list, not null")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		Session:       "abc",
		LastError:     "send chassis: mqtt: not connected",
		LastErrorTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected event %q/%q", parsed.Status.Event, parsed.Status.Reason)
	}
	if parsed.Status.LastError == nil || parsed.Status.LastError.Message != "send chassis: mqtt: not connected" {
		t.Errorf("unexpected last error %+v", parsed.Status.LastError)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	data := FormatStatusEvent(Snapshot{}, "STARTUP", "")

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["status"]["reason"]; exists {
		t.Error("reason should be omitted for startup events")
	}
}

func TestFormatCompactIsSingleLine(t *testing.T) {
	data := FormatCompact(Snapshot{Session: "abc"})
	for _, b := range data {
		if b == '\n' {
			t.Fatal("compact output must be a single line")
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		wheels := []logic.WheelStatus{{Name: "lf", Online: true}}
		for i := 0; i < 1000; i++ {
			tr.Update(testFlags, logic.Telemetry{}, wheels)
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetError(errors.New("x"), time.Now())
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatCompact(snap)
		}
	}()

	wg.Wait()
}
