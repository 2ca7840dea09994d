package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

// DbusPayload is one operator input sample from the remote receiver.
type DbusPayload struct {
	RightSwitch string `json:"right_switch"`
	Keys        struct {
		W    bool `json:"w"`
		A    bool `json:"a"`
		S    bool `json:"s"`
		D    bool `json:"d"`
		Q    bool `json:"q"`
		E    bool `json:"e"`
		R    bool `json:"r"`
		Z    bool `json:"z"`
		X    bool `json:"x"`
		C    bool `json:"c"`
		B    bool `json:"b"`
		F    bool `json:"f"`
		G    bool `json:"g"`
		Ctrl bool `json:"ctrl"`
	} `json:"keys"`
	Mouse struct {
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
		Left bool    `json:"left"`
	} `json:"mouse"`
	Stick struct {
		LX float64 `json:"lx"`
		LY float64 `json:"ly"`
		RX float64 `json:"rx"`
		RY float64 `json:"ry"`
	} `json:"stick"`
}

// ParseDbus decodes an operator input sample received at now.
func ParseDbus(payload []byte, now time.Time) (logic.Input, error) {
	var p DbusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return logic.Input{}, fmt.Errorf("decode dbus: %w", err)
	}

	sw := logic.SwitchPosition(p.RightSwitch)
	switch sw {
	case logic.SwitchUp, logic.SwitchMid, logic.SwitchDown:
	default:
		return logic.Input{}, fmt.Errorf("decode dbus: invalid right_switch %q", p.RightSwitch)
	}

	k := p.Keys
	return logic.Input{
		Time:        now,
		RightSwitch: sw,
		Keys: logic.Keys{
			W: k.W, A: k.A, S: k.S, D: k.D,
			Q: k.Q, E: k.E, R: k.R,
			Z: k.Z, X: k.X, C: k.C,
			B: k.B, F: k.F, G: k.G,
			Ctrl: k.Ctrl,
		},
		Mouse: logic.Mouse{X: p.Mouse.X, Y: p.Mouse.Y, Left: p.Mouse.Left},
		Stick: logic.Stick{LX: p.Stick.LX, LY: p.Stick.LY, RX: p.Stick.RX, RY: p.Stick.RY},
	}, nil
}

// RobotStatus is the subset of the referee robot status used by the controller.
type RobotStatus struct {
	ChassisOutput bool `json:"chassis_output"`
	ShooterOutput bool `json:"shooter_output"`
}

// ParseRobotStatus decodes a referee robot status message.
func ParseRobotStatus(payload []byte) (RobotStatus, error) {
	var s RobotStatus
	if err := json.Unmarshal(payload, &s); err != nil {
		return RobotStatus{}, fmt.Errorf("decode robot status: %w", err)
	}
	return s, nil
}

type wheelReadingsPayload struct {
	Modules []struct {
		Name   string `json:"name"`
		Online bool   `json:"online"`
	} `json:"modules"`
}

// ParseWheelReadings decodes drive-module online flags.
func ParseWheelReadings(payload []byte) ([]logic.ModuleReading, error) {
	var p wheelReadingsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode wheel readings: %w", err)
	}
	readings := make([]logic.ModuleReading, 0, len(p.Modules))
	for _, m := range p.Modules {
		if m.Name == "" {
			continue
		}
		readings = append(readings, logic.ModuleReading{Name: m.Name, Online: m.Online})
	}
	return readings, nil
}

// TransformSample is one rotation of source relative to target.
type TransformSample struct {
	Target   string
	Source   string
	Rotation logic.Quaternion
	Stamp    time.Time
}

type transformPayload struct {
	Target    string `json:"target"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Rotation  struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
		W float64 `json:"w"`
	} `json:"rotation"`
}

// ParseTransform decodes a transform sample. Samples without a timestamp
// are stamped with the receive time.
func ParseTransform(payload []byte, now time.Time) (TransformSample, error) {
	var p transformPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return TransformSample{}, fmt.Errorf("decode transform: %w", err)
	}
	if p.Target == "" || p.Source == "" {
		return TransformSample{}, fmt.Errorf("decode transform: missing frame (target=%q source=%q)", p.Target, p.Source)
	}
	r := p.Rotation
	if r.X == 0 && r.Y == 0 && r.Z == 0 && r.W == 0 {
		return TransformSample{}, fmt.Errorf("decode transform: zero rotation for %s -> %s", p.Target, p.Source)
	}

	stamp := now
	if p.Timestamp != "" {
		t, err := time.Parse(time.RFC3339Nano, p.Timestamp)
		if err != nil {
			return TransformSample{}, fmt.Errorf("decode transform timestamp: %w", err)
		}
		stamp = t
	}
	return TransformSample{
		Target:   p.Target,
		Source:   p.Source,
		Rotation: logic.Quaternion{X: r.X, Y: r.Y, Z: r.Z, W: r.W},
		Stamp:    stamp,
	}, nil
}

// ParseTrack decodes the tracker output. An id of 0 means no target.
func ParseTrack(payload []byte) (int, error) {
	var p struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return 0, fmt.Errorf("decode track: %w", err)
	}
	if p.ID < 0 {
		return 0, fmt.Errorf("decode track: negative id %d", p.ID)
	}
	return p.ID, nil
}

// RefereePayload is the outgoing referee snippet.
type RefereePayload struct {
	Timestamp     string `json:"timestamp"`
	CoverOpen     bool   `json:"cover_open"`
	DetTarget     string `json:"det_target"`
	WheelsOffline bool   `json:"wheels_offline"`
}

// FormatReferee creates the JSON referee snippet for one tick.
func FormatReferee(tel logic.Telemetry, now time.Time) ([]byte, error) {
	return json.Marshal(RefereePayload{
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		CoverOpen:     tel.CoverOpen,
		DetTarget:     string(tel.DetTarget),
		WheelsOffline: tel.WheelsOffline,
	})
}
