package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Session       string      `json:"session"`
	Modes         ModesJSON   `json:"modes"`
	Referee       RefereeJSON `json:"referee"`
	Wheels        []WheelJSON `json:"wheels"`
	Power         PowerJSON   `json:"power"`
	Ticks         uint64      `json:"ticks"`
	LastError     *ErrorJSON  `json:"last_error,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Config        ConfigJSON  `json:"config"`
}

// ModesJSON is the JSON representation of the mode flags.
type ModesJSON struct {
	Control         string `json:"control"`
	Gyro            bool   `json:"gyro"`
	SupplyRequested bool   `json:"supply_requested"`
	WirelessFollow  bool   `json:"wireless_follow"`
	CoverClosed     bool   `json:"cover_closed"`
	SpeedMode       string `json:"speed_mode"`
	DetectionTarget string `json:"detection_target"`
	PowerLimit      string `json:"power_limit"`
}

// RefereeJSON mirrors the last referee snippet.
type RefereeJSON struct {
	CoverOpen     bool   `json:"cover_open"`
	DetTarget     string `json:"det_target"`
	WheelsOffline bool   `json:"wheels_offline"`
}

// WheelJSON is one row of the wheel table.
type WheelJSON struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// PowerJSON reports the referee power-output flags.
type PowerJSON struct {
	Chassis bool `json:"chassis"`
	Shooter bool `json:"shooter"`
}

// ErrorJSON reports the latest control-loop error.
type ErrorJSON struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	Dropped   uint64 `json:"dropped"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	HTTPAddr    string `json:"http_addr"`
	PowerPin    int    `json:"power_pin"`
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap Snapshot) StatusInner {
	f := snap.Flags
	inner := StatusInner{
		Session: snap.Session,
		Modes: ModesJSON{
			Control:         orUnknown(string(f.Control)),
			Gyro:            f.Gyro,
			SupplyRequested: f.SupplyRequested,
			WirelessFollow:  f.WirelessFollowRequested,
			CoverClosed:     f.CoverClosed,
			SpeedMode:       orUnknown(string(f.SpeedMode)),
			DetectionTarget: orUnknown(string(f.DetectionTarget)),
			PowerLimit:      orUnknown(string(f.PowerLimit)),
		},
		Referee: RefereeJSON{
			CoverOpen:     snap.Telemetry.CoverOpen,
			DetTarget:     orUnknown(string(snap.Telemetry.DetTarget)),
			WheelsOffline: snap.Telemetry.WheelsOffline,
		},
		Wheels:        make([]WheelJSON, 0, len(snap.Wheels)),
		Power:         PowerJSON{Chassis: snap.ChassisPowered, Shooter: snap.ShooterPowered},
		Ticks:         snap.Ticks,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker, Dropped: snap.MQTTDropped},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			ClientID:    snap.Config.ClientID,
			HTTPAddr:    snap.Config.HTTPAddr,
			PowerPin:    snap.Config.PowerPin,
		},
	}
	for _, w := range snap.Wheels {
		inner.Wheels = append(inner.Wheels, WheelJSON{Name: w.Name, Online: w.Online})
	}
	if snap.LastError != "" {
		inner.LastError = &ErrorJSON{
			Message:   snap.LastError,
			Timestamp: snap.LastErrorTime.UTC().Format(time.RFC3339Nano),
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatCompact returns the JSON status on a single line, for the live feed.
func FormatCompact(snap Snapshot) []byte {
	data, _ := json.Marshal(StatusJSON{Status: buildInner(snap)})
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
