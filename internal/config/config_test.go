package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/cover-manual/internal/gpio"
	"github.com/sweeney/cover-manual/internal/logic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover-manual.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultMatchesLogicDefaults(t *testing.T) {
	got := Default().Logic()
	want := logic.DefaultConfig()

	if got.SupplyFrame != want.SupplyFrame || got.WirelessFrame != want.WirelessFrame {
		t.Errorf("frames: got %s/%s", got.SupplyFrame, got.WirelessFrame)
	}
	if got.NormalSpeedScale != want.NormalSpeedScale || got.LowSpeedScale != want.LowSpeedScale {
		t.Errorf("speed scales: got %v/%v", got.NormalSpeedScale, got.LowSpeedScale)
	}
	if got.GyroRotateReduction != want.GyroRotateReduction || got.GyroSpeedLimit != want.GyroSpeedLimit {
		t.Errorf("gyro: got %v/%v", got.GyroRotateReduction, got.GyroSpeedLimit)
	}
	if got.GyroScale != want.GyroScale {
		t.Errorf("gyro scale: got %+v, want %+v", got.GyroScale, want.GyroScale)
	}
	if got.ExitBuffModeDuration != want.ExitBuffModeDuration {
		t.Errorf("exit duration: got %s, want %s", got.ExitBuffModeDuration, want.ExitBuffModeDuration)
	}
	if got.AlignTolerance != want.AlignTolerance || got.CoverTolerance != want.CoverTolerance {
		t.Errorf("tolerances: got %v/%v", got.AlignTolerance, got.CoverTolerance)
	}
	if len(got.ChassisMotors) != 0 {
		t.Errorf("expected no motors, got %v", got.ChassisMotors)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if !Default().MissingMotors() {
		t.Error("defaults have no motors")
	}
	if g := Default().GPIO; g.Chip != gpio.DefaultChip || g.PowerPin >= 0 {
		t.Errorf("expected %s with the power line disabled, got %+v", gpio.DefaultChip, g)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv(EnvBroker, "")
	t.Setenv(EnvHTTP, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("unexpected broker %s", cfg.MQTT.Broker)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvBroker, "")
	t.Setenv(EnvHTTP, "")
	path := writeConfig(t, `
chassis_motor: [left_front_wheel, right_front_wheel, left_back_wheel, right_back_wheel]
supply_frame: supply
exit_buff_mode_duration: 0.75
gyro_speed_limit: 4.5
chassis:
  low_speed_scale: 0.2
vel:
  sin_gyro_amplitude: 0.3
  sin_gyro_period: 2.0
cover:
  on_pos: 1.57
  off_pos: -0.1
mqtt:
  broker: tcp://10.0.0.2:1883
tick: 5ms
transform_max_age: 1s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ChassisMotors) != 4 || cfg.ChassisMotors[3] != "right_back_wheel" {
		t.Errorf("unexpected motors %v", cfg.ChassisMotors)
	}
	if cfg.MissingMotors() {
		t.Error("motors are configured")
	}
	if cfg.Tick != 5*time.Millisecond || cfg.TransformMaxAge != time.Second {
		t.Errorf("unexpected durations %s/%s", cfg.Tick, cfg.TransformMaxAge)
	}
	if cfg.Cover.OnPos != 1.57 || cfg.Cover.OffPos != -0.1 {
		t.Errorf("unexpected cover %+v", cfg.Cover)
	}
	// Unset keys keep their defaults.
	if cfg.WirelessFrame != "wireless_frame" || cfg.Chassis.NormalSpeedScale != 1.0 {
		t.Errorf("defaults lost: %s %v", cfg.WirelessFrame, cfg.Chassis.NormalSpeedScale)
	}

	lc := cfg.Logic()
	if lc.SupplyFrame != "supply" || lc.LowSpeedScale != 0.2 || lc.GyroSpeedLimit != 4.5 {
		t.Errorf("unexpected logic config %+v", lc)
	}
	if lc.ExitBuffModeDuration != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %s", lc.ExitBuffModeDuration)
	}
	if lc.GyroScale.Amplitude != 0.3 || lc.GyroScale.Period != 2.0 {
		t.Errorf("unexpected gyro scale %+v", lc.GyroScale)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvBroker, "tcp://broker.local:1883")
	t.Setenv(EnvHTTP, ":9090")
	path := writeConfig(t, "mqtt:\n  broker: tcp://file:1883\nhttp: \":7070\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("env should win over file, got %s", cfg.MQTT.Broker)
	}
	if cfg.HTTP != ":9090" {
		t.Errorf("env should win over file, got %s", cfg.HTTP)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvBroker, "")
	t.Setenv(EnvHTTP, "")
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "chasis_motor: [a]\n", "chasis_motor"},
		{"zero tick", "tick: 0s\n", "tick must be positive"},
		{"same cover positions", "cover:\n  on_pos: 0.5\n  off_pos: 0.5\n", "must differ"},
		{"zero period", "vel:\n  sin_gyro_period: 0\n", "sin_gyro_period"},
		{"negative period", "vel:\n  sin_gyro_period: -1.5\n", "sin_gyro_period"},
		{"missing detector", "detectors:\n  buff: \"\"\n", "detector names"},
		{"bad yaml", "tick: [\n", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Tick = 0
	cfg.MQTT.Broker = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"tick", "mqtt.broker"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Setenv(EnvBroker, "")
	t.Setenv(EnvHTTP, "")
	cfg := Default()
	cfg.ChassisMotors = []string{"lf", "rf"}
	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("printed config should load: %v\n%s", err, data)
	}
	if len(loaded.ChassisMotors) != 2 || loaded.Tick != cfg.Tick || loaded.Heartbeat != cfg.Heartbeat {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
