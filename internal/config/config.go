// Package config loads the controller configuration from defaults, an
// optional YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sweeney/cover-manual/internal/gpio"
	"github.com/sweeney/cover-manual/internal/logic"
	"gopkg.in/yaml.v2"
)

// Environment overrides.
const (
	EnvBroker = "COVER_MANUAL_BROKER"
	EnvHTTP   = "COVER_MANUAL_HTTP"
)

// Config represents the complete controller configuration.
type Config struct {
	ChassisMotors        []string `yaml:"chassis_motor"`
	SupplyFrame          string   `yaml:"supply_frame"`
	WirelessFrame        string   `yaml:"wireless_frame"`
	ExitBuffModeDuration float64  `yaml:"exit_buff_mode_duration"` // seconds
	GyroSpeedLimit       float64  `yaml:"gyro_speed_limit"`

	Chassis   ChassisConfig   `yaml:"chassis"`
	Vel       VelConfig       `yaml:"vel"`
	Cover     CoverConfig     `yaml:"cover"`
	Gimbal    GimbalConfig    `yaml:"gimbal"`
	Docking   DockingConfig   `yaml:"docking"`
	Detectors DetectorsConfig `yaml:"detectors"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	GPIO      GPIOConfig      `yaml:"gpio"`

	HTTP            string        `yaml:"http"`
	Tick            time.Duration `yaml:"tick"`
	Heartbeat       time.Duration `yaml:"heartbeat"`
	TransformMaxAge time.Duration `yaml:"transform_max_age"`
}

// ChassisConfig holds translational speed settings.
type ChassisConfig struct {
	NormalSpeedScale    float64 `yaml:"normal_speed_scale"`
	LowSpeedScale       float64 `yaml:"low_speed_scale"`
	GyroRotateReduction float64 `yaml:"gyro_rotate_reduction"`
}

// VelConfig holds the sinusoidal gyro spin parameters.
type VelConfig struct {
	SinGyroBaseScale float64 `yaml:"sin_gyro_base_scale"`
	SinGyroAmplitude float64 `yaml:"sin_gyro_amplitude"`
	SinGyroPeriod    float64 `yaml:"sin_gyro_period"`
	SinGyroPhase     float64 `yaml:"sin_gyro_phase"`
}

// CoverConfig holds the commanded cover joint positions.
type CoverConfig struct {
	OnPos  float64 `yaml:"on_pos"`
	OffPos float64 `yaml:"off_pos"`
}

// GimbalConfig holds the gimbal rate scale.
type GimbalConfig struct {
	Scale float64 `yaml:"scale"`
}

// DockingConfig holds the docking tolerances (radians).
type DockingConfig struct {
	AlignTolerance float64 `yaml:"align_tolerance"`
	CoverTolerance float64 `yaml:"cover_tolerance"`
}

// DetectorsConfig names the four detection surfaces.
type DetectorsConfig struct {
	Armor    string `yaml:"armor"`
	Buff     string `yaml:"buff"`
	BuffType string `yaml:"buff_type"`
	Exposure string `yaml:"exposure"`
}

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	Broker    string `yaml:"broker"`
	ClientID  string `yaml:"client_id"`
	QueueSize int    `yaml:"queue_size"`
}

// GPIOConfig holds the chassis power-sense line settings. PowerPin -1
// disables the line; power status then comes from the referee only.
type GPIOConfig struct {
	Chip      string `yaml:"chip"`
	PowerPin  int    `yaml:"power_pin"`
	ActiveLow bool   `yaml:"active_low"`
	Debounce  int    `yaml:"debounce"`
}

// Default returns the default configuration. ChassisMotors has no default.
func Default() *Config {
	return &Config{
		SupplyFrame:          "supply_frame",
		WirelessFrame:        "wireless_frame",
		ExitBuffModeDuration: 0.5,
		GyroSpeedLimit:       6.0,
		Chassis: ChassisConfig{
			NormalSpeedScale:    1.0,
			LowSpeedScale:       0.30,
			GyroRotateReduction: 0.5,
		},
		Vel: VelConfig{
			SinGyroBaseScale: 1.0,
			SinGyroAmplitude: 0.0,
			SinGyroPeriod:    1.0,
			SinGyroPhase:     0.0,
		},
		Cover:  CoverConfig{OnPos: 1.0, OffPos: 0.0},
		Gimbal: GimbalConfig{Scale: 1.0},
		Docking: DockingConfig{
			AlignTolerance: 0.05,
			CoverTolerance: 0.05,
		},
		Detectors: DetectorsConfig{
			Armor:    "armor",
			Buff:     "buff",
			BuffType: "buff_type",
			Exposure: "exposure",
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			ClientID:  "cover-manual",
			QueueSize: 32,
		},
		GPIO: GPIOConfig{
			Chip:     gpio.DefaultChip,
			PowerPin: -1,
			Debounce: 3,
		},
		HTTP:            ":8080",
		Tick:            10 * time.Millisecond,
		Heartbeat:       15 * time.Minute,
		TransformMaxAge: 500 * time.Millisecond,
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if broker := os.Getenv(EnvBroker); broker != "" {
		cfg.MQTT.Broker = broker
	}
	if addr := os.Getenv(EnvHTTP); addr != "" {
		cfg.HTTP = addr
	}
}

// Validate checks the configuration for values the controller cannot run
// with. A missing chassis_motor list is not an error; see MissingMotors.
func (c *Config) Validate() error {
	var errs []error
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %s", c.Heartbeat))
	}
	if c.TransformMaxAge < 0 {
		errs = append(errs, fmt.Errorf("transform_max_age must not be negative, got %s", c.TransformMaxAge))
	}
	if c.ExitBuffModeDuration < 0 {
		errs = append(errs, fmt.Errorf("exit_buff_mode_duration must not be negative, got %v", c.ExitBuffModeDuration))
	}
	if c.GyroSpeedLimit < 0 {
		errs = append(errs, fmt.Errorf("gyro_speed_limit must not be negative, got %v", c.GyroSpeedLimit))
	}
	if c.Vel.SinGyroPeriod <= 0 {
		errs = append(errs, fmt.Errorf("vel.sin_gyro_period must be positive, got %v", c.Vel.SinGyroPeriod))
	}
	if c.Cover.OnPos == c.Cover.OffPos {
		errs = append(errs, fmt.Errorf("cover.on_pos and cover.off_pos must differ, both %v", c.Cover.OnPos))
	}
	if c.SupplyFrame == "" || c.WirelessFrame == "" {
		errs = append(errs, errors.New("supply_frame and wireless_frame are required"))
	}
	if c.MQTT.Broker == "" {
		errs = append(errs, errors.New("mqtt.broker is required"))
	}
	d := c.Detectors
	if d.Armor == "" || d.Buff == "" || d.BuffType == "" || d.Exposure == "" {
		errs = append(errs, errors.New("all four detector names are required"))
	}
	return errors.Join(errs...)
}

// MissingMotors reports whether no chassis motors are configured. The wheel
// watchdog then has an empty table and never latches.
func (c *Config) MissingMotors() bool {
	return len(c.ChassisMotors) == 0
}

// Logic converts the configuration into the decision core's parameters.
func (c *Config) Logic() logic.Config {
	return logic.Config{
		ChassisMotors:       append([]string(nil), c.ChassisMotors...),
		SupplyFrame:         c.SupplyFrame,
		WirelessFrame:       c.WirelessFrame,
		NormalSpeedScale:    c.Chassis.NormalSpeedScale,
		LowSpeedScale:       c.Chassis.LowSpeedScale,
		GyroRotateReduction: c.Chassis.GyroRotateReduction,
		GyroSpeedLimit:      c.GyroSpeedLimit,
		GyroScale: logic.ScaleParams{
			Base:      c.Vel.SinGyroBaseScale,
			Amplitude: c.Vel.SinGyroAmplitude,
			Period:    c.Vel.SinGyroPeriod,
			Phase:     c.Vel.SinGyroPhase,
		},
		ExitBuffModeDuration: time.Duration(c.ExitBuffModeDuration * float64(time.Second)),
		GimbalScale:          c.Gimbal.Scale,
		AlignTolerance:       c.Docking.AlignTolerance,
		CoverTolerance:       c.Docking.CoverTolerance,
	}
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
