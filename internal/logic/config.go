package logic

import "time"

// Config holds the load-time parameters of the controller.
type Config struct {
	ChassisMotors []string

	SupplyFrame   string
	WirelessFrame string

	NormalSpeedScale    float64
	LowSpeedScale       float64
	GyroRotateReduction float64
	GyroSpeedLimit      float64
	GyroScale           ScaleParams

	ExitBuffModeDuration time.Duration

	GimbalScale float64

	// AlignTolerance bounds |yaw| of the supply frame before the cover opens.
	AlignTolerance float64
	// CoverTolerance bounds the cover pitch discrepancy before it counts as closed.
	CoverTolerance float64
}

// DefaultConfig returns the controller defaults. ChassisMotors is empty.
func DefaultConfig() Config {
	return Config{
		SupplyFrame:          "supply_frame",
		WirelessFrame:        "wireless_frame",
		NormalSpeedScale:     1.0,
		LowSpeedScale:        0.30,
		GyroRotateReduction:  0.5,
		GyroSpeedLimit:       6.0,
		GyroScale:            ScaleParams{Base: 1.0, Amplitude: 0.0, Period: 1.0, Phase: 0.0},
		ExitBuffModeDuration: 500 * time.Millisecond,
		GimbalScale:          1.0,
		AlignTolerance:       0.05,
		CoverTolerance:       0.05,
	}
}
