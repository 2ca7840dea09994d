package logic

import (
	"math"
	"time"
)

// ScaleParams describes a sinusoid used to modulate the gyro spin rate.
// Period must be > 0.
type ScaleParams struct {
	Base      float64
	Amplitude float64
	Period    float64
	Phase     float64
}

// DynamicScale returns base + amplitude*sin(2*pi*t/period + phase) clamped
// to [0, 1]. t is wall-clock seconds, so repeated calls do not drift.
func DynamicScale(base, amplitude, period, phase, t float64) float64 {
	f := 2 * math.Pi / period
	s := base + amplitude*math.Sin(f*t+phase)
	if s < 0.0 {
		return 0.0
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}

// At evaluates the sinusoid at wall-clock time now.
func (p ScaleParams) At(now time.Time) float64 {
	return DynamicScale(p.Base, p.Amplitude, p.Period, p.Phase, seconds(now))
}

func seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
