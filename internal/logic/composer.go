package logic

import (
	"errors"
	"fmt"
	"time"
)

// Composer issues the composed command once per tick.
type Composer struct {
	docking  *Docking
	watchdog *WheelWatchdog
}

// NewComposer creates a composer over the given docking sequencer and watchdog.
func NewComposer(docking *Docking, watchdog *WheelWatchdog) *Composer {
	return &Composer{docking: docking, watchdog: watchdog}
}

// Compose runs docking, evaluates the watchdog, builds the referee snippet
// and sends every command surface. Errors are transient: a transform failure
// or a failed send never stops the remaining work.
func (c *Composer) Compose(s *State, sf Surfaces, now time.Time) (Telemetry, error) {
	var errs []error
	if err := c.docking.Run(s, sf); err != nil {
		errs = append(errs, err)
	}

	tel := Telemetry{
		CoverOpen:     sf.Cover.State(),
		DetTarget:     sf.Detection.Target(),
		WheelsOffline: c.watchdog.Evaluate(now),
	}
	if tel.DetTarget != TargetArmor {
		tel.DetTarget = sf.BuffType.Target()
	}

	senders := []struct {
		name string
		send func(time.Time) error
	}{
		{"chassis", sf.Chassis.SendCommand},
		{"gimbal", sf.Gimbal.SendCommand},
		{"shooter", sf.Shooter.SendCommand},
		{"cover", sf.Cover.SendCommand},
	}
	for _, snd := range senders {
		if err := snd.send(now); err != nil {
			errs = append(errs, fmt.Errorf("send %s: %w", snd.name, err))
		}
	}

	return tel, errors.Join(errs...)
}
