package logic

import "time"

// WheelGracePeriod is how long after chassis power-on the module online
// flags are authoritative.
const WheelGracePeriod = 3 * time.Second

// WheelWatchdog latches an offline fault when a drive module fails to report
// online within the grace period after chassis power-on.
type WheelWatchdog struct {
	names       []string
	index       map[string]int
	online      []bool
	offline     bool
	lastPowerOn time.Time
}

// NewWheelWatchdog creates a watchdog for the configured motor names. The
// table length is fixed here; every module starts online. An empty list
// yields a watchdog that never latches.
func NewWheelWatchdog(motors []string) *WheelWatchdog {
	w := &WheelWatchdog{
		names:  append([]string(nil), motors...),
		index:  make(map[string]int, len(motors)),
		online: make([]bool, len(motors)),
	}
	for i, name := range motors {
		w.index[name] = i
		w.online[i] = true
	}
	return w
}

// OnPowerTransition restarts the grace window when chassis output rises.
func (w *WheelWatchdog) OnPowerTransition(previous, current bool, now time.Time) {
	if !previous && current {
		w.lastPowerOn = now
	}
}

// OnTelemetry overwrites the online flag of every configured module present
// in readings. Unknown names are ignored.
func (w *WheelWatchdog) OnTelemetry(readings []ModuleReading) {
	for _, r := range readings {
		i, ok := w.index[r.Name]
		if !ok {
			continue
		}
		w.online[i] = r.Online
	}
}

// Evaluate updates and returns the offline latch. Outside the grace window
// every module is treated as online.
func (w *WheelWatchdog) Evaluate(now time.Time) bool {
	allOnline := true
	if now.Sub(w.lastPowerOn) < WheelGracePeriod {
		for _, on := range w.online {
			if !on {
				allOnline = false
			}
		}
	}
	if !allOnline {
		w.offline = true
	} else if w.offline {
		w.offline = false
	}
	return w.offline
}

// Offline returns the current latch without re-evaluating.
func (w *WheelWatchdog) Offline() bool {
	return w.offline
}

// LastPowerOn returns the start of the current grace window.
func (w *WheelWatchdog) LastPowerOn() time.Time {
	return w.lastPowerOn
}

// Table returns a copy of the online table in configured order.
func (w *WheelWatchdog) Table() []WheelStatus {
	out := make([]WheelStatus, len(w.names))
	for i, name := range w.names {
		out[i] = WheelStatus{Name: name, Online: w.online[i]}
	}
	return out
}
