package logic

// Edge selects which level changes of a signal invoke handlers.
type Edge int

const (
	// EdgeRising invokes OnPress on 0->1.
	EdgeRising Edge = iota
	// EdgeFalling invokes OnRelease on 1->0.
	EdgeFalling
	// EdgeBoth invokes OnPress on 0->1 and OnRelease on 1->0.
	EdgeBoth
	// EdgeActiveHigh invokes OnPress on every update while the level is 1,
	// and OnRelease (if set) on 1->0.
	EdgeActiveHigh
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	case EdgeActiveHigh:
		return "active-high"
	default:
		return "unknown"
	}
}

// ButtonEvent turns a raw level into edge callbacks. The only state it keeps
// is the last observed level.
type ButtonEvent struct {
	Edge      Edge
	OnPress   func()
	OnRelease func()

	last bool
}

// Rising returns an event that calls press on every 0->1 transition.
func Rising(press func()) *ButtonEvent {
	return &ButtonEvent{Edge: EdgeRising, OnPress: press}
}

// Falling returns an event that calls release on every 1->0 transition.
func Falling(release func()) *ButtonEvent {
	return &ButtonEvent{Edge: EdgeFalling, OnRelease: release}
}

// Both returns an event with separate press and release handlers.
func Both(press, release func()) *ButtonEvent {
	return &ButtonEvent{Edge: EdgeBoth, OnPress: press, OnRelease: release}
}

// ActiveHigh returns an event that calls pressing on every update while the
// level is high. release may be nil.
func ActiveHigh(pressing, release func()) *ButtonEvent {
	return &ButtonEvent{Edge: EdgeActiveHigh, OnPress: pressing, OnRelease: release}
}

// Update feeds one level sample.
func (e *ButtonEvent) Update(level bool) {
	rose := level && !e.last
	fell := !level && e.last
	e.last = level

	switch e.Edge {
	case EdgeRising:
		if rose {
			call(e.OnPress)
		}
	case EdgeFalling:
		if fell {
			call(e.OnRelease)
		}
	case EdgeBoth:
		if rose {
			call(e.OnPress)
		} else if fell {
			call(e.OnRelease)
		}
	case EdgeActiveHigh:
		if level {
			call(e.OnPress)
		} else if fell {
			call(e.OnRelease)
		}
	}
}

// Level returns the last observed level.
func (e *ButtonEvent) Level() bool {
	return e.last
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Signal extracts one boolean level from an input sample.
type Signal func(in Input) bool

type binding struct {
	name   string
	signal Signal
	event  *ButtonEvent
}

// Dispatcher evaluates a set of bound events against each input sample.
// Bindings are independent of each other; several events may share a signal.
type Dispatcher struct {
	bindings []binding
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind registers event to be fed by signal on every Update.
func (d *Dispatcher) Bind(name string, signal Signal, event *ButtonEvent) {
	d.bindings = append(d.bindings, binding{name: name, signal: signal, event: event})
}

// Update feeds the sample to every bound event in registration order.
func (d *Dispatcher) Update(in Input) {
	for _, b := range d.bindings {
		b.event.Update(b.signal(in))
	}
}

// Names returns the bound signal names in registration order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.bindings))
	for _, b := range d.bindings {
		names = append(names, b.name)
	}
	return names
}
