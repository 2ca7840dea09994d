// Package gpio reads the chassis power-sense line with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "errors"

// ErrUnsupported is returned by RealReader on platforms without the GPIO
// character device.
var ErrUnsupported = errors.New("gpio: character device requires linux")

// Reader reads the chassis power-sense line.
type Reader interface {
	// Read returns true while the chassis power rail is live.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device carrying the power-sense line.
const DefaultChip = "gpiochip0"

// Debounced reports a level change only after it has been read the given
// number of consecutive times. It wraps any Reader.
type Debounced struct {
	r       Reader
	samples int

	stable    bool
	candidate bool
	count     int
	primed    bool
}

// NewDebounced wraps r. samples below 1 are treated as 1.
func NewDebounced(r Reader, samples int) *Debounced {
	if samples < 1 {
		samples = 1
	}
	return &Debounced{r: r, samples: samples}
}

// Read returns the debounced level. The first successful read is taken
// as-is. A read error leaves the debounce state untouched.
func (d *Debounced) Read() (bool, error) {
	level, err := d.r.Read()
	if err != nil {
		return d.stable, err
	}
	if !d.primed {
		d.primed = true
		d.stable, d.candidate = level, level
		return d.stable, nil
	}

	if level == d.stable {
		d.candidate, d.count = level, 0
		return d.stable, nil
	}
	if level != d.candidate {
		d.candidate, d.count = level, 0
	}
	d.count++
	if d.count >= d.samples {
		d.stable, d.count = level, 0
	}
	return d.stable, nil
}

// Close closes the wrapped reader.
func (d *Debounced) Close() error {
	return d.r.Close()
}
