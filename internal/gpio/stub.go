//go:build !linux

package gpio

import "fmt"

// RealReader has no backing line outside Linux; the constructor always
// fails so the controller falls back to referee power status.
type RealReader struct{}

// NewRealReader fails with ErrUnsupported.
func NewRealReader(chipName string, pin int, activeLow bool) (*RealReader, error) {
	return nil, fmt.Errorf("power pin %d on %s: %w", pin, chipName, ErrUnsupported)
}

func (r *RealReader) Read() (bool, error) { return false, ErrUnsupported }

func (r *RealReader) Close() error { return nil }
