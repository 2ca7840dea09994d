// Package tf keeps the latest rotation reported for each frame pair and
// answers lookups for the decision core.
package tf

import (
	"fmt"
	"time"

	"github.com/sweeney/cover-manual/internal/logic"
)

type pair struct {
	target string
	source string
}

type entry struct {
	rotation logic.Quaternion
	stamp    time.Time
}

// Buffer implements logic.Transformer over the most recent sample per pair.
// A reversed pair is answered with the conjugate rotation.
// Not safe for concurrent use; the control loop owns it.
type Buffer struct {
	maxAge  time.Duration
	now     func() time.Time
	entries map[pair]entry
}

var _ logic.Transformer = (*Buffer)(nil)

// NewBuffer creates an empty buffer. Samples older than maxAge are reported
// stale; a zero maxAge disables the check.
func NewBuffer(maxAge time.Duration, now func() time.Time) *Buffer {
	return &Buffer{
		maxAge:  maxAge,
		now:     now,
		entries: make(map[pair]entry),
	}
}

// Set records the rotation of source relative to target at stamp.
func (b *Buffer) Set(target, source string, q logic.Quaternion, stamp time.Time) {
	b.entries[pair{target, source}] = entry{rotation: q, stamp: stamp}
}

// Len returns the number of stored pairs.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Lookup returns the rotation of source relative to target.
func (b *Buffer) Lookup(target, source string) (logic.Quaternion, error) {
	if target == source {
		return logic.Quaternion{W: 1}, nil
	}

	e, ok := b.entries[pair{target, source}]
	if !ok {
		inv, found := b.entries[pair{source, target}]
		if !found {
			return logic.Quaternion{}, fmt.Errorf("%s -> %s: not found: %w", target, source, logic.ErrTransformUnavailable)
		}
		e = inv
		e.rotation = conjugate(inv.rotation)
	}

	if b.maxAge > 0 {
		if age := b.now().Sub(e.stamp); age > b.maxAge {
			return logic.Quaternion{}, fmt.Errorf("%s -> %s: stale by %s: %w", target, source, age-b.maxAge, logic.ErrTransformUnavailable)
		}
	}
	return e.rotation, nil
}

func conjugate(q logic.Quaternion) logic.Quaternion {
	return logic.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}
