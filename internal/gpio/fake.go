package gpio

import "errors"

// ErrNoLevels is returned by a FakeReader with an empty script.
var ErrNoLevels = errors.New("gpio: fake has no scripted levels")

// FakeReader replays scripted power levels. Once the script is exhausted
// the final level repeats, like a line that has settled.
type FakeReader struct {
	Levels    []bool
	ReadError error // returned by every Read while set
	Reads     int   // successful and failed reads
	Closed    bool

	pos int
}

// NewFakeReader scripts the given levels.
func NewFakeReader(levels ...bool) *FakeReader {
	return &FakeReader{Levels: levels}
}

func (f *FakeReader) Read() (bool, error) {
	f.Reads++
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Levels) == 0 {
		return false, ErrNoLevels
	}
	level := f.Levels[f.pos]
	if f.pos+1 < len(f.Levels) {
		f.pos++
	}
	return level, nil
}

func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script and reopens the reader.
func (f *FakeReader) Reset() {
	f.pos, f.Reads = 0, 0
	f.Closed = false
}
