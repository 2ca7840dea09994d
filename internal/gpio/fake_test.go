package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader(true, false, true)

	for i, want := range []bool{true, false, true, true} {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("read %d: expected %v, got %v", i, want, got)
		}
	}
	if f.Reads != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader()

	if _, err := f.Read(); !errors.Is(err, ErrNoLevels) {
		t.Errorf("expected ErrNoLevels, got %v", err)
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseReset(t *testing.T) {
	f := NewFakeReader(true, false)
	f.Read()
	if err := f.Close(); err != nil || !f.Closed {
		t.Fatalf("expected closed, err=%v", err)
	}

	f.Reset()
	if f.Closed {
		t.Error("reset should clear closed")
	}
	if got, _ := f.Read(); !got {
		t.Error("after reset: expected first sample again")
	}
}

func TestDebouncedIgnoresGlitches(t *testing.T) {
	// One-sample glitches never reach a 3-sample debounce.
	f := NewFakeReader(false, true, false, true, true, false, false, false, false)
	d := NewDebounced(f, 3)

	var got []bool
	for range f.Levels {
		level, err := d.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, level)
	}
	for i, level := range got {
		if level {
			t.Errorf("read %d: glitch leaked through", i)
		}
	}
}

func TestDebouncedAcceptsStableChange(t *testing.T) {
	f := NewFakeReader(false, true, true, true, true)
	d := NewDebounced(f, 3)

	want := []bool{false, false, false, true, true}
	for i, w := range want {
		level, _ := d.Read()
		if level != w {
			t.Errorf("read %d: expected %v, got %v", i, w, level)
		}
	}
}

func TestDebouncedFirstReadIsTaken(t *testing.T) {
	d := NewDebounced(NewFakeReader(true), 5)
	if level, _ := d.Read(); !level {
		t.Error("first read should be reported as-is")
	}
}

func TestDebouncedErrorKeepsLevel(t *testing.T) {
	f := NewFakeReader(true)
	d := NewDebounced(f, 1)
	d.Read()

	f.ReadError = errors.New("line gone")
	level, err := d.Read()
	if err == nil {
		t.Fatal("expected error")
	}
	if !level {
		t.Error("expected last stable level on error")
	}
}

func TestDebouncedClose(t *testing.T) {
	f := NewFakeReader(true)
	if err := NewDebounced(f, 2).Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("expected wrapped reader closed")
	}
}
