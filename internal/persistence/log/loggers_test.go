package log

import (
	"path/filepath"
	"testing"

	"voxelwalk.ai/internal/sim/world"
)

func TestTickLogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)

	want := []world.TickLogEntry{
		{Tick: 1},
		{Tick: 2, Sessions: []world.SessionTick{{
			SessionID: "S1",
			Pos:       [3]float64{0.5, 9.6, -1.25},
			Grounded:  true,
			Digest:    "abc123",
		}}},
		{Tick: 3},
	}
	for _, e := range want {
		if err := l.WriteTick(e); err != nil {
			t.Fatalf("write tick %d: %v", e.Tick, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var got []world.TickLogEntry
	err := ReadTickEntries(filepath.Join(dir, "events"), func(e world.TickLogEntry) bool {
		got = append(got, e)
		return true
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("entries=%d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Tick != want[i].Tick {
			t.Fatalf("entry %d tick=%d want %d", i, got[i].Tick, want[i].Tick)
		}
	}
	if got[1].Sessions[0].Digest != "abc123" || !got[1].Sessions[0].Grounded {
		t.Fatalf("session record lost: %+v", got[1].Sessions)
	}
}

func TestReadTickEntriesEarlyStop(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	for i := uint64(1); i <= 5; i++ {
		if err := l.WriteTick(world.TickLogEntry{Tick: i}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	n := 0
	err := ReadTickEntries(filepath.Join(dir, "events"), func(e world.TickLogEntry) bool {
		n++
		return n < 2
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 2 {
		t.Fatalf("callback ran %d times, want 2", n)
	}
}
