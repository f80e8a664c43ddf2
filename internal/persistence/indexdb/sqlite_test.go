package indexdb

import (
	"path/filepath"
	"testing"

	"voxelwalk.ai/internal/sim/world"
)

func TestSQLiteIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := idx.WriteTick(world.TickLogEntry{Tick: i}); err != nil {
			t.Fatalf("write tick: %v", err)
		}
	}
	idx.ChunkEvent(1, "S1", 0, 0, "generate")
	idx.ChunkEvent(2, "S1", 1, 0, "generate")
	idx.ChunkEvent(3, "S1", 0, 0, "evict")

	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	n, err := idx2.TickCount()
	if err != nil {
		t.Fatalf("tick count: %v", err)
	}
	if n != 3 {
		t.Fatalf("ticks=%d want 3", n)
	}
	gen, err := idx2.ChunkEventCount("generate")
	if err != nil {
		t.Fatalf("event count: %v", err)
	}
	if gen != 2 {
		t.Fatalf("generate events=%d want 2", gen)
	}
	ev, err := idx2.ChunkEventCount("evict")
	if err != nil {
		t.Fatalf("event count: %v", err)
	}
	if ev != 1 {
		t.Fatalf("evict events=%d want 1", ev)
	}
}

func TestSQLiteIndexWriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Must not panic on a closed channel.
	if err := idx.WriteTick(world.TickLogEntry{Tick: 99}); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	idx.ChunkEvent(99, "S1", 0, 0, "generate")
}
