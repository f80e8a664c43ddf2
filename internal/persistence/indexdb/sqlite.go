// Package indexdb keeps a small read-model index of a run: one row per tick
// and one row per chunk generate/evict event. It exists for inspection and
// dashboards and never feeds back into the simulation.
package indexdb

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelwalk.ai/internal/sim/world"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqChunkEvent
)

type req struct {
	kind reqKind

	tick  world.TickLogEntry
	chunk chunkEventRow
}

type chunkEventRow struct {
	Tick      uint64
	SessionID string
	CX, CZ    int
	Kind      string
}

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	tick INTEGER PRIMARY KEY,
	sessions INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunk_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tick INTEGER NOT NULL,
	session_id TEXT NOT NULL,
	cx INTEGER NOT NULL,
	cz INTEGER NOT NULL,
	kind TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunk_events_tick ON chunk_events(tick);
`

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	idx := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	idx.wg.Add(1)
	go idx.writer()
	return idx, nil
}

func (s *SQLiteIndex) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
	})
	s.wg.Wait()
	return s.db.Close()
}

// Dropped reports how many rows were discarded because the writer queue was
// full.
func (s *SQLiteIndex) Dropped() uint64 { return s.dropped.Load() }

// WriteTick implements world.TickLogger.
func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	s.enqueue(req{kind: reqTick, tick: entry})
	return nil
}

// ChunkEvent implements world.ChunkEventSink.
func (s *SQLiteIndex) ChunkEvent(tick uint64, sessionID string, cx, cz int, kind string) {
	s.enqueue(req{kind: reqChunkEvent, chunk: chunkEventRow{
		Tick: tick, SessionID: sessionID, CX: cx, CZ: cz, Kind: kind,
	}})
}

// enqueue never blocks the world loop: on a full queue the row is dropped
// and counted.
func (s *SQLiteIndex) enqueue(r req) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

func (s *SQLiteIndex) writer() {
	defer s.wg.Done()
	for r := range s.ch {
		switch r.kind {
		case reqTick:
			_, _ = s.db.Exec(
				`INSERT OR REPLACE INTO ticks(tick, sessions, recorded_at) VALUES(?,?,?)`,
				int64(r.tick.Tick), len(r.tick.Sessions), time.Now().UTC().Format(time.RFC3339),
			)
		case reqChunkEvent:
			_, _ = s.db.Exec(
				`INSERT INTO chunk_events(tick, session_id, cx, cz, kind) VALUES(?,?,?,?,?)`,
				int64(r.chunk.Tick), r.chunk.SessionID, r.chunk.CX, r.chunk.CZ, r.chunk.Kind,
			)
		}
	}
}

// TickCount returns the number of recorded ticks.
func (s *SQLiteIndex) TickCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM ticks`).Scan(&n)
	return n, err
}

// ChunkEventCount returns the number of recorded chunk events of one kind.
func (s *SQLiteIndex) ChunkEventCount(kind string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunk_events WHERE kind = ?`, kind).Scan(&n)
	return n, err
}
