package store

import (
	"fmt"
	"math"
	"sort"
)

// Generator produces the chunk at a chunk coordinate. Implementations must be
// pure: the same coordinate always yields a bit-identical chunk.
type Generator interface {
	Generate(cx, cz int) (*Chunk, error)
}

// RenderSink receives per-chunk instance batches. The Manager never inspects
// what the sink does with them; a nil-safe no-op sink is fine for headless use.
type RenderSink interface {
	AddChunk(c *Chunk)
	RemoveChunk(key ChunkKey)
}

type nopSink struct{}

func (nopSink) AddChunk(*Chunk)      {}
func (nopSink) RemoveChunk(ChunkKey) {}

// Manager keeps the square of chunks within ViewDistance (Chebyshev) of the
// viewer resident, and maintains the merged GlobalIndex over them.
type Manager struct {
	gen          Generator
	sink         RenderSink
	chunkSize    int
	viewDistance int

	resident   map[ChunkKey]*Chunk
	index      *GlobalIndex
	lastCenter ChunkKey
	hasCenter  bool
}

func NewManager(gen Generator, sink RenderSink, chunkSize, viewDistance int) *Manager {
	if sink == nil {
		sink = nopSink{}
	}
	return &Manager{
		gen:          gen,
		sink:         sink,
		chunkSize:    chunkSize,
		viewDistance: viewDistance,
		resident:     map[ChunkKey]*Chunk{},
		index:        NewGlobalIndex(),
	}
}

func (m *Manager) Index() *GlobalIndex { return m.index }

func (m *Manager) ResidentCount() int { return len(m.resident) }

func (m *Manager) ResidentKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(m.resident))
	for k := range m.resident {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// CenterChunk maps a viewer position to its chunk key. The half-chunk offset
// centers chunk (0,0) on the world origin.
func (m *Manager) CenterChunk(px, pz float64) ChunkKey {
	half := float64(m.chunkSize) / 2
	return ChunkKey{
		CX: int(math.Floor((px + half) / float64(m.chunkSize))),
		CZ: int(math.Floor((pz + half) / float64(m.chunkSize))),
	}
}

// Update makes the required window resident around the viewer. The dominant
// per-frame case is the cheap no-op: same center chunk as last time. New
// chunks are generated and merged before any stale chunk is removed, so the
// index stays consistent at every step for a single-threaded caller.
//
// A generation failure aborts the update: the failing chunk contributes
// nothing (no resident entry, no index keys, no render batch) and the error
// is returned to the caller rather than swallowed. A silently skipped chunk
// would leave an invisible hole in the collision index.
func (m *Manager) Update(px, pz float64) error {
	center := m.CenterChunk(px, pz)
	if m.hasCenter && center == m.lastCenter && len(m.resident) > 0 {
		return nil
	}

	required := make(map[ChunkKey]struct{}, (2*m.viewDistance+1)*(2*m.viewDistance+1))
	for dz := -m.viewDistance; dz <= m.viewDistance; dz++ {
		for dx := -m.viewDistance; dx <= m.viewDistance; dx++ {
			required[ChunkKey{CX: center.CX + dx, CZ: center.CZ + dz}] = struct{}{}
		}
	}

	for key := range required {
		if _, ok := m.resident[key]; ok {
			continue
		}
		c, err := m.gen.Generate(key.CX, key.CZ)
		if err != nil {
			return fmt.Errorf("generate chunk (%d,%d): %w", key.CX, key.CZ, err)
		}
		m.index.merge(c)
		m.resident[key] = c
		m.sink.AddChunk(c)
	}

	for key, c := range m.resident {
		if _, ok := required[key]; ok {
			continue
		}
		m.index.unmerge(c)
		m.sink.RemoveChunk(key)
		delete(m.resident, key)
	}

	m.lastCenter = center
	m.hasCenter = true
	return nil
}
