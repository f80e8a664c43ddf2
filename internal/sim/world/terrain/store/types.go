// Package store owns resident chunks and the merged spatial index the
// collision solver reads. One writer (the Manager), any number of same-thread
// readers.
package store

type ChunkKey struct {
	CX int
	CZ int
}

// BlockKey is a packed integer block coordinate. Using a comparable struct
// instead of a formatted string keeps index lookups allocation-free.
type BlockKey struct {
	X, Y, Z int
}

// ColKey addresses a vertical (x,z) column, used for water membership.
type ColKey struct {
	X, Z int
}

// Chunk is the complete generation output for one chunk coordinate. It is
// built atomically by the generator and immutable afterwards; the Manager owns
// it until eviction and then discards it (chunks are regenerated, not cached).
type Chunk struct {
	CX, CZ int

	// BlocksByType holds every placed block grouped by palette id, in
	// generation order. This is the render-batch payload.
	BlocksByType map[uint16][]BlockKey

	// Solid is the subset of placed blocks that obstruct movement.
	Solid map[BlockKey]struct{}

	// WaterCols are the columns containing at least one water block.
	WaterCols map[ColKey]struct{}
}

// GlobalIndex is the union of all resident chunks' solid and water sets.
type GlobalIndex struct {
	Solid     map[BlockKey]struct{}
	WaterCols map[ColKey]struct{}
}

func NewGlobalIndex() *GlobalIndex {
	return &GlobalIndex{
		Solid:     map[BlockKey]struct{}{},
		WaterCols: map[ColKey]struct{}{},
	}
}

func (g *GlobalIndex) IsSolid(k BlockKey) bool {
	_, ok := g.Solid[k]
	return ok
}

func (g *GlobalIndex) IsWaterColumn(x, z int) bool {
	_, ok := g.WaterCols[ColKey{X: x, Z: z}]
	return ok
}

func (g *GlobalIndex) merge(c *Chunk) {
	for k := range c.Solid {
		g.Solid[k] = struct{}{}
	}
	for k := range c.WaterCols {
		g.WaterCols[k] = struct{}{}
	}
}

func (g *GlobalIndex) unmerge(c *Chunk) {
	for k := range c.Solid {
		delete(g.Solid, k)
	}
	for k := range c.WaterCols {
		delete(g.WaterCols, k)
	}
}
