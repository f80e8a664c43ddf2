// Package gen builds terrain chunks: height-noise columns, water fill, trees,
// shrubs and decorative clouds. Generation is a pure function of the chunk
// coordinate and the noise seed, which is what allows evicted chunks to be
// discarded and regenerated instead of cached.
package gen

import (
	"fmt"
	"math"

	"voxelwalk.ai/internal/sim/world/logic/mathx"
	"voxelwalk.ai/internal/sim/world/terrain/store"
)

// Cell-random salts. Each decoration decision draws from its own salt so the
// decisions stay independent of each other and of evaluation order.
const (
	saltTree        = 1
	saltTrunkHeight = 2
	saltShrub       = 5
	saltShrubSecond = 6
	saltCloudCount  = 7
	saltCloudX      = 8
	saltCloudZ      = 9
	saltCloudY      = 10
)

// Placement thresholds and shape constants. Part of the generation format.
const (
	treeThreshold        = 0.92
	shrubThreshold       = 0.98
	shrubSecondThreshold = 0.6

	canopyRadius = 2
	canopyBias   = 0.35

	cloudBaseAltitude = 15
	cloudAltitudeSpan = 8
)

// cloudShape is the fixed 7-block cluster, as offsets from the cluster base.
var cloudShape = [7]store.ColKey{
	{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 0}, {X: -1, Z: 0},
	{X: 0, Z: 1}, {X: 0, Z: -1}, {X: 1, Z: 1},
}

// NoiseSource is what the generator samples. Tests substitute a flat source
// to get fully predictable columns.
type NoiseSource interface {
	HeightNoise(x, z float64) float64
	CellRandom(x, z, salt int) float64
}

// Config carries the world shape plus the resolved block palette ids.
type Config struct {
	ChunkSize  int
	MaxHeight  int
	BaseHeight int
	WaterLevel int

	Grass, Dirt, Stone, Sand, Leaf, Log, Water, Cloud uint16

	// Solid marks the palette ids that go into the collision index.
	Solid map[uint16]bool
}

type Generator struct {
	cfg   Config
	noise NoiseSource
}

func New(cfg Config, noise NoiseSource) (*Generator, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.MaxHeight < 2 {
		return nil, fmt.Errorf("max height must be at least 2, got %d", cfg.MaxHeight)
	}
	if cfg.Solid == nil {
		return nil, fmt.Errorf("missing solid block set")
	}
	if noise == nil {
		return nil, fmt.Errorf("missing noise source")
	}
	return &Generator{cfg: cfg, noise: noise}, nil
}

// TerrainHeight is the surface block y at world (x,z), always in [2, MaxHeight].
func (g *Generator) TerrainHeight(x, z int) int {
	h := float64(g.cfg.BaseHeight) + g.noise.HeightNoise(float64(x), float64(z))
	return mathx.ClampInt(int(math.Floor(h)), 2, g.cfg.MaxHeight)
}

// Generate builds the chunk at (cx,cz). Chunk (0,0) is centered on the world
// origin: local cell (lx,lz) maps to world (cx*size + lx - size/2, ...).
func (g *Generator) Generate(cx, cz int) (*store.Chunk, error) {
	size := g.cfg.ChunkSize
	c := &store.Chunk{
		CX:           cx,
		CZ:           cz,
		BlocksByType: map[uint16][]store.BlockKey{},
		Solid:        map[store.BlockKey]struct{}{},
		WaterCols:    map[store.ColKey]struct{}{},
	}

	originX := cx*size - size/2
	originZ := cz*size - size/2

	for lz := 0; lz < size; lz++ {
		for lx := 0; lx < size; lx++ {
			wx := originX + lx
			wz := originZ + lz
			// Trees only grow far enough from the chunk border that the
			// canopy cannot spill solid blocks into a neighbouring chunk;
			// resident chunks must keep disjoint solid sets.
			interior := lx >= canopyRadius && lx < size-canopyRadius &&
				lz >= canopyRadius && lz < size-canopyRadius
			g.column(c, wx, wz, interior)
		}
	}
	g.clouds(c, originX, originZ)
	return c, nil
}

func (g *Generator) column(c *store.Chunk, wx, wz int, interior bool) {
	height := g.TerrainHeight(wx, wz)

	surface := g.cfg.Grass
	if height <= g.cfg.WaterLevel+1 {
		surface = g.cfg.Sand
	}

	for y := 0; y < height-4; y++ {
		g.place(c, g.cfg.Stone, wx, y, wz)
	}
	dirtFrom := height - 4
	if dirtFrom < 0 {
		dirtFrom = 0
	}
	for y := dirtFrom; y < height; y++ {
		g.place(c, g.cfg.Dirt, wx, y, wz)
	}
	g.place(c, surface, wx, height, wz)

	if height < g.cfg.WaterLevel {
		for y := height + 1; y <= g.cfg.WaterLevel; y++ {
			g.place(c, g.cfg.Water, wx, y, wz)
		}
		c.WaterCols[store.ColKey{X: wx, Z: wz}] = struct{}{}
		return
	}

	if interior && surface == g.cfg.Grass && g.noise.CellRandom(wx, wz, saltTree) > treeThreshold {
		g.tree(c, wx, height, wz)
	}
	if g.noise.CellRandom(wx, wz, saltShrub) > shrubThreshold && height > g.cfg.WaterLevel+4 {
		g.place(c, g.cfg.Leaf, wx, height+1, wz)
		if g.noise.CellRandom(wx, wz, saltShrubSecond) > shrubSecondThreshold {
			g.place(c, g.cfg.Leaf, wx, height+2, wz)
		}
	}
}

// tree places a log trunk and a roughly spherical leaf canopy around the
// trunk top. Every layer but the very top uses a slightly shrunk radius,
// which flattens the crown.
func (g *Generator) tree(c *store.Chunk, wx, surfaceY, wz int) {
	trunk := 3 + int(math.Floor(g.noise.CellRandom(wx, wz, saltTrunkHeight)*3))
	for y := surfaceY + 1; y <= surfaceY+trunk; y++ {
		g.place(c, g.cfg.Log, wx, y, wz)
	}

	topY := surfaceY + trunk
	for dy := -canopyRadius; dy <= canopyRadius; dy++ {
		limit := float64(canopyRadius)
		if dy != canopyRadius {
			limit -= canopyBias
		}
		for dz := -canopyRadius; dz <= canopyRadius; dz++ {
			for dx := -canopyRadius; dx <= canopyRadius; dx++ {
				if dx == 0 && dz == 0 && dy <= 0 {
					continue // trunk occupies these cells
				}
				d := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
				if d <= limit {
					g.place(c, g.cfg.Leaf, wx+dx, topY+dy, wz+dz)
				}
			}
		}
	}
}

// clouds scatters 2-4 fixed-shape clusters well above the water level.
func (g *Generator) clouds(c *store.Chunk, originX, originZ int) {
	size := g.cfg.ChunkSize
	count := 2 + int(math.Floor(g.noise.CellRandom(c.CX, c.CZ, saltCloudCount)*3))
	for i := 0; i < count; i++ {
		ox := int(math.Floor(g.noise.CellRandom(c.CX*31+i, c.CZ*17-i, saltCloudX) * float64(size)))
		oz := int(math.Floor(g.noise.CellRandom(c.CX*13-i, c.CZ*29+i, saltCloudZ) * float64(size)))
		y := g.cfg.WaterLevel + cloudBaseAltitude + int(math.Floor(g.noise.CellRandom(c.CX+i, c.CZ-i, saltCloudY)*cloudAltitudeSpan))
		for _, off := range cloudShape {
			g.place(c, g.cfg.Cloud, originX+ox+off.X, y, originZ+oz+off.Z)
		}
	}
}

func (g *Generator) place(c *store.Chunk, block uint16, x, y, z int) {
	k := store.BlockKey{X: x, Y: y, Z: z}
	c.BlocksByType[block] = append(c.BlocksByType[block], k)
	if g.cfg.Solid[block] {
		c.Solid[k] = struct{}{}
	}
}
