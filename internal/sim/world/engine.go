package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"voxelwalk.ai/internal/sim/catalogs"
	"voxelwalk.ai/internal/sim/world/feature/movement"
	"voxelwalk.ai/internal/sim/world/terrain/gen"
	"voxelwalk.ai/internal/sim/world/terrain/noise"
	"voxelwalk.ai/internal/sim/world/terrain/store"
)

// RenderEvent is one chunk batch change for an observer. Adds carry the chunk
// payload; removes only the key.
type RenderEvent struct {
	Add    *store.Chunk
	Remove store.ChunkKey
}

// batchQueue buffers chunk changes produced inside a step until the caller
// drains them.
type batchQueue struct {
	events []RenderEvent
}

func (q *batchQueue) AddChunk(c *store.Chunk) { q.events = append(q.events, RenderEvent{Add: c}) }

func (q *batchQueue) RemoveChunk(key store.ChunkKey) {
	q.events = append(q.events, RenderEvent{Remove: key})
}

// Engine couples one viewer's chunk window to one kinematic avatar:
// generator -> manager -> index -> solver, stepped once per tick. It is
// single-threaded by construction; the World loop owns it.
type Engine struct {
	cfg     Config
	gen     *gen.Generator
	manager *store.Manager
	solver  *movement.Solver
	queue   *batchQueue
}

func NewEngine(cfg Config, cats *catalogs.Catalogs) (*Engine, error) {
	resolve := func(id string) uint16 {
		v, _ := cats.Blocks.Resolve(id)
		return v
	}
	for _, id := range []string{"GRASS", "DIRT", "STONE", "SAND", "LEAF", "LOG", "WATER", "CLOUD"} {
		if _, err := cats.Blocks.Resolve(id); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	g, err := gen.New(gen.Config{
		ChunkSize:  cfg.World.ChunkSize,
		MaxHeight:  cfg.World.MaxHeight,
		BaseHeight: cfg.World.BaseHeight,
		WaterLevel: cfg.World.WaterLevel,
		Grass:      resolve("GRASS"),
		Dirt:       resolve("DIRT"),
		Stone:      resolve("STONE"),
		Sand:       resolve("SAND"),
		Leaf:       resolve("LEAF"),
		Log:        resolve("LOG"),
		Water:      resolve("WATER"),
		Cloud:      resolve("CLOUD"),
		Solid:      cats.Blocks.SolidSet(),
	}, noise.New(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	queue := &batchQueue{}
	manager := store.NewManager(g, queue, cfg.World.ChunkSize, cfg.World.ViewDistance)
	solver := movement.NewSolver(movement.Params{
		EyeHeight:    cfg.Movement.EyeHeight,
		BodyHeight:   cfg.Movement.BodyHeight,
		BodyRadius:   cfg.Movement.BodyRadius,
		Gravity:      cfg.Movement.Gravity,
		JumpVelocity: cfg.Movement.JumpVelocity,
		BaseSpeed:    cfg.Movement.BaseSpeed,
		SprintBonus:  cfg.Movement.SprintBonus,
	}, manager.Index(), g.TerrainHeight, cfg.World.ChunkSize, cfg.World.WaterLevel)

	return &Engine{
		cfg:     cfg,
		gen:     g,
		manager: manager,
		solver:  solver,
		queue:   queue,
	}, nil
}

// Spawn makes the origin window resident and places the avatar standing at
// the world origin (floating if the origin column is under water).
func (e *Engine) Spawn() error {
	if err := e.manager.Update(0, 0); err != nil {
		return err
	}
	target := float64(e.gen.TerrainHeight(0, 0))
	if e.manager.Index().IsWaterColumn(0, 0) && float64(e.cfg.World.WaterLevel) > target {
		target = float64(e.cfg.World.WaterLevel)
	}
	e.solver.Reset(0, target+e.cfg.Movement.EyeHeight, 0)
	return nil
}

// Step advances one tick: stream chunks around the avatar, then integrate
// movement against the refreshed index.
func (e *Engine) Step(delta float64, in movement.Intent, yaw float64) error {
	st := e.solver.State()
	if err := e.manager.Update(st.X, st.Z); err != nil {
		return err
	}
	e.solver.Update(delta, in, yaw)
	return nil
}

func (e *Engine) State() movement.State { return e.solver.State() }

func (e *Engine) Index() *store.GlobalIndex { return e.manager.Index() }

func (e *Engine) CollidesAt(x, y, z float64) bool { return e.solver.CollidesAt(x, y, z) }

func (e *Engine) TerrainHeight(x, z int) int { return e.gen.TerrainHeight(x, z) }

func (e *Engine) ResidentKeys() []store.ChunkKey { return e.manager.ResidentKeys() }

// DrainRenderEvents returns the chunk changes accumulated since the last
// drain, in the order they happened (adds always precede the removes of the
// same update).
func (e *Engine) DrainRenderEvents() []RenderEvent {
	ev := e.queue.events
	e.queue.events = nil
	return ev
}

// Digest is a stable fingerprint of the avatar and the resident window, used
// by the tick log and verified by replay.
func (e *Engine) Digest() string {
	st := e.solver.State()
	h := sha256.New()
	var b [8]byte
	for _, f := range []float64{st.X, st.Y, st.Z, st.VelY} {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	}
	if st.Grounded {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	for _, k := range e.manager.ResidentKeys() {
		binary.LittleEndian.PutUint64(b[:], uint64(int64(k.CX)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(int64(k.CZ)))
		h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
