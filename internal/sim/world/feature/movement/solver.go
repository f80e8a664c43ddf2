// Package movement integrates the walking avatar against the terrain index:
// gravity, jumping, wall sliding and water-surface floating.
package movement

import (
	"math"

	"voxelwalk.ai/internal/sim/world/terrain/store"
)

// HeightFunc reports the terrain surface y at an integer column.
type HeightFunc func(x, z int) int

type Params struct {
	EyeHeight    float64
	BodyHeight   float64
	BodyRadius   float64
	Gravity      float64
	JumpVelocity float64
	BaseSpeed    float64
	SprintBonus  float64
}

type State struct {
	X, Y, Z  float64
	VelY     float64
	Grounded bool
}

// Solver advances one player against a read-only spatial index. It never
// fails: contradictory inputs cancel, and every tick leaves a valid state.
type Solver struct {
	p      Params
	index  *store.GlobalIndex
	height HeightFunc

	chunkSize  int
	waterLevel int

	// center + 4 cardinal + 4 diagonal horizontal sample offsets.
	offsets [9][2]float64

	state State
}

func NewSolver(p Params, index *store.GlobalIndex, height HeightFunc, chunkSize, waterLevel int) *Solver {
	r := p.BodyRadius
	d := r * math.Sqrt2 / 2
	s := &Solver{
		p:          p,
		index:      index,
		height:     height,
		chunkSize:  chunkSize,
		waterLevel: waterLevel,
		offsets: [9][2]float64{
			{0, 0},
			{r, 0}, {-r, 0}, {0, r}, {0, -r},
			{d, d}, {d, -d}, {-d, d}, {-d, -d},
		},
	}
	return s
}

func (s *Solver) State() State { return s.state }

// Reset places the avatar at eye position (x,y,z) with zero velocity.
func (s *Solver) Reset(x, y, z float64) {
	s.state = State{X: x, Y: y, Z: z}
}

// CollidesAt reports whether a body at eye position (x,y,z) overlaps any
// solid block. The vertical test band starts just above the feet so that
// stepping onto the block the avatar is standing on does not count as a
// collision; an empty band reports no hit.
func (s *Solver) CollidesAt(x, y, z float64) bool {
	feet := y - s.p.EyeHeight
	minY := int(math.Floor(feet + 0.6))
	maxY := int(math.Floor(feet + s.p.BodyHeight))
	if minY > maxY {
		return false
	}
	for _, off := range s.offsets {
		bx := int(math.Round(x + off[0]))
		bz := int(math.Round(z + off[1]))
		for by := minY; by <= maxY; by++ {
			if s.index.IsSolid(store.BlockKey{X: bx, Y: by, Z: bz}) {
				return true
			}
		}
	}
	return false
}

// Update advances one tick. Callers are responsible for clamping delta; the
// solver integrates whatever step it is given.
func (s *Solver) Update(delta float64, in Intent, yaw float64) {
	s.horizontal(delta, in, yaw)
	s.jump(in)
	s.vertical(delta)
	s.groundClamp()
}

func (s *Solver) horizontal(delta float64, in Intent, yaw float64) {
	ix, iz := in.moveAxes()
	if ix == 0 && iz == 0 {
		return
	}
	n := math.Hypot(ix, iz)
	ix /= n
	iz /= n

	speed := s.p.BaseSpeed
	if in.Sprint && in.Forward {
		speed += s.p.SprintBonus
	}

	sin, cos := math.Sincos(yaw)
	dx := (ix*cos + iz*sin) * speed * delta
	dz := (-ix*sin + iz*cos) * speed * delta

	st := &s.state
	if !s.CollidesAt(st.X+dx, st.Y, st.Z+dz) {
		st.X += dx
		st.Z += dz
	} else {
		// Axis-decomposed retry: sliding along a wall instead of stopping
		// dead. Each axis is tested against the pre-move position.
		if !s.CollidesAt(st.X+dx, st.Y, st.Z) {
			st.X += dx
		}
		if !s.CollidesAt(st.X, st.Y, st.Z+dz) {
			st.Z += dz
		}
	}

	bound := float64(s.chunkSize)/2 - 1
	st.X = clamp(st.X, -bound, bound)
	st.Z = clamp(st.Z, -bound, bound)
}

func (s *Solver) jump(in Intent) {
	if !in.Jump {
		return
	}
	if s.state.Grounded {
		s.state.VelY = s.p.JumpVelocity
	}
	// Request is consumed either way; intent is per tick.
}

// vertical integrates gravity. Only upward motion is collision-checked (a
// head bump zeroes the velocity); downward motion is arrested by the ground
// clamp, not by the index. That asymmetry matches the movement feel this
// solver is specified to preserve.
func (s *Solver) vertical(delta float64) {
	st := &s.state
	st.VelY -= s.p.Gravity * delta
	prevY := st.Y
	st.Y += st.VelY * delta
	if st.VelY > 0 && s.CollidesAt(st.X, st.Y, st.Z) {
		st.Y = prevY
		st.VelY = 0
	}
}

func (s *Solver) groundClamp() {
	st := &s.state
	rx := int(math.Round(st.X))
	rz := int(math.Round(st.Z))

	target := float64(s.height(rx, rz)) + s.p.EyeHeight
	if s.index.IsWaterColumn(rx, rz) {
		// Float at the surface rather than sinking to the bed, unless the
		// bed itself is higher.
		if surface := float64(s.waterLevel) + s.p.EyeHeight; surface > target {
			target = surface
		}
	}

	if st.Y <= target {
		st.Y = target
		st.VelY = 0
		st.Grounded = true
	} else {
		st.Grounded = false
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
