// Package noise provides the deterministic samplers terrain generation is
// built on: a two-octave smooth value noise for the height field and a
// stateless per-cell random used for decoration placement.
package noise

import (
	"math"

	"voxelwalk.ai/internal/sim/world/logic/mathx"
)

// Fixed frequency/offset pairs for the two height octaves. These are part of
// the generation format: changing them changes every world.
const (
	octave1Freq = 0.06
	octave1Amp  = 8.0

	octave2Freq    = 0.13
	octave2Amp     = 3.0
	octave2OffsetX = 100.0
	octave2OffsetZ = 100.0
)

// Field samples deterministic noise for a fixed seed. Zero-allocation,
// call-order independent, safe for concurrent readers.
type Field struct {
	seed int64
}

func New(seed int64) *Field {
	return &Field{seed: seed}
}

func (f *Field) Seed() int64 { return f.seed }

// HeightNoise is the raw height offset at world (x,z), before the base height
// and clamping are applied. Combined as n1*8 + n2*3.
func (f *Field) HeightNoise(x, z float64) float64 {
	n1 := f.value2D(x*octave1Freq, z*octave1Freq)
	n2 := f.value2D(x*octave2Freq+octave2OffsetX, z*octave2Freq+octave2OffsetZ)
	return n1*octave1Amp + n2*octave2Amp
}

// CellRandom returns a value in [0,1) for an integer cell and salt. Identical
// inputs always produce the identical value, so a regenerated chunk reproduces
// its decorations exactly.
func (f *Field) CellRandom(x, z, salt int) float64 {
	a := float64(x)*12.9898 + float64(z)*78.233 + float64(salt)*37.719 + float64(f.seed)*0.5453
	v := math.Sin(a) * 43758.5453
	v -= math.Floor(v)
	if v < 0 || v >= 1 {
		return 0
	}
	return v
}

// value2D is bilinear-interpolated lattice value noise in [0,1).
func (f *Field) value2D(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	tx := smoothstep(x - x0)
	tz := smoothstep(z - z0)

	ix0 := int(x0)
	iz0 := int(z0)
	v00 := f.lattice(ix0, iz0)
	v10 := f.lattice(ix0+1, iz0)
	v01 := f.lattice(ix0, iz0+1)
	v11 := f.lattice(ix0+1, iz0+1)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

func (f *Field) lattice(x, z int) float64 {
	h := mathx.Hash2(f.seed, x, z)
	return float64(h&0xFFFFFFFF) / float64(1<<32)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
