package world

import (
	"voxelwalk.ai/internal/sim/tuning"
)

// Config is everything a world needs to run. Seed plus the tuning World block
// fully determine terrain; two configs with equal values generate identical
// worlds.
type Config struct {
	ID             string
	Seed           int64
	TickRateHz     int
	MaxStepSeconds float64

	World    tuning.World
	Movement tuning.Movement
}

func ConfigFromTuning(id string, seed int64, t tuning.Tuning) Config {
	return Config{
		ID:             id,
		Seed:           seed,
		TickRateHz:     t.TickRateHz,
		MaxStepSeconds: t.MaxStepSeconds,
		World:          t.World,
		Movement:       t.Movement,
	}
}

// StepSeconds is the fixed integration step per tick, clamped so frame
// hitches and low tick rates cannot tunnel the avatar through geometry.
func (c Config) StepSeconds() float64 {
	dt := 1.0 / float64(c.TickRateHz)
	if dt > c.MaxStepSeconds {
		dt = c.MaxStepSeconds
	}
	return dt
}
