package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz     int     `yaml:"tick_rate_hz"`
	MaxStepSeconds float64 `yaml:"max_step_seconds"`

	World    World    `yaml:"world"`
	Movement Movement `yaml:"movement"`
}

// World is the generation format. The defaults below are load-bearing:
// chunk layout, water level and the noise thresholds together define what a
// regenerated chunk must reproduce bit for bit.
type World struct {
	ChunkSize    int `yaml:"chunk_size"`
	MaxHeight    int `yaml:"max_height"`
	BaseHeight   int `yaml:"base_height"`
	WaterLevel   int `yaml:"water_level"`
	ViewDistance int `yaml:"view_distance"`
}

type Movement struct {
	EyeHeight    float64 `yaml:"eye_height"`
	BodyHeight   float64 `yaml:"body_height"`
	BodyRadius   float64 `yaml:"body_radius"`
	Gravity      float64 `yaml:"gravity"`
	JumpVelocity float64 `yaml:"jump_velocity"`
	BaseSpeed    float64 `yaml:"base_speed"`
	SprintBonus  float64 `yaml:"sprint_bonus"`
}

func Default() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      20,
		MaxStepSeconds:  0.05,
		World: World{
			ChunkSize:    48,
			MaxHeight:    20,
			BaseHeight:   6,
			WaterLevel:   8,
			ViewDistance: 1,
		},
		Movement: Movement{
			EyeHeight:    1.6,
			BodyHeight:   1.8,
			BodyRadius:   0.35,
			Gravity:      28.0,
			JumpVelocity: 9.0,
			BaseSpeed:    5.5,
			SprintBonus:  3.5,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.MaxStepSeconds <= 0 {
		return fmt.Errorf("max_step_seconds must be positive, got %v", t.MaxStepSeconds)
	}
	if t.World.ChunkSize <= 0 {
		return fmt.Errorf("world.chunk_size must be positive, got %d", t.World.ChunkSize)
	}
	if t.World.MaxHeight < 2 {
		return fmt.Errorf("world.max_height must be at least 2, got %d", t.World.MaxHeight)
	}
	if t.World.WaterLevel < 0 || t.World.WaterLevel > t.World.MaxHeight {
		return fmt.Errorf("world.water_level out of range: %d", t.World.WaterLevel)
	}
	if t.World.ViewDistance < 0 {
		return fmt.Errorf("world.view_distance must be non-negative, got %d", t.World.ViewDistance)
	}
	if t.Movement.BodyHeight <= 0 || t.Movement.BodyRadius <= 0 {
		return fmt.Errorf("movement body dimensions must be positive")
	}
	return nil
}
