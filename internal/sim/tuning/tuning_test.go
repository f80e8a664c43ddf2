package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRepoConfig(t *testing.T) {
	tune, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.World.ChunkSize != 48 || tune.World.WaterLevel != 8 {
		t.Fatalf("unexpected world params: %+v", tune.World)
	}
	if tune.TickRateHz != 20 {
		t.Fatalf("tick_rate_hz=%d", tune.TickRateHz)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("./nope.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	bad := Default()
	bad.World.WaterLevel = 99
	if err := bad.Validate(); err == nil {
		t.Fatalf("water level above max height should fail validation")
	}
	bad = Default()
	bad.TickRateHz = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero tick rate should fail validation")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	body := "tick_rate_hz: 10\nworld:\n  view_distance: 2\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tune, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.TickRateHz != 10 {
		t.Fatalf("override ignored: tick_rate_hz=%d", tune.TickRateHz)
	}
	if tune.World.ViewDistance != 2 {
		t.Fatalf("override ignored: view_distance=%d", tune.World.ViewDistance)
	}
	// Untouched fields keep defaults.
	if tune.World.ChunkSize != 48 {
		t.Fatalf("default lost: chunk_size=%d", tune.World.ChunkSize)
	}
}
