package world

import (
	"encoding/json"
	"testing"

	"voxelwalk.ai/internal/protocol"
	"voxelwalk.ai/internal/sim/catalogs"
	"voxelwalk.ai/internal/sim/tuning"
	"voxelwalk.ai/internal/sim/world/feature/movement"
)

func testConfig(t *testing.T) (Config, *catalogs.Catalogs) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return ConfigFromTuning("W1", 1337, tuning.Default()), cats
}

func TestEngineSpawnGrounds(t *testing.T) {
	cfg, cats := testConfig(t)
	eng, err := NewEngine(cfg, cats)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := eng.Spawn(); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if got := len(eng.ResidentKeys()); got != 9 {
		t.Fatalf("resident after spawn=%d want 9", got)
	}

	want := float64(eng.TerrainHeight(0, 0))
	if eng.Index().IsWaterColumn(0, 0) && want < float64(cfg.World.WaterLevel) {
		want = float64(cfg.World.WaterLevel)
	}
	want += cfg.Movement.EyeHeight

	st := eng.State()
	if st.X != 0 || st.Z != 0 || st.Y != want {
		t.Fatalf("spawn state %+v, want y=%v at origin", st, want)
	}

	if err := eng.Step(cfg.StepSeconds(), movement.Intent{}, 0); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !eng.State().Grounded {
		t.Fatalf("idle avatar should be grounded after first step: %+v", eng.State())
	}
	if eng.State().Y != want {
		t.Fatalf("idle avatar moved vertically: %v -> %v", want, eng.State().Y)
	}
}

func TestEngineDeterministicDigests(t *testing.T) {
	cfg, cats := testConfig(t)

	run := func() []string {
		eng, err := NewEngine(cfg, cats)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		if err := eng.Spawn(); err != nil {
			t.Fatalf("spawn: %v", err)
		}
		var digests []string
		in := movement.Intent{Forward: true, Sprint: true}
		for i := 0; i < 50; i++ {
			if i == 20 {
				in.Jump = true
			} else {
				in.Jump = false
			}
			if err := eng.Step(cfg.StepSeconds(), in, 0.8); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
			digests = append(digests, eng.Digest())
		}
		return digests
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("digest diverged at tick %d", i)
		}
	}
}

func TestEngineRenderEventsOnSpawnAndMove(t *testing.T) {
	cfg, cats := testConfig(t)
	eng, err := NewEngine(cfg, cats)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := eng.Spawn(); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	ev := eng.DrainRenderEvents()
	adds := 0
	for _, e := range ev {
		if e.Add != nil {
			adds++
		}
	}
	if adds != 9 {
		t.Fatalf("spawn adds=%d want 9", adds)
	}
	if len(eng.DrainRenderEvents()) != 0 {
		t.Fatalf("drain should empty the queue")
	}
}

func TestChunkAddMsgStableOrder(t *testing.T) {
	cfg, cats := testConfig(t)
	eng, err := NewEngine(cfg, cats)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	c, err := eng.gen.Generate(0, 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	a, err := json.Marshal(chunkAddMsg(1, c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c2, _ := eng.gen.Generate(0, 0)
	b, err := json.Marshal(chunkAddMsg(1, c2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("chunk message serialization unstable")
	}
	m := chunkAddMsg(1, c)
	for i := 1; i < len(m.Batches); i++ {
		if m.Batches[i-1].Block >= m.Batches[i].Block {
			t.Fatalf("batches not sorted by palette id")
		}
	}
}

func TestIntentFromInput(t *testing.T) {
	in := protocol.InputMsg{Forward: true, Left: true, Jump: true}
	got := IntentFromInput(in)
	if !got.Forward || !got.Left || !got.Jump || got.Backward || got.Right || got.Sprint {
		t.Fatalf("mapped intent %+v", got)
	}
}
