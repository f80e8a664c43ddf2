package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	persistlog "voxelwalk.ai/internal/persistence/log"
	"voxelwalk.ai/internal/sim/catalogs"
	"voxelwalk.ai/internal/sim/tuning"
	"voxelwalk.ai/internal/sim/world"
)

// replay re-runs a recorded session from the tick log and verifies that the
// engine reproduces the recorded state digest on every tick. Terrain is
// regenerated from the seed; nothing but inputs is taken from the log.
func main() {
	var (
		eventsDir  = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		worldID    = flag.String("world", "world_1", "world id")
		seed       = flag.Int64("seed", 1337, "world seed the run was recorded with")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			tune = tuning.Default()
		} else {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
	}

	cfg := world.ConfigFromTuning(*worldID, *seed, tune)
	dt := cfg.StepSeconds()

	engines := map[string]*world.Engine{}
	var checked, mismatches uint64

	err = persistlog.ReadTickEntries(*eventsDir, func(e world.TickLogEntry) bool {
		if *toTick != 0 && e.Tick > *toTick {
			return false
		}
		for _, st := range e.Sessions {
			eng, ok := engines[st.SessionID]
			if !ok {
				eng, err = world.NewEngine(cfg, cats)
				if err != nil {
					fmt.Fprintln(os.Stderr, "engine:", err)
					os.Exit(1)
				}
				if err := eng.Spawn(); err != nil {
					fmt.Fprintln(os.Stderr, "spawn:", err)
					os.Exit(1)
				}
				engines[st.SessionID] = eng
			}
			if err := eng.Step(dt, world.IntentFromInput(st.Input), st.Input.Yaw); err != nil {
				fmt.Fprintf(os.Stderr, "tick %d session %s: step: %v\n", e.Tick, st.SessionID, err)
				os.Exit(1)
			}
			got := eng.Digest()
			checked++
			if got != st.Digest {
				mismatches++
				pos := eng.State()
				fmt.Printf("MISMATCH tick=%d session=%s\n  recorded digest=%s pos=%v\n  replayed digest=%s pos=[%v %v %v]\n",
					e.Tick, st.SessionID, st.Digest, st.Pos, got, pos.X, pos.Y, pos.Z)
			}
		}
		return true
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "read events:", err)
		os.Exit(1)
	}

	if mismatches > 0 {
		fmt.Printf("replay FAILED: %d/%d session-ticks diverged\n", mismatches, checked)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d session-ticks across %d sessions\n", checked, len(engines))
}
