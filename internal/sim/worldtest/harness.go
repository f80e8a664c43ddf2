// Package worldtest drives a world through its exported surface only: joins
// go in as JoinRequests, movement as InputEnvelopes, and everything coming
// back is decoded off the session's out channel. Tests here see exactly what
// a connected client would see.
package worldtest

import (
	"encoding/json"
	"testing"

	"voxelwalk.ai/internal/protocol"
	"voxelwalk.ai/internal/sim/catalogs"
	"voxelwalk.ai/internal/sim/tuning"
	"voxelwalk.ai/internal/sim/world"
)

type Harness struct {
	T    *testing.T
	W    *world.World
	Cats *catalogs.Catalogs

	SessionID string
	Welcome   protocol.WelcomeMsg

	out chan []byte

	LastState    protocol.StateMsg
	ChunkAdds    []protocol.ChunkAddMsg
	ChunkRemoves []protocol.ChunkRemoveMsg
	Errors       []protocol.ErrorMsg
}

func DefaultConfig(seed int64) world.Config {
	return world.ConfigFromTuning("test_world", seed, tuning.Default())
}

func NewHarness(t *testing.T, cfg world.Config) *Harness {
	t.Helper()

	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := world.New(cfg, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}

	h := &Harness{
		T:    t,
		W:    w,
		Cats: cats,
		out:  make(chan []byte, 1024),
	}

	resp := make(chan world.JoinResponse, 1)
	h.W.StepOnce([]world.JoinRequest{{Name: "tester", Out: h.out, Resp: resp}}, nil, nil)
	r := <-resp
	if r.ErrCode != "" {
		t.Fatalf("join rejected: %s %s", r.ErrCode, r.ErrMsg)
	}
	h.SessionID = r.Welcome.SessionID
	h.Welcome = r.Welcome
	h.drain()
	return h
}

// Step applies one input and advances one tick, returning the resulting
// STATE. Type and version fields are filled in so tests only set intent.
func (h *Harness) Step(in protocol.InputMsg) protocol.StateMsg {
	h.T.Helper()
	in.Type = protocol.TypeInput
	in.ProtocolVersion = protocol.Version
	h.W.StepOnce(nil, nil, []world.InputEnvelope{{SessionID: h.SessionID, Input: in}})
	h.drain()
	return h.LastState
}

func (h *Harness) StepFor(n int, in protocol.InputMsg) protocol.StateMsg {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.Step(in)
	}
	return h.LastState
}

func (h *Harness) drain() {
	for {
		select {
		case b, ok := <-h.out:
			if !ok {
				return
			}
			base, err := protocol.DecodeBase(b)
			if err != nil {
				h.T.Fatalf("undecodable message: %v", err)
			}
			switch base.Type {
			case protocol.TypeState:
				if err := json.Unmarshal(b, &h.LastState); err != nil {
					h.T.Fatalf("STATE: %v", err)
				}
			case protocol.TypeChunkAdd:
				var m protocol.ChunkAddMsg
				if err := json.Unmarshal(b, &m); err != nil {
					h.T.Fatalf("CHUNK_ADD: %v", err)
				}
				h.ChunkAdds = append(h.ChunkAdds, m)
			case protocol.TypeChunkRemove:
				var m protocol.ChunkRemoveMsg
				if err := json.Unmarshal(b, &m); err != nil {
					h.T.Fatalf("CHUNK_REMOVE: %v", err)
				}
				h.ChunkRemoves = append(h.ChunkRemoves, m)
			case protocol.TypeError:
				var m protocol.ErrorMsg
				if err := json.Unmarshal(b, &m); err != nil {
					h.T.Fatalf("ERROR: %v", err)
				}
				h.Errors = append(h.Errors, m)
			default:
				h.T.Fatalf("unexpected message type %q", base.Type)
			}
		default:
			return
		}
	}
}
