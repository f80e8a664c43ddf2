package world

import (
	"context"
	"encoding/json"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"voxelwalk.ai/internal/protocol"
	"voxelwalk.ai/internal/sim/catalogs"
	"voxelwalk.ai/internal/sim/world/feature/movement"
	"voxelwalk.ai/internal/sim/world/terrain/store"
)

// World is a single-threaded authoritative simulation. Each connected client
// gets its own engine (chunk window + avatar); all state is touched only from
// the world loop goroutine.
type World struct {
	cfg      Config
	catalogs *catalogs.Catalogs

	tick atomic.Uint64

	sessions map[string]*session

	inbox chan InputEnvelope
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	tickLogger TickLogger
	chunkSink  ChunkEventSink
	logDrops   atomic.Uint64
}

type session struct {
	id     string
	out    chan []byte
	engine *Engine

	pending protocol.InputMsg
}

type InputEnvelope struct {
	SessionID string
	Input     protocol.InputMsg
}

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
	ErrCode string
	ErrMsg  string
}

// TickLogger persists one entry per tick. Implemented in
// internal/persistence; may be nil.
type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// ChunkEventSink observes chunk generation and eviction, for the run index.
// May be nil.
type ChunkEventSink interface {
	ChunkEvent(tick uint64, sessionID string, cx, cz int, kind string)
}

type TickLogEntry struct {
	Tick     uint64        `json:"tick"`
	Sessions []SessionTick `json:"sessions,omitempty"`
}

// SessionTick records the input applied to one session this tick and the
// digest of the resulting state. Replays re-apply the inputs and compare
// digests.
type SessionTick struct {
	SessionID string            `json:"session_id"`
	Input     protocol.InputMsg `json:"input"`
	Pos       [3]float64        `json:"pos"`
	VelY      float64           `json:"vel_y"`
	Grounded  bool              `json:"grounded"`
	Digest    string            `json:"digest"`
}

func New(cfg Config, cats *catalogs.Catalogs) (*World, error) {
	w := &World{
		cfg:      cfg,
		catalogs: cats,
		sessions: map[string]*session{},
		inbox:    make(chan InputEnvelope, 1024),
		join:     make(chan JoinRequest, 64),
		leave:    make(chan string, 64),
		stop:     make(chan struct{}),
	}
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) SetChunkEventSink(s ChunkEventSink) { w.chunkSink = s }

func (w *World) Inbox() chan<- InputEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest    { return w.join }
func (w *World) Leave() chan<- string        { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			w.handleJoin(req)
		case id := <-w.leave:
			w.dropSession(id)
		case env := <-w.inbox:
			w.handleInput(env)
		case <-ticker.C:
			w.step()
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce applies joins, leaves and inputs and advances exactly one tick.
// It drives the same code paths as Run and must not be called while Run is
// active; it exists so tests can step the world deterministically.
func (w *World) StepOnce(joins []JoinRequest, leaves []string, inputs []InputEnvelope) uint64 {
	for _, req := range joins {
		w.handleJoin(req)
	}
	for _, id := range leaves {
		w.dropSession(id)
	}
	for _, env := range inputs {
		w.handleInput(env)
	}
	w.step()
	return w.tick.Load()
}

func (w *World) handleJoin(req JoinRequest) {
	eng, err := NewEngine(w.cfg, w.catalogs)
	if err != nil {
		req.Resp <- JoinResponse{ErrCode: protocol.ErrInternal, ErrMsg: err.Error()}
		return
	}
	if err := eng.Spawn(); err != nil {
		req.Resp <- JoinResponse{ErrCode: protocol.ErrChunkGen, ErrMsg: err.Error()}
		return
	}

	id := uuid.NewString()
	s := &session{id: id, out: req.Out, engine: eng}
	w.sessions[id] = s

	st := eng.State()
	blocks := w.catalogs.Blocks.Palette
	materials := make([]string, len(blocks))
	for i, b := range blocks {
		materials[i] = w.catalogs.Blocks.Defs[b].Material
	}
	req.Resp <- JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       id,
		WorldParams: protocol.WorldParams{
			TickRateHz:   w.cfg.TickRateHz,
			ChunkSize:    w.cfg.World.ChunkSize,
			MaxHeight:    w.cfg.World.MaxHeight,
			BaseHeight:   w.cfg.World.BaseHeight,
			WaterLevel:   w.cfg.World.WaterLevel,
			ViewDistance: w.cfg.World.ViewDistance,
			Seed:         w.cfg.Seed,
		},
		BlockPalette: protocol.Palette{
			Digest:    w.catalogs.Blocks.PaletteDigest,
			Blocks:    blocks,
			Materials: materials,
		},
		Spawn: [3]float64{st.X, st.Y, st.Z},
	}}
}

func (w *World) dropSession(id string) {
	if s, ok := w.sessions[id]; ok {
		close(s.out)
		delete(w.sessions, id)
	}
}

// handleInput keeps the latest intent for the tick, except jump: once a jump
// edge arrives it survives message coalescing until the tick consumes it.
func (w *World) handleInput(env InputEnvelope) {
	s, ok := w.sessions[env.SessionID]
	if !ok {
		return
	}
	jump := s.pending.Jump || env.Input.Jump
	s.pending = env.Input
	s.pending.Jump = jump
}

func (w *World) step() {
	tick := w.tick.Add(1)
	dt := w.cfg.StepSeconds()

	entry := TickLogEntry{Tick: tick}

	for _, s := range w.sessions {
		in := s.pending
		s.pending = protocol.InputMsg{}

		if err := s.engine.Step(dt, IntentFromInput(in), in.Yaw); err != nil {
			// A failed chunk contributes nothing; surface the failure and
			// drop the session rather than walking it over a hole.
			w.send(s, protocol.ErrorMsg{
				Type:    protocol.TypeError,
				Code:    protocol.ErrChunkGen,
				Message: err.Error(),
			})
			w.dropSession(s.id)
			continue
		}

		for _, ev := range s.engine.DrainRenderEvents() {
			if ev.Add != nil {
				w.send(s, chunkAddMsg(tick, ev.Add))
				if w.chunkSink != nil {
					w.chunkSink.ChunkEvent(tick, s.id, ev.Add.CX, ev.Add.CZ, "generate")
				}
				continue
			}
			w.send(s, protocol.ChunkRemoveMsg{
				Type: protocol.TypeChunkRemove, Tick: tick,
				CX: ev.Remove.CX, CZ: ev.Remove.CZ,
			})
			if w.chunkSink != nil {
				w.chunkSink.ChunkEvent(tick, s.id, ev.Remove.CX, ev.Remove.CZ, "evict")
			}
		}

		st := s.engine.State()
		digest := s.engine.Digest()
		w.send(s, protocol.StateMsg{
			Type: protocol.TypeState, Tick: tick,
			Pos:      [3]float64{st.X, st.Y, st.Z},
			VelY:     st.VelY,
			Grounded: st.Grounded,
			Digest:   digest,
		})

		entry.Sessions = append(entry.Sessions, SessionTick{
			SessionID: s.id,
			Input:     in,
			Pos:       [3]float64{st.X, st.Y, st.Z},
			VelY:      st.VelY,
			Grounded:  st.Grounded,
			Digest:    digest,
		})
	}

	if w.tickLogger != nil {
		if err := w.tickLogger.WriteTick(entry); err != nil {
			w.logDrops.Add(1)
		}
	}
}

// send marshals and queues a message without blocking the world loop; a slow
// client loses frames rather than stalling every other session.
func (w *World) send(s *session, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case s.out <- b:
	default:
	}
}

// chunkAddMsg flattens a chunk into per-block-type instance batches, in
// stable palette order so identical chunks serialize identically.
func chunkAddMsg(tick uint64, c *store.Chunk) protocol.ChunkAddMsg {
	msg := protocol.ChunkAddMsg{
		Type: protocol.TypeChunkAdd, Tick: tick,
		CX: c.CX, CZ: c.CZ,
	}
	blocks := make([]int, 0, len(c.BlocksByType))
	for b := range c.BlocksByType {
		blocks = append(blocks, int(b))
	}
	sort.Ints(blocks)
	for _, b := range blocks {
		keys := c.BlocksByType[uint16(b)]
		batch := protocol.ChunkBatch{Block: uint16(b), Positions: make([][3]int, len(keys))}
		for i, k := range keys {
			batch.Positions[i] = [3]int{k.X, k.Y, k.Z}
		}
		msg.Batches = append(msg.Batches, batch)
	}
	return msg
}

// IntentFromInput maps a wire input message onto a movement intent.
func IntentFromInput(in protocol.InputMsg) movement.Intent {
	return movement.Intent{
		Forward:  in.Forward,
		Backward: in.Backward,
		Left:     in.Left,
		Right:    in.Right,
		Sprint:   in.Sprint,
		Jump:     in.Jump,
	}
}
