package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"voxelwalk.ai/internal/protocol"
)

// A headless walker: connects, then wanders in a slow circle while sprinting
// in bursts and jumping now and then. Useful for soaking the streaming path.
func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "walker-bot", "client name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	start := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s tick_rate=%d seed=%d spawn=%v",
				w.SessionID, w.WorldParams.TickRateHz, w.WorldParams.Seed, w.Spawn)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			if st.Tick%100 == 0 {
				logger.Printf("tick=%d pos=[%.2f %.2f %.2f] grounded=%v",
					st.Tick, st.Pos[0], st.Pos[1], st.Pos[2], st.Grounded)
			}
			_ = conn.WriteJSON(walkInput(time.Since(start)))

		case protocol.TypeChunkAdd:
			var ca protocol.ChunkAddMsg
			if err := json.Unmarshal(msg, &ca); err != nil {
				continue
			}
			n := 0
			for _, b := range ca.Batches {
				n += len(b.Positions)
			}
			logger.Printf("CHUNK_ADD (%d,%d) blocks=%d", ca.CX, ca.CZ, n)

		case protocol.TypeChunkRemove:
			var cr protocol.ChunkRemoveMsg
			if err := json.Unmarshal(msg, &cr); err != nil {
				continue
			}
			logger.Printf("CHUNK_REMOVE (%d,%d)", cr.CX, cr.CZ)

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR code=%s msg=%s", e.Code, e.Message)
		}
	}
}

// walkInput turns elapsed wall time into one intent frame. The yaw sweeps a
// full circle every two minutes so the window streams over fresh chunks.
func walkInput(elapsed time.Duration) protocol.InputMsg {
	sec := elapsed.Seconds()
	return protocol.InputMsg{
		Type:            protocol.TypeInput,
		ProtocolVersion: protocol.Version,
		Forward:         true,
		Sprint:          int(sec)%20 < 5,
		Jump:            int(sec)%7 == 0 && int(sec*10)%10 == 0,
		Yaw:             math.Mod(sec/120.0, 1.0) * 2 * math.Pi,
	}
}
