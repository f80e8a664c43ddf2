package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
	BlockPalette    Palette     `json:"block_palette"`
	Spawn           [3]float64  `json:"spawn"`
}

type WorldParams struct {
	TickRateHz   int   `json:"tick_rate_hz"`
	ChunkSize    int   `json:"chunk_size"`
	MaxHeight    int   `json:"max_height"`
	BaseHeight   int   `json:"base_height"`
	WaterLevel   int   `json:"water_level"`
	ViewDistance int   `json:"view_distance"`
	Seed         int64 `json:"seed"`
}

// Palette maps palette ids (array index) to opaque material handles. The
// server never interprets the handles; clients feed them to their material
// provider.
type Palette struct {
	Digest    string   `json:"digest"`
	Blocks    []string `json:"blocks"`
	Materials []string `json:"materials"`
}

// INPUT (client -> server): one tick of movement intent. Jump is
// edge-triggered.
type InputMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Forward         bool    `json:"forward,omitempty"`
	Backward        bool    `json:"backward,omitempty"`
	Left            bool    `json:"left,omitempty"`
	Right           bool    `json:"right,omitempty"`
	Sprint          bool    `json:"sprint,omitempty"`
	Jump            bool    `json:"jump,omitempty"`
	Yaw             float64 `json:"yaw"`
}

// STATE (server -> client): the avatar after one tick.
type StateMsg struct {
	Type     string     `json:"type"`
	Tick     uint64     `json:"tick"`
	Pos      [3]float64 `json:"pos"`
	VelY     float64    `json:"vel_y"`
	Grounded bool       `json:"grounded"`
	Digest   string     `json:"digest"`
}

// CHUNK_ADD (server -> client): instance-placement batches for one chunk,
// grouped by palette id. Positions are unit-cube block coordinates.
type ChunkAddMsg struct {
	Type    string       `json:"type"`
	Tick    uint64       `json:"tick"`
	CX      int          `json:"cx"`
	CZ      int          `json:"cz"`
	Batches []ChunkBatch `json:"batches"`
}

type ChunkBatch struct {
	Block     uint16   `json:"block"`
	Positions [][3]int `json:"positions"`
}

// CHUNK_REMOVE (server -> client)
type ChunkRemoveMsg struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`
	CX   int    `json:"cx"`
	CZ   int    `json:"cz"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
