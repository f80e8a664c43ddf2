// Package protocol defines the JSON wire format between the walking server
// and its clients. Clients are renderers and input sources only; all world
// state is authoritative on the server.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello       = "HELLO"
	TypeWelcome     = "WELCOME"
	TypeInput       = "INPUT"
	TypeState       = "STATE"
	TypeChunkAdd    = "CHUNK_ADD"
	TypeChunkRemove = "CHUNK_REMOVE"
	TypeError       = "ERROR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
