package worldtest

import (
	"math"
	"testing"

	"voxelwalk.ai/internal/protocol"
)

// Two worlds with the same seed fed the same input script must agree on the
// state digest at every tick. This is the property the replay tool relies on.
func TestDigestDeterminismAcrossWorlds(t *testing.T) {
	a := NewHarness(t, DefaultConfig(9001))
	b := NewHarness(t, DefaultConfig(9001))

	for i := 0; i < 30; i++ {
		in := protocol.InputMsg{
			Forward: true,
			Sprint:  i%10 < 3,
			Jump:    i%13 == 0,
			Yaw:     math.Pi * float64(i) / 15.0,
		}
		sa := a.Step(in)
		sb := b.Step(in)
		if sa.Digest != sb.Digest {
			t.Fatalf("tick %d diverged:\n a=%s pos=%v\n b=%s pos=%v",
				i, sa.Digest, sa.Pos, sb.Digest, sb.Pos)
		}
	}
}

// A digest must follow the state: whenever two STATE messages differ in
// position, velocity or groundedness, their digests differ too.
func TestDigestTracksState(t *testing.T) {
	h := NewHarness(t, DefaultConfig(7))

	seen := map[string]protocol.StateMsg{}
	for i := 0; i < 25; i++ {
		st := h.Step(protocol.InputMsg{Forward: i%2 == 0, Jump: i%5 == 0, Yaw: float64(i) / 4})
		if prev, ok := seen[st.Digest]; ok {
			if prev.Pos != st.Pos || prev.VelY != st.VelY || prev.Grounded != st.Grounded {
				t.Fatalf("digest collision: %+v vs %+v", prev, st)
			}
		}
		seen[st.Digest] = st
	}
}
