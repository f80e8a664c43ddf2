package movement

// Intent is one tick of movement input. Jump is edge-triggered: the input
// source sets it on the tick the key went down and the solver consumes it
// exactly once whether or not the jump fires.
type Intent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Sprint   bool
	Jump     bool
}

func (in Intent) moveAxes() (ix, iz float64) {
	if in.Right {
		ix++
	}
	if in.Left {
		ix--
	}
	if in.Forward {
		iz++
	}
	if in.Backward {
		iz--
	}
	return ix, iz
}
