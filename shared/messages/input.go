package messages

// InputState is the latest control snapshot for one avatar. Yaw is the facing
// angle in radians around +Y, with 0 facing +Z.
type InputState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Yaw      float32
}

// IsIdle reports whether no movement key is held.
func (s InputState) IsIdle() bool {
	return !s.Forward && !s.Backward && !s.Left && !s.Right && !s.Jump
}
