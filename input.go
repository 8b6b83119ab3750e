package main

import (
	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/drake/config"
	"github.com/automoto/drake/shared/messages"
)

type keyBinding struct {
	keys []ebiten.Key
}

func (b keyBinding) pressed() bool {
	for _, k := range b.keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

var (
	bindForward   = keyBinding{[]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}}
	bindBackward  = keyBinding{[]ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}}
	bindLeft      = keyBinding{[]ebiten.Key{ebiten.KeyA}}
	bindRight     = keyBinding{[]ebiten.Key{ebiten.KeyD}}
	bindJump      = keyBinding{[]ebiten.Key{ebiten.KeySpace}}
	bindTurnLeft  = keyBinding{[]ebiten.Key{ebiten.KeyQ, ebiten.KeyArrowLeft}}
	bindTurnRight = keyBinding{[]ebiten.Key{ebiten.KeyE, ebiten.KeyArrowRight}}
)

// inputReader turns the keyboard into input snapshots. Yaw accumulates
// while a turn key is held.
type inputReader struct {
	yaw float32
}

func (r *inputReader) Read() messages.InputState {
	dt := 1 / float32(ebiten.TPS())
	if bindTurnLeft.pressed() {
		r.yaw += config.Player.TurnSpeed * dt
	}
	if bindTurnRight.pressed() {
		r.yaw -= config.Player.TurnSpeed * dt
	}
	r.yaw = math32.Mod(r.yaw, 2*math32.Pi)

	return messages.InputState{
		Forward:  bindForward.pressed(),
		Backward: bindBackward.pressed(),
		Left:     bindLeft.pressed(),
		Right:    bindRight.pressed(),
		Jump:     bindJump.pressed(),
		Yaw:      r.yaw,
	}
}
