package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/shared/messages"
)

// UpdatePlayers turns each player's latest input into movement.
func UpdatePlayers(sc *scene.Scene) {
	components.Player.Each(sc.World, func(entry *donburi.Entry) {
		self := entry.Entity()
		player := components.Player.Get(entry)
		actor := components.Actor.Get(entry)
		hasGround := UpdateActor(sc, actor)
		ragdolled := IsRagdollEnabled(sc, actor)

		velocity := InputVelocity(player.Input, actor.Speed)
		if player.Input.Jump && hasGround && !ragdolled {
			actor.Jump = true
			velocity[1] = cfg.Player.JumpVelocity
		}
		DoMove(sc, actor, velocity, hasGround)

		if !ragdolled {
			sc.SetLocalRotation(self, mgl32.QuatRotate(player.Input.Yaw, mgl32.Vec3{0, 1, 0}))
		}

		if absm := graph.Get(sc.Graph, player.Absm, components.Absm); absm != nil {
			absm.SetRule("Run", !player.Input.IsIdle() && !ragdolled)
			absm.SetRule("Jump", actor.Jump)
		}
	})
}

// InputVelocity converts movement keys into a horizontal velocity of the
// given speed, relative to the input's yaw. Yaw 0 looks down +Z.
func InputVelocity(in messages.InputState, speed float32) mgl32.Vec3 {
	var fwd, side float32
	if in.Forward {
		fwd++
	}
	if in.Backward {
		fwd--
	}
	if in.Left {
		side++
	}
	if in.Right {
		side--
	}
	if fwd == 0 && side == 0 {
		return mgl32.Vec3{}
	}
	sin, cos := math32.Sin(in.Yaw), math32.Cos(in.Yaw)
	forward := mgl32.Vec3{sin, 0, cos}
	left := mgl32.Vec3{cos, 0, -sin}
	return forward.Mul(fwd).Add(left.Mul(side)).Normalize().Mul(speed)
}
