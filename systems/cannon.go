package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/systems/factory"
)

// UpdateCannons counts each cannon down while idle and fires a projectile
// along the muzzle's forward axis when the cooldown runs out.
func UpdateCannons(sc *scene.Scene) {
	dt := sc.DT()
	type shot struct {
		pos, impulse mgl32.Vec3
	}
	var shots []shot

	components.Cannon.Each(sc.World, func(entry *donburi.Entry) {
		c := components.Cannon.Get(entry)
		switch c.Phase {
		case components.CannonIdle:
			c.Cooldown -= dt
			if c.Cooldown <= 0 {
				c.Phase = components.CannonShoot
			}
		case components.CannonShoot:
			muzzle := c.Muzzle
			if !sc.Valid(muzzle) {
				muzzle = entry.Entity()
			}
			pos, rot, _ := sc.GlobalTransform(muzzle)
			shots = append(shots, shot{pos: pos, impulse: rot.Rotate(mgl32.Vec3{0, 0, 1}).Mul(c.ProjectileImpulse)})
			if s := graph.Get(sc.Graph, c.ShotSound, components.Sound); s != nil {
				s.Play()
			}
			c.Cooldown = c.ShootInterval
			c.Phase = components.CannonIdle
		}
	})

	// Spawning changes archetypes, so it waits until the query is done
	for _, s := range shots {
		factory.CreateProjectile(sc.Graph, s.pos, s.impulse)
	}
}
