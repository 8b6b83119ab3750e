package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/physics"
	"github.com/automoto/drake/scene"
)

// ActorHasGroundContact reports whether the actor's collider, or any collider
// of a ragdoll bone, touches something.
func ActorHasGroundContact(sc *scene.Scene, a *components.ActorData) bool {
	return HasGroundContact(sc, a.Collider) || ragdollHasGroundContact(sc, a)
}

func ragdollHasGroundContact(sc *scene.Scene, a *components.ActorData) bool {
	rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
	if rd == nil {
		return false
	}
	result := false
	rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
		if result || !sc.Has(limb.PhysicalBone, components.RigidBody) {
			return
		}
		sc.Walk(limb.PhysicalBone, func(n donburi.Entity) {
			if !result && HasGroundContact(sc, n) {
				// Colliders of child bones belong to their own limb
				if body, _ := sc.BodyOf(n); body == limb.PhysicalBone {
					result = true
				}
			}
		})
	})
	return result
}

// SetRagdollEnabled toggles the ragdoll. No-op when the actor has none.
func SetRagdollEnabled(sc *scene.Scene, a *components.ActorData, enabled bool) {
	if rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll); rd != nil {
		rd.Active = enabled
	}
}

func IsRagdollEnabled(sc *scene.Scene, a *components.ActorData) bool {
	rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
	return rd != nil && rd.Active
}

// ForEachRigidBody calls fn on the upright body, then on every bone body of
// the ragdoll.
func ForEachRigidBody(sc *scene.Scene, a *components.ActorData, fn func(rb *components.RigidBodyData)) {
	handles := []donburi.Entity{a.RigidBody}
	if rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll); rd != nil {
		rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
			handles = append(handles, limb.PhysicalBone)
		})
	}
	sc.MultiBorrow(handles, func(_ donburi.Entity, rb *components.RigidBodyData) {
		fn(rb)
	})
}

// SetVelocity sets the linear velocity of every body. With xzOnly the
// current Y velocity is kept so gravity keeps acting.
func SetVelocity(sc *scene.Scene, a *components.ActorData, v mgl32.Vec3, xzOnly bool) {
	ForEachRigidBody(sc, a, func(rb *components.RigidBodyData) {
		if xzOnly {
			rb.LinVel = mgl32.Vec3{v.X(), rb.LinVel.Y(), v.Z()}
		} else {
			rb.LinVel = v
		}
	})
}

// AddForce applies f to every body whose horizontal speed is still below
// maxSpeed. Knockback is not capped.
func AddForce(sc *scene.Scene, a *components.ActorData, f mgl32.Vec3, maxSpeed float32) {
	ForEachRigidBody(sc, a, func(rb *components.RigidBodyData) {
		if physics.HorizontalSpeed(rb.LinVel) < maxSpeed {
			rb.ApplyForce(f)
		}
	})
}

// DoMove drives the actor towards velocity: directly while standing on the
// ground, through weaker capped forces while airborne or ragdolled.
func DoMove(sc *scene.Scene, a *components.ActorData, velocity mgl32.Vec3, hasGroundContact bool) {
	if hasGroundContact && !IsRagdollEnabled(sc, a) {
		SetVelocity(sc, a, velocity, !a.Jump)
		return
	}
	AddForce(sc, a, velocity.Mul(cfg.Actor.AirControlScale), a.Speed)
}

// HasSeriousImpact reports whether any active manifold on the actor's
// collider has a high relative velocity between its two bodies or a strong
// contact impulse. Contacts with static geometry never count.
func HasSeriousImpact(sc *scene.Scene, a *components.ActorData) bool {
	if !sc.Has(a.Collider, components.Collider) {
		return false
	}
	for _, pair := range sc.Physics.Contacts(a.Collider) {
		if !pair.HasAnyActiveContact {
			continue
		}
		for _, m := range pair.Manifolds {
			rb1 := graph.Get(sc.Graph, m.RigidBody1, components.RigidBody)
			rb2 := graph.Get(sc.Graph, m.RigidBody2, components.RigidBody)
			if rb1 == nil || rb2 == nil {
				continue
			}
			if rb1.LinVel.Sub(rb2.LinVel).Len() > cfg.Actor.ImpactVelocity {
				return true
			}
			for _, p := range m.Points {
				if p.Impulse > cfg.Actor.ImpactImpulse {
					return true
				}
			}
		}
	}
	return false
}

// UpdateActor runs the upright/ragdoll state machine for one tick and
// returns whether the actor had ground contact.
func UpdateActor(sc *scene.Scene, a *components.ActorData) bool {
	dt := sc.DT()
	hasGround := ActorHasGroundContact(sc, a)
	if hasGround {
		a.InAirTime = 0
		a.StandUpTimer += dt
		if a.StandUpTimer >= a.StandUpInterval {
			SetRagdollEnabled(sc, a, false)
		}
	} else {
		a.InAirTime += dt
		a.StandUpTimer = 0
		if !cfg.Debug.DisableRagdoll && a.InAirTime >= a.MaxInAirTime {
			SetRagdollEnabled(sc, a, true)
		}
	}
	if HasSeriousImpact(sc, a) {
		a.InAirTime = cfg.Actor.ForcedAirTime
	}
	a.Jump = false
	return hasGround
}

// UpdateActors runs actors that have neither a player nor a bot controller.
func UpdateActors(sc *scene.Scene) {
	components.Actor.Each(sc.World, func(entry *donburi.Entry) {
		if entry.HasComponent(components.Player) || entry.HasComponent(components.Bot) {
			return
		}
		UpdateActor(sc, components.Actor.Get(entry))
	})
}
