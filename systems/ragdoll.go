package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
)

// UpdateRagdolls keeps exactly one representation of each actor simulated.
// While the ragdoll is off its bones are kinematic and ride along with the
// upright body; while it is on the bones are dynamic and the body is
// kinematic, following the root bone.
func UpdateRagdolls(sc *scene.Scene) {
	components.Actor.Each(sc.World, func(entry *donburi.Entry) {
		a := components.Actor.Get(entry)
		rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
		body := graph.Get(sc.Graph, a.RigidBody, components.RigidBody)
		if rd == nil || body == nil {
			return
		}

		if rd.Active {
			if !rd.WasActive {
				body.Kind = components.BodyKinematic
				velocity := body.LinVel
				rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
					if rb := graph.Get(sc.Graph, limb.PhysicalBone, components.RigidBody); rb != nil {
						rb.Kind = components.BodyDynamic
						rb.LinVel = velocity
					}
				})
			}
			root := rd.RootLimb.PhysicalBone
			if rb := graph.Get(sc.Graph, root, components.RigidBody); rb != nil {
				p, _ := sc.GlobalPosition(root)
				sc.SetLocalPosition(a.RigidBody, p.Sub(rd.RootLimb.Offset))
				body.LinVel = rb.LinVel
			}
		} else {
			if rd.WasActive {
				body.Kind = components.BodyDynamic
			}
			pos, rot, _ := sc.GlobalTransform(a.RigidBody)
			rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
				rb := graph.Get(sc.Graph, limb.PhysicalBone, components.RigidBody)
				if rb == nil {
					return
				}
				rb.Kind = components.BodyKinematic
				rb.LinVel = body.LinVel
				sc.SetLocalPosition(limb.PhysicalBone, pos.Add(rot.Rotate(limb.Offset)))
				sc.SetLocalRotation(limb.PhysicalBone, rot)
			})
		}
		rd.WasActive = rd.Active
	})
}
