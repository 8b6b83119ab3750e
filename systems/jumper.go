package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
)

// UpdateJumpers launches every actor touching a jumper: the Y velocity of
// the actor's body is set to the jumper's push force.
func UpdateJumpers(sc *scene.Scene) {
	actorColliders := make(map[donburi.Entity]struct{})
	components.Actor.Each(sc.World, func(entry *donburi.Entry) {
		actorColliders[components.Actor.Get(entry).Collider] = struct{}{}
	})

	components.Jumper.Each(sc.World, func(entry *donburi.Entry) {
		jumper := components.Jumper.Get(entry)
		collider := jumper.Collider
		if collider == donburi.Null {
			collider = entry.Entity()
		}

		touched := make(map[donburi.Entity]struct{})
		for _, pair := range sc.Physics.Contacts(collider) {
			for _, c := range []donburi.Entity{pair.Collider1, pair.Collider2} {
				if _, ok := actorColliders[c]; ok {
					touched[c] = struct{}{}
				}
			}
		}

		for c := range touched {
			node, ok := sc.Node(c)
			if !ok {
				continue
			}
			if rb := graph.Get(sc.Graph, node.Parent, components.RigidBody); rb != nil {
				rb.LinVel = mgl32.Vec3{rb.LinVel.X(), jumper.PushForce, rb.LinVel.Z()}
			}
		}
	})
}
