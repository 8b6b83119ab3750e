package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/physics"
	"github.com/automoto/drake/scene"
)

// HasGroundContact reports whether collider has any active contact manifold.
func HasGroundContact(sc *scene.Scene, collider donburi.Entity) bool {
	if !sc.Has(collider, components.Collider) {
		return false
	}
	for _, pair := range sc.Physics.Contacts(collider) {
		if pair.HasAnyActiveContact {
			return true
		}
	}
	return false
}

// ProbeGround casts a ray straight down from origin and returns the nearest
// hit on static level geometry (trimesh colliders). Bodies and capsules
// along the way are ignored.
func ProbeGround(sc *scene.Scene, origin mgl32.Vec3, maxHeight float32) (mgl32.Vec3, bool) {
	hits := sc.Physics.CastRay(sc.Graph, physics.RayCastOptions{
		Origin:      origin,
		Direction:   mgl32.Vec3{0, -1, 0},
		MaxLen:      maxHeight,
		SortResults: true,
	})
	for _, hit := range hits {
		if hit.Shape == components.ShapeTrimesh {
			return hit.Position, true
		}
	}
	return mgl32.Vec3{}, false
}
