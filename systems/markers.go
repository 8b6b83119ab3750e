package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/tags"
)

// StartPoints returns the world positions of every start point, in the order
// they were added to the scene.
func StartPoints(sc *scene.Scene) []mgl32.Vec3 {
	points := lo.Filter(sc.Nodes(), func(e donburi.Entity, _ int) bool {
		return sc.Has(e, tags.StartPoint)
	})
	return lo.Map(points, func(e donburi.Entity, _ int) mgl32.Vec3 {
		p, _ := sc.GlobalPosition(e)
		return p
	})
}

// FirstTarget returns the earliest added target node.
func FirstTarget(sc *scene.Scene) (donburi.Entity, bool) {
	return lo.Find(sc.Nodes(), func(e donburi.Entity) bool {
		return sc.Has(e, tags.Target)
	})
}
