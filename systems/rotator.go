package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/scene"
)

// UpdateRotators spins rotator obstacles around Y.
func UpdateRotators(sc *scene.Scene) {
	dt := sc.DT()
	components.Rotator.Each(sc.World, func(entry *donburi.Entry) {
		r := components.Rotator.Get(entry)
		node := components.Node.Get(entry)
		spin := mgl32.QuatRotate(r.RotationSpeed*dt, mgl32.Vec3{0, 1, 0})
		node.Rotation = spin.Mul(node.Rotation).Normalize()
	})
}
