package components

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// NodeData is carried by every scene node. Position and Rotation are local to
// Parent, except for rigid bodies which are simulated in world space.
type NodeData struct {
	Name       string
	InstanceID uuid.UUID
	Parent     donburi.Entity
	Children   []donburi.Entity
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
}

var Node = donburi.NewComponentType[NodeData]()
