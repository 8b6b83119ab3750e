package components

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// Limb is a node of the ragdoll bone tree.
type Limb struct {
	PhysicalBone donburi.Entity
	Offset       mgl32.Vec3 // Bone position relative to the upright body while inactive
	Children     []Limb
}

// IterateRecursive visits l and every descendant, parents first.
func (l *Limb) IterateRecursive(fn func(limb *Limb)) {
	fn(l)
	for i := range l.Children {
		l.Children[i].IterateRecursive(fn)
	}
}

type RagdollData struct {
	Active    bool
	WasActive bool // Active as of the last follower pass
	RootLimb  Limb
}

var Ragdoll = donburi.NewComponentType[RagdollData]()
