package graph

import (
	"github.com/automoto/drake/components"
	"github.com/yohamta/donburi"
)

// MultiBorrow resolves a set of handles up front and then calls fn once per
// distinct live rigid body. Duplicate and dangling handles are skipped, so fn
// never sees the same body twice within one borrow.
func (g *Graph) MultiBorrow(handles []donburi.Entity, fn func(e donburi.Entity, rb *components.RigidBodyData)) {
	seen := make(map[donburi.Entity]struct{}, len(handles))
	bodies := make([]donburi.Entity, 0, len(handles))
	for _, h := range handles {
		if _, dup := seen[h]; dup || !g.Has(h, components.RigidBody) {
			continue
		}
		seen[h] = struct{}{}
		bodies = append(bodies, h)
	}
	for _, h := range bodies {
		fn(h, components.RigidBody.Get(g.World.Entry(h)))
	}
}
