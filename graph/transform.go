package graph

import (
	"github.com/automoto/drake/components"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// GlobalTransform returns the world position and rotation of a node. Rigid
// bodies are simulated in world space, so their local transform is global
// and the walk stops there.
func (g *Graph) GlobalTransform(e donburi.Entity) (mgl32.Vec3, mgl32.Quat, bool) {
	entry, ok := g.Entry(e)
	if !ok {
		return mgl32.Vec3{}, mgl32.QuatIdent(), false
	}
	node := components.Node.Get(entry)
	if entry.HasComponent(components.RigidBody) || !g.Valid(node.Parent) {
		return node.Position, node.Rotation, true
	}
	pp, pr, _ := g.GlobalTransform(node.Parent)
	return pp.Add(pr.Rotate(node.Position)), pr.Mul(node.Rotation).Normalize(), true
}

// GlobalPosition returns the world position of a node.
func (g *Graph) GlobalPosition(e donburi.Entity) (mgl32.Vec3, bool) {
	p, _, ok := g.GlobalTransform(e)
	return p, ok
}

// SetLocalPosition moves a node relative to its parent.
func (g *Graph) SetLocalPosition(e donburi.Entity, p mgl32.Vec3) {
	if node, ok := g.Node(e); ok {
		node.Position = p
	}
}

// SetLocalRotation rotates a node relative to its parent.
func (g *Graph) SetLocalRotation(e donburi.Entity, q mgl32.Quat) {
	if node, ok := g.Node(e); ok {
		node.Rotation = q
	}
}

// BodyOf returns the rigid body that owns node e: e itself or its nearest
// ancestor carrying a rigid body.
func (g *Graph) BodyOf(e donburi.Entity) (donburi.Entity, bool) {
	for g.Valid(e) {
		entry := g.World.Entry(e)
		if entry.HasComponent(components.RigidBody) {
			return e, true
		}
		e = components.Node.Get(entry).Parent
	}
	return donburi.Null, false
}
