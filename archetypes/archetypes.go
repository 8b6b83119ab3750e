package archetypes

import (
	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/tags"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

var (
	Platform = newArchetype(
		tags.Platform,
		components.Collider,
	)
	Actor = newArchetype(
		tags.Actor,
		components.Actor,
		components.RigidBody,
	)
	Collider = newArchetype(
		components.Collider,
	)
	Ragdoll = newArchetype(
		components.Ragdoll,
	)
	Bone = newArchetype(
		tags.Bone,
		components.RigidBody,
		components.Collider,
	)
	Probe = newArchetype(
		tags.Probe,
	)
	Absm = newArchetype(
		components.Absm,
	)
	StartPoint = newArchetype(
		tags.StartPoint,
	)
	Target = newArchetype(
		tags.Target,
	)
	Jumper = newArchetype(
		components.Jumper,
		components.Collider,
	)
	Cannon = newArchetype(
		components.Cannon,
	)
	Muzzle = newArchetype(
		tags.Muzzle,
	)
	Sound = newArchetype(
		components.Sound,
	)
	Rotator = newArchetype(
		components.Rotator,
		components.Collider,
	)
	RespawnZone = newArchetype(
		components.RespawnZone,
	)
	Projectile = newArchetype(
		components.Projectile,
		components.RigidBody,
		components.Collider,
	)
	Level = newArchetype(
		components.Level,
	)
	Group = newArchetype()
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

// Spawn creates a node carrying the archetype's components plus cs.
func (a *archetype) Spawn(g *graph.Graph, name string, parent donburi.Entity, pos mgl32.Vec3, cs ...donburi.IComponentType) *donburi.Entry {
	all := append(append([]donburi.IComponentType{}, a.components...), cs...)
	e := g.CreateNode(name, parent, pos, all...)
	return g.World.Entry(e)
}
