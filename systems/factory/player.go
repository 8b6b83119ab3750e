package factory

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/archetypes"
	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/navmesh"
)

// Avatar capsule dimensions
const (
	capsuleRadius     = 0.35
	capsuleHalfHeight = 0.5
)

type boneDef struct {
	name   string
	offset mgl32.Vec3
	radius float32
	parent int // Index into the bone list, -1 for the root
}

var avatarBones = []boneDef{
	{"Pelvis", mgl32.Vec3{0, -0.2, 0}, 0.2, -1},
	{"Spine", mgl32.Vec3{0, 0.25, 0}, 0.2, 0},
	{"Head", mgl32.Vec3{0, 0.7, 0}, 0.15, 1},
	{"LeftLeg", mgl32.Vec3{-0.15, -0.6, 0}, 0.12, 0},
	{"RightLeg", mgl32.Vec3{0.15, -0.6, 0}, 0.12, 0},
}

// CreatePlayer builds a player avatar and returns its root node, which is
// the actor's upright rigid body.
func CreatePlayer(g *graph.Graph, pos mgl32.Vec3) *donburi.Entry {
	root, actor, absm := createAvatar(g, "Player", pos, components.Player)
	components.Actor.SetValue(root, actor)
	components.Player.SetValue(root, components.PlayerData{Absm: absm})
	return root
}

// CreateBot builds a bot avatar. mesh may be nil.
func CreateBot(g *graph.Graph, mesh *navmesh.Shared, pos mgl32.Vec3) *donburi.Entry {
	root, actor, absm := createAvatar(g, "Bot", pos, components.Bot)
	probe, _ := g.FindChild(root.Entity(), "Probe")
	components.Actor.SetValue(root, actor)
	components.Bot.SetValue(root, components.BotData{
		Speed:        cfg.Bot.Speed,
		ProbeLocator: probe,
		Absm:         absm,
		Agent:        navmesh.NewAgent(),
		Navmesh:      mesh,
	})
	return root
}

func createAvatar(g *graph.Graph, name string, pos mgl32.Vec3, cs ...donburi.IComponentType) (*donburi.Entry, components.ActorData, donburi.Entity) {
	root := archetypes.Actor.Spawn(g, name, donburi.Null, pos, cs...)
	components.RigidBody.SetValue(root, components.RigidBodyData{
		Kind:         components.BodyDynamic,
		Mass:         1,
		GravityScale: 1,
	})

	collider := archetypes.Collider.Spawn(g, "Collider", root.Entity(), mgl32.Vec3{})
	components.Collider.SetValue(collider, components.ColliderData{
		Shape:  components.CapsuleShape(capsuleRadius, capsuleHalfHeight),
		Groups: ActorGroups,
	})

	archetypes.Probe.Spawn(g, "Probe", root.Entity(), mgl32.Vec3{0, 0, cfg.Bot.ProbeOffset})
	absm := archetypes.Absm.Spawn(g, "Absm", root.Entity(), mgl32.Vec3{})
	components.Absm.SetValue(absm, components.AbsmData{Rules: map[string]bool{"Run": false, "Jump": false}})

	ragdoll := createRagdoll(g, root.Entity(), pos)

	actor := components.NewActor()
	actor.Collider = collider.Entity()
	actor.RigidBody = root.Entity()
	actor.Ragdoll = ragdoll.Entity()
	return root, actor, absm.Entity()
}

// createRagdoll adds the bone bodies under a Ragdoll node. Bones start
// kinematic at their offsets from the body; the ragdoll follower takes over
// from there.
func createRagdoll(g *graph.Graph, body donburi.Entity, bodyPos mgl32.Vec3) *donburi.Entry {
	ragdoll := archetypes.Ragdoll.Spawn(g, "Ragdoll", body, mgl32.Vec3{})

	bones := make([]donburi.Entity, len(avatarBones))
	for i, def := range avatarBones {
		bone := archetypes.Bone.Spawn(g, def.name, ragdoll.Entity(), bodyPos.Add(def.offset))
		components.RigidBody.SetValue(bone, components.RigidBodyData{
			Kind:         components.BodyKinematic,
			Mass:         0.2,
			GravityScale: 1,
		})
		components.Collider.SetValue(bone, components.ColliderData{
			Shape:  components.BallShape(def.radius),
			Groups: RagdollGroups,
		})
		bones[i] = bone.Entity()
	}

	var limb func(i int) components.Limb
	limb = func(i int) components.Limb {
		l := components.Limb{PhysicalBone: bones[i], Offset: avatarBones[i].offset}
		for j, def := range avatarBones {
			if def.parent == i {
				l.Children = append(l.Children, limb(j))
			}
		}
		return l
	}
	root := limb(0)

	components.Ragdoll.SetValue(ragdoll, components.RagdollData{RootLimb: root})
	return ragdoll
}
