package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
)

type ActorMessageKind int

const (
	ActorRespawnAt ActorMessageKind = iota
)

// ActorMessage is addressed to the actor on node Actor. Messages are queued
// when published and handled at the start of the next tick.
type ActorMessage struct {
	Actor    donburi.Entity
	Kind     ActorMessageKind
	Position mgl32.Vec3
}

var ActorMessageEvent = events.NewEventType[ActorMessage]()

// SendActorMessage queues m for delivery on the next tick.
func SendActorMessage(sc *scene.Scene, m ActorMessage) {
	ActorMessageEvent.Publish(sc.World, m)
}

func subscribeActorMessages(sc *scene.Scene) {
	ActorMessageEvent.Subscribe(sc.World, func(_ donburi.World, m ActorMessage) {
		handleActorMessage(sc, m)
	})
}

func handleActorMessage(sc *scene.Scene, m ActorMessage) {
	a := graph.Get(sc.Graph, m.Actor, components.Actor)
	if a == nil {
		logrus.WithField("component", "actor").Debugf("dropping message for missing actor %v", m.Actor)
		return
	}
	switch m.Kind {
	case ActorRespawnAt:
		respawnAt(sc, a, m.Position)
	}
}

// respawnAt stands the actor up at rest on pos, bones included, with its air
// timer cleared.
func respawnAt(sc *scene.Scene, a *components.ActorData, pos mgl32.Vec3) {
	SetRagdollEnabled(sc, a, false)
	a.InAirTime = 0
	a.StandUpTimer = 0
	sc.SetLocalPosition(a.RigidBody, pos)
	if rb := graph.Get(sc.Graph, a.RigidBody, components.RigidBody); rb != nil {
		rb.LinVel = mgl32.Vec3{}
	}

	rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
	if rd == nil {
		return
	}
	_, rot, _ := sc.GlobalTransform(a.RigidBody)
	rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
		rb := graph.Get(sc.Graph, limb.PhysicalBone, components.RigidBody)
		if rb == nil {
			return
		}
		rb.LinVel = mgl32.Vec3{}
		sc.SetLocalPosition(limb.PhysicalBone, pos.Add(rot.Rotate(limb.Offset)))
	})
}
