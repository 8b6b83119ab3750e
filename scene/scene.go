// Package scene ties a scene graph to its physics world, navigation mesh and
// the ECS pipeline that runs scripts every tick.
package scene

import (
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"

	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/navmesh"
	"github.com/automoto/drake/physics"
)

// Script is a per-tick system with access to the whole scene.
type Script func(sc *Scene)

type Scene struct {
	*graph.Graph

	Path    string
	ECS     *ecs.ECS
	Physics *physics.World
	Navmesh *navmesh.Shared // nil when the level has no walkable geometry

	dt   float32
	tick uint64
}

func New(path string) *Scene {
	g := graph.New()
	return &Scene{
		Graph:   g,
		Path:    path,
		ECS:     ecs.NewECS(g.World),
		Physics: physics.NewWorld(),
	}
}

// AddSystem appends a script to the tick pipeline.
func (sc *Scene) AddSystem(s Script) {
	sc.ECS.AddSystem(func(*ecs.ECS) { s(sc) })
}

// Update runs one tick: deferred script messages are delivered, scripts run
// in registration order, then physics steps.
func (sc *Scene) Update(dt float32) {
	sc.dt = dt
	sc.tick++
	sc.DeliverMessages()
	sc.ECS.Update()
	sc.Physics.Step(sc.Graph, dt)
}

// DeliverMessages hands queued script messages to their subscribers.
func (sc *Scene) DeliverMessages() {
	events.ProcessAllEvents(sc.World)
}

// DT returns the length of the current tick in seconds.
func (sc *Scene) DT() float32 {
	return sc.dt
}

// SetDT sets the tick length seen by scripts run outside Update.
func (sc *Scene) SetDT(dt float32) {
	sc.dt = dt
}

// Tick returns the number of updates run so far.
func (sc *Scene) Tick() uint64 {
	return sc.tick
}
