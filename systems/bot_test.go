package systems

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/navmesh"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/systems/factory"
)

type botSample struct {
	jump     bool
	yVel     float32
	grounded bool
	locatorZ float32
	run      bool
	standUp  float32
	forward  mgl32.Vec3
}

// recordBot samples the bot after scripts ran and before physics stepped.
func recordBot(sc *scene.Scene, bot donburi.Entity, out *[]botSample) {
	sc.AddSystem(func(sc *scene.Scene) {
		a := graph.Get(sc.Graph, bot, components.Actor)
		b := graph.Get(sc.Graph, bot, components.Bot)
		rb := graph.Get(sc.Graph, bot, components.RigidBody)
		loc, _ := sc.GlobalPosition(b.ProbeLocator)
		node, _ := sc.Node(bot)
		absm := graph.Get(sc.Graph, b.Absm, components.Absm)
		*out = append(*out, botSample{
			jump:     a.Jump,
			yVel:     rb.LinVel.Y(),
			grounded: HasGroundContact(sc, a.Collider),
			locatorZ: loc.Z(),
			run:      absm.Rule("Run"),
			standUp:  a.StandUpTimer,
			forward:  node.Rotation.Rotate(mgl32.Vec3{0, 0, 1}),
		})
	})
}

func TestBotJumpsOverGap(t *testing.T) {
	sc := newTestScene()
	// Upper platform ends at z=0; the ground beyond is 9 units lower
	factory.CreatePlatform(sc.Graph, donburi.Null, "upper", mgl32.Vec3{0, -0.5, -5}, mgl32.Vec3{5, 0.5, 5})
	factory.CreatePlatform(sc.Graph, donburi.Null, "lower", mgl32.Vec3{0, -9.5, 10}, mgl32.Vec3{5, 0.5, 10})
	factory.CreateTarget(sc.Graph, donburi.Null, mgl32.Vec3{0, -9, 10})
	bot := factory.CreateBot(sc.Graph, nil, mgl32.Vec3{0, 0.85, -1}).Entity()

	var samples []botSample
	recordBot(sc, bot, &samples)

	jumpAt := -1
	for i := 0; i < 120 && jumpAt < 0; i++ {
		sc.Update(testDT)
		if samples[i].jump {
			jumpAt = i
		}
	}
	if jumpAt < 0 {
		t.Fatal("bot never jumped")
	}

	s := samples[jumpAt]
	if s.yVel != cfg.Bot.JumpVelocity {
		t.Errorf("Y velocity on jump = %v, want %v", s.yVel, cfg.Bot.JumpVelocity)
	}
	if s.locatorZ <= 0 {
		t.Errorf("jumped with the locator still over the platform (z=%v)", s.locatorZ)
	}
	for _, prev := range samples[:jumpAt] {
		if prev.grounded && prev.jump {
			t.Fatal("jumped early over flat ground")
		}
	}
}

func TestBotStaysGroundedOnFlatFloor(t *testing.T) {
	sc := newTestScene()
	factory.CreatePlatform(sc.Graph, donburi.Null, "floor", mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{20, 0.5, 20})
	factory.CreateTarget(sc.Graph, donburi.Null, mgl32.Vec3{0, 0, 10})
	bot := factory.CreateBot(sc.Graph, nil, mgl32.Vec3{0, 0.85, 0}).Entity()

	var samples []botSample
	recordBot(sc, bot, &samples)
	for i := 0; i < 60; i++ {
		sc.Update(testDT)
	}

	grounded := 0
	for i, s := range samples {
		if s.jump {
			t.Fatalf("tick %d: bot jumped on flat ground", i)
		}
		if s.grounded {
			grounded++
		}
	}
	if grounded < 50 {
		t.Errorf("grounded on %d of %d ticks", grounded, len(samples))
	}
}

func TestBotStopsNearTarget(t *testing.T) {
	sc := newTestScene()
	factory.CreatePlatform(sc.Graph, donburi.Null, "floor", mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{20, 0.5, 20})
	factory.CreateTarget(sc.Graph, donburi.Null, mgl32.Vec3{0.5, 0.85, 0})
	bot := factory.CreateBot(sc.Graph, nil, mgl32.Vec3{0, 0.85, 0}).Entity()

	sc.Update(testDT)
	sc.Update(testDT)

	rb := graph.Get(sc.Graph, bot, components.RigidBody)
	if h := math32.Hypot(rb.LinVel.X(), rb.LinVel.Z()); h > 1e-3 {
		t.Fatalf("horizontal speed %v within arrive distance", h)
	}
	absm := graph.Get(sc.Graph, graph.Get(sc.Graph, bot, components.Bot).Absm, components.Absm)
	if absm.Rule("Run") {
		t.Error("Run rule set while standing at the target")
	}
}

func TestBotFollowsNavmesh(t *testing.T) {
	sc := newTestScene()
	factory.CreatePlatform(sc.Graph, donburi.Null, "floor", mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{20, 0.5, 20})
	factory.CreateTarget(sc.Graph, donburi.Null, mgl32.Vec3{10, 0, 0})
	mesh := navmesh.NewShared(navmesh.New([]navmesh.Rect{{
		Min: mgl32.Vec2{-20, -20}, Max: mgl32.Vec2{20, 20},
	}}))
	bot := factory.CreateBot(sc.Graph, mesh, mgl32.Vec3{0, 0.85, 0}).Entity()

	var samples []botSample
	recordBot(sc, bot, &samples)
	for i := 0; i < 30; i++ {
		sc.Update(testDT)
	}

	pos, _ := sc.GlobalPosition(bot)
	if pos.X() <= 0.1 {
		t.Fatalf("bot did not move towards the target: %v", pos)
	}

	var ranAirborne, groundedTicks int
	for i, s := range samples {
		if s.standUp > 0 {
			groundedTicks++
			if s.run {
				t.Errorf("tick %d: Run set while standing up", i)
			}
			continue
		}
		if s.run {
			ranAirborne++
			if s.forward.X() < 0.9 {
				t.Errorf("tick %d: bot faces %v, want +X", i, s.forward)
			}
		}
	}
	if ranAirborne == 0 {
		t.Error("Run never set on an airborne tick")
	}
	if groundedTicks == 0 {
		t.Error("bot never touched the floor")
	}
}

func TestBotWithoutTargetIdles(t *testing.T) {
	sc := newTestScene()
	bot := factory.CreateBot(sc.Graph, nil, mgl32.Vec3{}).Entity()
	rb := graph.Get(sc.Graph, bot, components.RigidBody)
	rb.LinVel = mgl32.Vec3{1, 0, 0}

	sc.SetDT(testDT)
	UpdateBots(sc)
	if rb.LinVel != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("velocity changed to %v without a target", rb.LinVel)
	}
}
