package systems

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/physics"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/shared/messages"
	"github.com/automoto/drake/systems/factory"
)

const testDT = float32(1.0 / 60)

func newTestScene() *scene.Scene {
	sc := scene.New("test")
	Install(sc)
	return sc
}

// newTestActor spawns a bare actor with a capsule and a ragdoll.
func newTestActor(sc *scene.Scene, pos mgl32.Vec3) (donburi.Entity, *components.ActorData) {
	e := factory.CreatePlayer(sc.Graph, pos).Entity()
	sc.World.Entry(e).RemoveComponent(components.Player)
	return e, graph.Get(sc.Graph, e, components.Actor)
}

// groundContact injects a contact between the actor and static geometry.
func groundContact(sc *scene.Scene, a *components.ActorData, floor donburi.Entity) {
	sc.Physics.RecordContact(physics.ContactPair{
		Collider1:           a.Collider,
		Collider2:           floor,
		HasAnyActiveContact: true,
		Manifolds: []physics.ContactManifold{{
			RigidBody1: a.RigidBody,
			RigidBody2: donburi.Null,
			Normal:     mgl32.Vec3{0, 1, 0},
			Points:     []physics.ContactPoint{{Impulse: 0.1}},
		}},
	})
}

func TestFallThenRagdoll(t *testing.T) {
	sc := newTestScene()
	body, a := newTestActor(sc, mgl32.Vec3{0, 100, 0})

	ragdollTick := -1
	for tick := 1; tick <= 72; tick++ {
		sc.Update(testDT)
		if ragdollTick < 0 && IsRagdollEnabled(sc, a) {
			ragdollTick = tick
		}
	}

	// 1.1s at 60Hz, plus or minus one tick
	if ragdollTick < 65 || ragdollTick > 67 {
		t.Fatalf("ragdoll activated on tick %d, want about 66", ragdollTick)
	}
	if kind := graph.Get(sc.Graph, body, components.RigidBody).Kind; kind != components.BodyKinematic {
		t.Errorf("upright body kind = %v, want kinematic while ragdolled", kind)
	}
}

func TestStandUp(t *testing.T) {
	sc := newTestScene()
	body, a := newTestActor(sc, mgl32.Vec3{0, 100, 0})
	for i := 0; i < 72; i++ {
		sc.Update(testDT)
	}
	if !IsRagdollEnabled(sc, a) {
		t.Fatal("precondition: ragdoll should be active")
	}

	floor := sc.CreateNode("floor", donburi.Null, mgl32.Vec3{})
	uprightTick := -1
	for tick := 1; tick <= 90; tick++ {
		groundContact(sc, a, floor)
		sc.Update(testDT)
		if a.InAirTime != 0 {
			t.Fatalf("tick %d: in-air time %v with ground contact", tick, a.InAirTime)
		}
		if !IsRagdollEnabled(sc, a) {
			uprightTick = tick
			break
		}
	}

	if uprightTick < 59 || uprightTick > 61 {
		t.Fatalf("stood up on tick %d, want about 60", uprightTick)
	}
	if kind := graph.Get(sc.Graph, body, components.RigidBody).Kind; kind != components.BodyDynamic {
		t.Errorf("upright body kind = %v, want dynamic", kind)
	}
}

func TestAirtimeGrowsWithoutContact(t *testing.T) {
	sc := newTestScene()
	_, a := newTestActor(sc, mgl32.Vec3{0, 100, 0})
	sc.SetDT(testDT)

	prev := a.InAirTime
	for i := 0; i < 10; i++ {
		UpdateActor(sc, a)
		if a.InAirTime < prev {
			t.Fatalf("in-air time went from %v to %v", prev, a.InAirTime)
		}
		if a.StandUpTimer != 0 {
			t.Fatalf("stand-up timer %v while airborne", a.StandUpTimer)
		}
		prev = a.InAirTime
	}
}

func TestDisableRagdollSetting(t *testing.T) {
	sc := newTestScene()
	_, a := newTestActor(sc, mgl32.Vec3{0, 100, 0})
	sc.SetDT(testDT)

	cfg.Debug.DisableRagdoll = true
	t.Cleanup(func() { cfg.Debug.DisableRagdoll = false })
	a.InAirTime = 5
	UpdateActor(sc, a)
	if IsRagdollEnabled(sc, a) {
		t.Fatal("ragdoll activated while disabled in debug settings")
	}
}

func TestSeriousImpact(t *testing.T) {
	sc := newTestScene()
	_, a := newTestActor(sc, mgl32.Vec3{0, 1, 0})
	sc.SetDT(testDT)

	ball := factory.CreateProjectile(sc.Graph, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{})
	ballBody := ball.Entity()

	sc.Physics.RecordContact(physics.ContactPair{
		Collider1:           a.Collider,
		Collider2:           ballBody,
		HasAnyActiveContact: true,
		Manifolds: []physics.ContactManifold{{
			RigidBody1: a.RigidBody,
			RigidBody2: ballBody,
			Points:     []physics.ContactPoint{{Impulse: 0.7}},
		}},
	})
	UpdateActor(sc, a)
	if a.InAirTime != 999 {
		t.Fatalf("in-air time = %v, want 999", a.InAirTime)
	}
	if IsRagdollEnabled(sc, a) {
		t.Fatal("ragdoll should wait for the next evaluation")
	}

	sc.Physics.ClearContacts()
	UpdateActor(sc, a)
	if !IsRagdollEnabled(sc, a) {
		t.Fatal("ragdoll not active on the tick after a serious impact")
	}
}

func TestHasSeriousImpact(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		static   bool
		relVel   float32
		impulse  float32
		expected bool
	}{
		{"gentle", true, false, 0.5, 0.5, false},
		{"strong impulse", true, false, 0, 0.7, true},
		{"fast approach", true, false, 1.5, 0, true},
		{"static geometry", true, true, 5, 5, false},
		{"inactive contact", false, false, 5, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestScene()
			_, a := newTestActor(sc, mgl32.Vec3{})
			other := factory.CreateProjectile(sc.Graph, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{}).Entity()
			graph.Get(sc.Graph, other, components.RigidBody).LinVel = mgl32.Vec3{tt.relVel, 0, 0}

			rb2 := other
			if tt.static {
				rb2 = donburi.Null
			}
			sc.Physics.RecordContact(physics.ContactPair{
				Collider1:           a.Collider,
				Collider2:           other,
				HasAnyActiveContact: tt.active,
				Manifolds: []physics.ContactManifold{{
					RigidBody1: a.RigidBody,
					RigidBody2: rb2,
					Points:     []physics.ContactPoint{{Impulse: tt.impulse}},
				}},
			})
			if got := HasSeriousImpact(sc, a); got != tt.expected {
				t.Fatalf("HasSeriousImpact = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJumpFlagClearedByUpdate(t *testing.T) {
	sc := newTestScene()
	_, a := newTestActor(sc, mgl32.Vec3{})
	sc.SetDT(testDT)
	floor := sc.CreateNode("floor", donburi.Null, mgl32.Vec3{})

	for _, grounded := range []bool{true, false} {
		if grounded {
			groundContact(sc, a, floor)
		}
		a.Jump = true
		UpdateActor(sc, a)
		if a.Jump {
			t.Fatalf("jump flag survived an update (grounded=%v)", grounded)
		}
		sc.Physics.ClearContacts()
	}
}

func TestDoMove(t *testing.T) {
	tests := []struct {
		name      string
		ragdoll   bool
		grounded  bool
		jump      bool
		wantVel   mgl32.Vec3
		wantForce bool
	}{
		{"grounded keeps Y", false, true, false, mgl32.Vec3{1, -2, 3}, false},
		{"grounded jump sets Y", false, true, true, mgl32.Vec3{1, 5, 3}, false},
		{"airborne uses force", false, false, false, mgl32.Vec3{0, -2, 0}, true},
		{"ragdolled never sets velocity", true, true, false, mgl32.Vec3{0, -2, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestScene()
			body, a := newTestActor(sc, mgl32.Vec3{})
			rb := graph.Get(sc.Graph, body, components.RigidBody)
			rb.LinVel = mgl32.Vec3{0, -2, 0}
			SetRagdollEnabled(sc, a, tt.ragdoll)
			a.Jump = tt.jump

			DoMove(sc, a, mgl32.Vec3{1, 5, 3}, tt.grounded)

			if rb.LinVel != tt.wantVel {
				t.Errorf("velocity = %v, want %v", rb.LinVel, tt.wantVel)
			}
			if got := rb.Force != (mgl32.Vec3{}); got != tt.wantForce {
				t.Errorf("force applied = %v, want %v", got, tt.wantForce)
			}
		})
	}
}

func TestSetVelocityReachesEveryBone(t *testing.T) {
	sc := newTestScene()
	_, a := newTestActor(sc, mgl32.Vec3{})
	ForEachRigidBody(sc, a, func(rb *components.RigidBodyData) {
		rb.LinVel = mgl32.Vec3{0, -3, 0}
	})

	SetVelocity(sc, a, mgl32.Vec3{1, 5, 2}, true)

	n := 0
	ForEachRigidBody(sc, a, func(rb *components.RigidBodyData) {
		n++
		if rb.LinVel != (mgl32.Vec3{1, -3, 2}) {
			t.Errorf("body velocity = %v, want (1,-3,2)", rb.LinVel)
		}
	})
	if n != 6 {
		t.Errorf("visited %d bodies, want body plus 5 bones", n)
	}
}

func TestAddForceCapsSelfPropulsion(t *testing.T) {
	sc := newTestScene()
	body, a := newTestActor(sc, mgl32.Vec3{})
	rb := graph.Get(sc.Graph, body, components.RigidBody)
	rb.LinVel = mgl32.Vec3{5, 0, 0}

	AddForce(sc, a, mgl32.Vec3{1, 0, 0}, a.Speed)

	if rb.Force != (mgl32.Vec3{}) {
		t.Errorf("force applied to body already at %v", physics.HorizontalSpeed(rb.LinVel))
	}
	bones := 0
	ForEachRigidBody(sc, a, func(b *components.RigidBodyData) {
		if b.Force != (mgl32.Vec3{}) {
			bones++
		}
	})
	if bones != 5 {
		t.Errorf("force applied to %d resting bones, want 5", bones)
	}
}

func TestRespawnAtMessage(t *testing.T) {
	sc := newTestScene()
	body, a := newTestActor(sc, mgl32.Vec3{5, -20, 5})
	for range 72 {
		sc.Update(testDT)
	}
	if !IsRagdollEnabled(sc, a) {
		t.Fatal("actor not ragdolled after a long fall")
	}

	want := mgl32.Vec3{0, 10, 0}
	SendActorMessage(sc, ActorMessage{Actor: body, Kind: ActorRespawnAt, Position: want})
	if node, _ := sc.Node(body); node.Position == want {
		t.Fatal("message delivered before the next tick")
	}

	sc.Update(testDT)
	if IsRagdollEnabled(sc, a) {
		t.Error("ragdoll active after respawn")
	}
	if a.InAirTime >= a.MaxInAirTime {
		t.Errorf("air time %v not cleared", a.InAirTime)
	}
	pos, _ := sc.GlobalPosition(body)
	if pos.Sub(want).Len() > 0.05 {
		t.Errorf("body at %v, want %v", pos, want)
	}
	rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
	rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
		bone, _ := sc.GlobalPosition(limb.PhysicalBone)
		if bone.Sub(pos.Add(limb.Offset)).Len() > 0.05 {
			t.Errorf("bone at %v left behind, body at %v", bone, pos)
		}
	})
}

func TestRespawnToDeadActorIsNoop(t *testing.T) {
	sc := newTestScene()
	body, _ := newTestActor(sc, mgl32.Vec3{})
	sc.Remove(body)
	SendActorMessage(sc, ActorMessage{Actor: body, Kind: ActorRespawnAt})
	sc.DeliverMessages()
}

func TestRagdollFollower(t *testing.T) {
	sc := newTestScene()
	body, a := newTestActor(sc, mgl32.Vec3{0, 5, 0})
	rb := graph.Get(sc.Graph, body, components.RigidBody)
	rb.LinVel = mgl32.Vec3{2, 0, 0}

	SetRagdollEnabled(sc, a, true)
	UpdateRagdolls(sc)
	if rb.Kind != components.BodyKinematic {
		t.Fatal("upright body still dynamic with the ragdoll on")
	}
	rd := graph.Get(sc.Graph, a.Ragdoll, components.Ragdoll)
	rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
		bone := graph.Get(sc.Graph, limb.PhysicalBone, components.RigidBody)
		if bone.Kind != components.BodyDynamic || bone.LinVel != (mgl32.Vec3{2, 0, 0}) {
			t.Errorf("bone %+v did not take over the body's motion", bone)
		}
	})

	SetRagdollEnabled(sc, a, false)
	sc.SetLocalPosition(body, mgl32.Vec3{0, 3, 0})
	UpdateRagdolls(sc)
	if rb.Kind != components.BodyDynamic {
		t.Fatal("upright body not restored")
	}
	rd.RootLimb.IterateRecursive(func(limb *components.Limb) {
		pos, _ := sc.GlobalPosition(limb.PhysicalBone)
		want := mgl32.Vec3{0, 3, 0}.Add(limb.Offset)
		if pos.Sub(want).Len() > 1e-5 {
			t.Errorf("bone at %v, want %v", pos, want)
		}
	})
}

func TestInputVelocity(t *testing.T) {
	tests := []struct {
		name string
		yaw  float32
		keys func(*messages.InputState)
		want mgl32.Vec3
	}{
		{"idle", 0, func(*messages.InputState) {}, mgl32.Vec3{}},
		{"forward", 0, func(k *messages.InputState) { k.Forward = true }, mgl32.Vec3{0, 0, 4}},
		{"forward turned", math32.Pi / 2, func(k *messages.InputState) { k.Forward = true }, mgl32.Vec3{4, 0, 0}},
		{"left", 0, func(k *messages.InputState) { k.Left = true }, mgl32.Vec3{4, 0, 0}},
		{"opposite keys cancel", 0, func(k *messages.InputState) { k.Forward, k.Backward = true, true }, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k messages.InputState
			tt.keys(&k)
			k.Yaw = tt.yaw
			got := InputVelocity(k, 4)
			if got.Sub(tt.want).Len() > 1e-5 {
				t.Fatalf("velocity = %v, want %v", got, tt.want)
			}
		})
	}
}
