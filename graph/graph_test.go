package graph

import (
	"testing"

	"github.com/automoto/drake/components"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

func TestGlobalTransformStopsAtRigidBody(t *testing.T) {
	g := New()
	root := g.CreateNode("root", donburi.Null, mgl32.Vec3{10, 0, 0})
	body := g.CreateNode("body", root, mgl32.Vec3{1, 2, 3}, components.RigidBody)
	child := g.CreateNode("child", body, mgl32.Vec3{0, 0, 1})
	g.SetLocalRotation(body, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))

	if p, _ := g.GlobalPosition(body); p != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("body position = %v, want world-space local position", p)
	}

	p, _ := g.GlobalPosition(child)
	want := mgl32.Vec3{2, 2, 3}
	if p.Sub(want).Len() > 1e-5 {
		t.Fatalf("child position = %v, want %v", p, want)
	}
}

func TestRemoveDropsSubtreeAndIndex(t *testing.T) {
	g := New()
	root := g.CreateNode("root", donburi.Null, mgl32.Vec3{})
	child := g.CreateNode("child", root, mgl32.Vec3{})
	other := g.CreateNode("other", donburi.Null, mgl32.Vec3{})

	id := uuid.New()
	g.SetInstanceID(child, id)
	if e, ok := g.NodeByID(id); !ok || e != child {
		t.Fatalf("NodeByID = %v, %v", e, ok)
	}

	g.Remove(root)

	if g.Valid(root) || g.Valid(child) {
		t.Fatal("subtree still valid after Remove")
	}
	if _, ok := g.NodeByID(id); ok {
		t.Fatal("instance id still indexed after Remove")
	}
	if g.Len() != 1 || !g.Valid(other) {
		t.Fatalf("Len = %d, want only the unrelated node", g.Len())
	}
	if _, ok := g.Node(root); ok {
		t.Fatal("dangling handle resolved")
	}
}

func TestMultiBorrowDedupsAndSkipsDangling(t *testing.T) {
	g := New()
	a := g.CreateNode("a", donburi.Null, mgl32.Vec3{}, components.RigidBody)
	b := g.CreateNode("b", donburi.Null, mgl32.Vec3{}, components.RigidBody)
	plain := g.CreateNode("plain", donburi.Null, mgl32.Vec3{})
	gone := g.CreateNode("gone", donburi.Null, mgl32.Vec3{}, components.RigidBody)
	g.Remove(gone)

	var visited []donburi.Entity
	g.MultiBorrow([]donburi.Entity{a, b, a, plain, gone, donburi.Null}, func(e donburi.Entity, rb *components.RigidBodyData) {
		rb.LinVel = mgl32.Vec3{1, 0, 0}
		visited = append(visited, e)
	})

	if len(visited) != 2 || visited[0] != a || visited[1] != b {
		t.Fatalf("visited = %v, want [a b]", visited)
	}
	if v := Get(g, b, components.RigidBody).LinVel; v != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("velocity not written through borrow: %v", v)
	}
}

func TestBodyOfWalksUp(t *testing.T) {
	g := New()
	body := g.CreateNode("body", donburi.Null, mgl32.Vec3{}, components.RigidBody)
	collider := g.CreateNode("collider", body, mgl32.Vec3{}, components.Collider)
	loose := g.CreateNode("loose", donburi.Null, mgl32.Vec3{}, components.Collider)

	if b, ok := g.BodyOf(collider); !ok || b != body {
		t.Fatalf("BodyOf(collider) = %v, %v", b, ok)
	}
	if _, ok := g.BodyOf(loose); ok {
		t.Fatal("static collider reported a body")
	}
}
