package components

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// BodyKind selects how the physics step treats a rigid body.
type BodyKind int

const (
	BodyDynamic   BodyKind = iota // Integrated and resolved against contacts
	BodyKinematic                 // Moved by scripts only
)

type RigidBodyData struct {
	Kind         BodyKind
	Mass         float32
	GravityScale float32
	LinVel       mgl32.Vec3
	Force        mgl32.Vec3 // Accumulated until the next physics step
}

// ApplyForce accumulates f for the next step.
func (rb *RigidBodyData) ApplyForce(f mgl32.Vec3) {
	rb.Force = rb.Force.Add(f)
}

// ApplyImpulse changes velocity immediately.
func (rb *RigidBodyData) ApplyImpulse(j mgl32.Vec3) {
	if rb.Mass <= 0 {
		return
	}
	rb.LinVel = rb.LinVel.Add(j.Mul(1 / rb.Mass))
}

var RigidBody = donburi.NewComponentType[RigidBodyData]()

// ShapeKind is the geometric shape of a collider.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCapsule
	ShapeBall
	ShapeTrimesh
)

// Triangle is a trimesh face in collider-local space.
type Triangle [3]mgl32.Vec3

type ColliderShape struct {
	Kind        ShapeKind
	HalfExtents mgl32.Vec3 // Box
	Radius      float32    // Ball, Capsule
	HalfHeight  float32    // Capsule, excluding the caps
	Triangles   []Triangle // Trimesh
}

// Interaction group bits
const (
	GroupStatic uint32 = 1 << iota
	GroupActor
	GroupRagdoll
	GroupProjectile
	GroupTrigger

	GroupAll uint32 = 0xFFFFFFFF
)

// InteractionGroups decides which collider pairs generate contacts: both
// sides must have a membership bit in the other's filter.
type InteractionGroups struct {
	Memberships uint32
	Filter      uint32
}

// Test reports whether two colliders with these groups interact.
func (g InteractionGroups) Test(other InteractionGroups) bool {
	return g.Memberships&other.Filter != 0 && other.Memberships&g.Filter != 0
}

type ColliderData struct {
	Shape  ColliderShape
	Groups InteractionGroups
	Sensor bool // Reports contacts without pushing bodies apart
}

var Collider = donburi.NewComponentType[ColliderData]()

// BoxShape returns a box collider shape.
func BoxShape(halfExtents mgl32.Vec3) ColliderShape {
	return ColliderShape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// CapsuleShape returns a Y-aligned capsule collider shape.
func CapsuleShape(radius, halfHeight float32) ColliderShape {
	return ColliderShape{Kind: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

// BallShape returns a sphere collider shape.
func BallShape(radius float32) ColliderShape {
	return ColliderShape{Kind: ShapeBall, Radius: radius}
}

// TrimeshBox returns a closed 12-triangle trimesh shaped like a box.
func TrimeshBox(halfExtents mgl32.Vec3) ColliderShape {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	v := [8]mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz},
		{-hx, hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	quads := [6][4]int{
		{4, 7, 6, 5}, // top
		{0, 1, 2, 3}, // bottom
		{0, 4, 5, 1}, // -z
		{3, 2, 6, 7}, // +z
		{0, 3, 7, 4}, // -x
		{1, 5, 6, 2}, // +x
	}
	tris := make([]Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			Triangle{v[q[0]], v[q[1]], v[q[2]]},
			Triangle{v[q[0]], v[q[2]], v[q[3]]},
		)
	}
	return ColliderShape{Kind: ShapeTrimesh, Triangles: tris}
}
