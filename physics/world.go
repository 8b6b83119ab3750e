// Package physics is a small rigid-body host for the scene graph: force and
// gravity integration, axis-aligned contact generation and resolution, and
// ray casts. It favors predictable contacts over accuracy.
package physics

import (
	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

type ContactPoint struct {
	Position mgl32.Vec3
	Depth    float32
	Impulse  float32
}

// ContactManifold groups the points of one contact between two colliders.
// A side without a rigid body (static geometry) is donburi.Null.
type ContactManifold struct {
	RigidBody1 donburi.Entity
	RigidBody2 donburi.Entity
	Normal     mgl32.Vec3 // Points from collider 2 towards collider 1
	Points     []ContactPoint
}

type ContactPair struct {
	Collider1           donburi.Entity
	Collider2           donburi.Entity
	HasAnyActiveContact bool
	Manifolds           []ContactManifold
}

// Other returns the collider on the opposite side of c.
func (p ContactPair) Other(c donburi.Entity) donburi.Entity {
	if p.Collider1 == c {
		return p.Collider2
	}
	return p.Collider1
}

// World holds the contacts produced by the last step.
type World struct {
	Gravity mgl32.Vec3

	pairs      []ContactPair
	byCollider map[donburi.Entity][]int
}

func NewWorld() *World {
	return &World{
		Gravity:    mgl32.Vec3{0, cfg.Physics.Gravity, 0},
		byCollider: make(map[donburi.Entity][]int),
	}
}

// Contacts returns the contact pairs that involve collider.
func (w *World) Contacts(collider donburi.Entity) []ContactPair {
	idx := w.byCollider[collider]
	out := make([]ContactPair, 0, len(idx))
	for _, i := range idx {
		out = append(out, w.pairs[i])
	}
	return out
}

// Pairs returns every contact pair of the last step.
func (w *World) Pairs() []ContactPair {
	return w.pairs
}

// RecordContact adds a contact pair. Step uses it for generated contacts;
// hosts may inject synthetic contacts between steps.
func (w *World) RecordContact(p ContactPair) {
	limit := cfg.Physics.MaxContacts
	if limit > 0 && (len(w.byCollider[p.Collider1]) >= limit || len(w.byCollider[p.Collider2]) >= limit) {
		return
	}
	w.pairs = append(w.pairs, p)
	i := len(w.pairs) - 1
	w.byCollider[p.Collider1] = append(w.byCollider[p.Collider1], i)
	if p.Collider2 != p.Collider1 {
		w.byCollider[p.Collider2] = append(w.byCollider[p.Collider2], i)
	}
}

// ClearContacts forgets every contact.
func (w *World) ClearContacts() {
	w.pairs = w.pairs[:0]
	clear(w.byCollider)
}

// Step integrates dynamic bodies, then regenerates and resolves contacts.
func (w *World) Step(g *graph.Graph, dt float32) {
	if dt <= 0 {
		return
	}
	w.integrate(g, dt)
	w.ClearContacts()

	colliders := gatherColliders(g)
	for i := 0; i < len(colliders); i++ {
		for j := i + 1; j < len(colliders); j++ {
			a, b := &colliders[i], &colliders[j]
			if !a.interacts(b) {
				continue
			}
			manifold, ok := collide(a, b)
			if !ok {
				continue
			}
			if !a.sensor && !b.sensor {
				resolve(g, a, b, &manifold, dt)
			}
			w.RecordContact(ContactPair{
				Collider1:           a.entity,
				Collider2:           b.entity,
				HasAnyActiveContact: true,
				Manifolds:           []ContactManifold{manifold},
			})
		}
	}
}

func (w *World) integrate(g *graph.Graph, dt float32) {
	components.RigidBody.Each(g.World, func(entry *donburi.Entry) {
		rb := components.RigidBody.Get(entry)
		if rb.Kind == components.BodyDynamic && rb.Mass > 0 {
			accel := w.Gravity.Mul(rb.GravityScale).Add(rb.Force.Mul(1 / rb.Mass))
			rb.LinVel = rb.LinVel.Add(accel.Mul(dt))
			node := components.Node.Get(entry)
			node.Position = node.Position.Add(rb.LinVel.Mul(dt))
		}
		rb.Force = mgl32.Vec3{}
	})
}

// resolve pushes dynamic bodies apart along the manifold normal and removes
// the approaching part of their relative velocity. The applied impulse is
// stored on every point of the manifold.
func resolve(g *graph.Graph, a, b *colliderInfo, m *ContactManifold, dt float32) {
	rbA := graph.Get(g, a.body, components.RigidBody)
	rbB := graph.Get(g, b.body, components.RigidBody)
	invA, invB := inverseMass(rbA), inverseMass(rbB)
	total := invA + invB
	if total == 0 {
		return
	}

	var depth float32
	for _, p := range m.Points {
		depth = max(depth, p.Depth)
	}
	n := m.Normal
	if depth > 0 {
		if invA > 0 {
			shift := n.Mul(depth * invA / total)
			g.SetLocalPosition(a.body, nodePosition(g, a.body).Add(shift))
			a.translate(shift)
		}
		if invB > 0 {
			shift := n.Mul(-depth * invB / total)
			g.SetLocalPosition(b.body, nodePosition(g, b.body).Add(shift))
			b.translate(shift)
		}
	}

	var vA, vB mgl32.Vec3
	if rbA != nil {
		vA = rbA.LinVel
	}
	if rbB != nil {
		vB = rbB.LinVel
	}
	vn := vA.Sub(vB).Dot(n)
	if vn >= 0 {
		return
	}
	j := -vn / total
	if invA > 0 {
		rbA.LinVel = rbA.LinVel.Add(n.Mul(j * invA))
		applyFriction(rbA, n, dt)
	}
	if invB > 0 {
		rbB.LinVel = rbB.LinVel.Sub(n.Mul(j * invB))
		applyFriction(rbB, n.Mul(-1), dt)
	}
	for i := range m.Points {
		m.Points[i].Impulse = j
	}
}

// applyFriction damps horizontal velocity of a body resting on a surface.
func applyFriction(rb *components.RigidBodyData, n mgl32.Vec3, dt float32) {
	if n.Y() < 0.7 {
		return
	}
	k := max(0, 1-cfg.Physics.Friction*dt)
	rb.LinVel = mgl32.Vec3{rb.LinVel.X() * k, rb.LinVel.Y(), rb.LinVel.Z() * k}
}

func inverseMass(rb *components.RigidBodyData) float32 {
	if rb == nil || rb.Kind != components.BodyDynamic || rb.Mass <= 0 {
		return 0
	}
	return 1 / rb.Mass
}

func nodePosition(g *graph.Graph, e donburi.Entity) mgl32.Vec3 {
	if node, ok := g.Node(e); ok {
		return node.Position
	}
	return mgl32.Vec3{}
}

// HorizontalSpeed returns the length of v projected on the XZ plane.
func HorizontalSpeed(v mgl32.Vec3) float32 {
	return math32.Hypot(v.X(), v.Z())
}
