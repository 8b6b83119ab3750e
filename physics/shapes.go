package physics

import (
	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

type aabb struct {
	min, max mgl32.Vec3
}

func (b aabb) overlaps(o aabb, skin float32) bool {
	for i := 0; i < 3; i++ {
		if b.min[i] > o.max[i]+skin || o.min[i] > b.max[i]+skin {
			return false
		}
	}
	return true
}

func (b aabb) center() mgl32.Vec3 {
	return b.min.Add(b.max).Mul(0.5)
}

func (b aabb) translate(v mgl32.Vec3) aabb {
	return aabb{min: b.min.Add(v), max: b.max.Add(v)}
}

type worldTriangle struct {
	v      [3]mgl32.Vec3
	bounds aabb
}

// colliderInfo is a collider resolved into world space for one step.
type colliderInfo struct {
	entity    donburi.Entity
	body      donburi.Entity
	dynamic   bool
	kind      components.ShapeKind
	groups    components.InteractionGroups
	sensor    bool
	bounds    aabb
	triangles []worldTriangle
}

func (c *colliderInfo) interacts(o *colliderInfo) bool {
	if c.body == donburi.Null && o.body == donburi.Null {
		return false
	}
	if c.body == o.body {
		return false
	}
	if c.kind == components.ShapeTrimesh && o.kind == components.ShapeTrimesh {
		return false
	}
	return c.groups.Test(o.groups)
}

func (c *colliderInfo) translate(v mgl32.Vec3) {
	c.bounds = c.bounds.translate(v)
}

func gatherColliders(g *graph.Graph) []colliderInfo {
	var out []colliderInfo
	components.Collider.Each(g.World, func(entry *donburi.Entry) {
		e := entry.Entity()
		col := components.Collider.Get(entry)
		pos, rot, ok := g.GlobalTransform(e)
		if !ok {
			return
		}
		info := colliderInfo{
			entity: e,
			body:   donburi.Null,
			kind:   col.Shape.Kind,
			groups: col.Groups,
			sensor: col.Sensor,
		}
		if body, ok := g.BodyOf(e); ok {
			info.body = body
			rb := graph.Get(g, body, components.RigidBody)
			info.dynamic = rb.Kind == components.BodyDynamic
		}
		info.bounds, info.triangles = worldShape(col.Shape, pos, rot)
		out = append(out, info)
	})
	return out
}

func worldShape(shape components.ColliderShape, pos mgl32.Vec3, rot mgl32.Quat) (aabb, []worldTriangle) {
	switch shape.Kind {
	case components.ShapeBall:
		r := mgl32.Vec3{shape.Radius, shape.Radius, shape.Radius}
		return aabb{pos.Sub(r), pos.Add(r)}, nil
	case components.ShapeCapsule:
		h := mgl32.Vec3{shape.Radius, shape.HalfHeight + shape.Radius, shape.Radius}
		return aabb{pos.Sub(h), pos.Add(h)}, nil
	case components.ShapeTrimesh:
		tris := make([]worldTriangle, 0, len(shape.Triangles))
		bounds := aabb{min: mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
			max: mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}}
		for _, t := range shape.Triangles {
			var wt worldTriangle
			for i := 0; i < 3; i++ {
				wt.v[i] = pos.Add(rot.Rotate(t[i]))
			}
			wt.bounds = pointsBounds(wt.v[:])
			bounds = union(bounds, wt.bounds)
			tris = append(tris, wt)
		}
		return bounds, tris
	default:
		m := rot.Mat4().Mat3()
		var ext mgl32.Vec3
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				ext[row] += math32.Abs(m.At(row, col)) * shape.HalfExtents[col]
			}
		}
		return aabb{pos.Sub(ext), pos.Add(ext)}, nil
	}
}

func pointsBounds(pts []mgl32.Vec3) aabb {
	b := aabb{min: pts[0], max: pts[0]}
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			b.min[i] = min(b.min[i], p[i])
			b.max[i] = max(b.max[i], p[i])
		}
	}
	return b
}

func union(a, b aabb) aabb {
	for i := 0; i < 3; i++ {
		a.min[i] = min(a.min[i], b.min[i])
		a.max[i] = max(a.max[i], b.max[i])
	}
	return a
}

// collide builds a manifold for two colliders whose bounds touch within the
// skin width. Trimeshes contribute one point per touching triangle; the
// normal and depth come from the overall bounds, which is exact for the box
// shaped level pieces this host is used with.
func collide(a, b *colliderInfo) (ContactManifold, bool) {
	skin := cfg.Physics.SkinWidth
	if !a.bounds.overlaps(b.bounds, skin) {
		return ContactManifold{}, false
	}
	n, depth := penetration(a.bounds, b.bounds)
	m := ContactManifold{RigidBody1: a.body, RigidBody2: b.body, Normal: n}

	switch {
	case b.kind == components.ShapeTrimesh:
		for _, t := range b.triangles {
			if a.bounds.overlaps(t.bounds, skin) {
				m.Points = append(m.Points, ContactPoint{Position: overlapCenter(a.bounds, t.bounds), Depth: depth})
			}
		}
	case a.kind == components.ShapeTrimesh:
		for _, t := range a.triangles {
			if b.bounds.overlaps(t.bounds, skin) {
				m.Points = append(m.Points, ContactPoint{Position: overlapCenter(t.bounds, b.bounds), Depth: depth})
			}
		}
	default:
		m.Points = append(m.Points, ContactPoint{Position: overlapCenter(a.bounds, b.bounds), Depth: depth})
	}
	return m, len(m.Points) > 0
}

// penetration returns the axis of least penetration, oriented from b to a,
// and how far a has to move along it to stop overlapping b.
func penetration(a, b aabb) (mgl32.Vec3, float32) {
	best := 0
	var depth float32 = math32.MaxFloat32
	var sign float32 = 1
	ac, bc := a.center(), b.center()
	for i := 0; i < 3; i++ {
		var d, s float32
		if ac[i] >= bc[i] {
			d, s = b.max[i]-a.min[i], 1
		} else {
			d, s = a.max[i]-b.min[i], -1
		}
		if d < depth {
			depth, best, sign = d, i, s
		}
	}
	var n mgl32.Vec3
	n[best] = sign
	return n, max(depth, 0)
}

func overlapCenter(a, b aabb) mgl32.Vec3 {
	var p mgl32.Vec3
	for i := 0; i < 3; i++ {
		p[i] = (max(a.min[i], b.min[i]) + min(a.max[i], b.max[i])) / 2
	}
	return p
}
