package physics

import (
	"slices"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

type RayCastOptions struct {
	Origin      mgl32.Vec3
	Direction   mgl32.Vec3
	MaxLen      float32
	Groups      components.InteractionGroups // Zero value casts against every group
	SortResults bool
}

type Intersection struct {
	Collider donburi.Entity
	Shape    components.ShapeKind
	Position mgl32.Vec3
	Toi      float32 // Distance from the ray origin
}

// CastRay returns every collider the ray hits within MaxLen, nearest first
// when SortResults is set.
func (w *World) CastRay(g *graph.Graph, opts RayCastOptions) []Intersection {
	dir := opts.Direction
	if dir.Len() == 0 || opts.MaxLen <= 0 {
		return nil
	}
	dir = dir.Normalize()
	all := opts.Groups == (components.InteractionGroups{})

	var hits []Intersection
	for _, c := range gatherColliders(g) {
		if !all && !opts.Groups.Test(c.groups) {
			continue
		}
		toi, ok := rayCollider(opts.Origin, dir, opts.MaxLen, &c)
		if !ok {
			continue
		}
		hits = append(hits, Intersection{
			Collider: c.entity,
			Shape:    c.kind,
			Position: opts.Origin.Add(dir.Mul(toi)),
			Toi:      toi,
		})
	}
	if opts.SortResults {
		slices.SortStableFunc(hits, func(a, b Intersection) int {
			switch {
			case a.Toi < b.Toi:
				return -1
			case a.Toi > b.Toi:
				return 1
			}
			return 0
		})
	}
	return hits
}

func rayCollider(o, d mgl32.Vec3, maxLen float32, c *colliderInfo) (float32, bool) {
	switch c.kind {
	case components.ShapeTrimesh:
		best, found := maxLen, false
		for _, t := range c.triangles {
			if toi, ok := rayTriangle(o, d, t.v); ok && toi <= best {
				best, found = toi, true
			}
		}
		return best, found
	case components.ShapeBall:
		center := c.bounds.center()
		r := (c.bounds.max.X() - c.bounds.min.X()) / 2
		return raySphere(o, d, center, r, maxLen)
	default:
		return rayBox(o, d, c.bounds, maxLen)
	}
}

// rayTriangle is the Möller-Trumbore test. Both faces count as hits.
func rayTriangle(o, d mgl32.Vec3, v [3]mgl32.Vec3) (float32, bool) {
	const eps = 1e-7
	e1 := v[1].Sub(v[0])
	e2 := v[2].Sub(v[0])
	p := d.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := o.Sub(v[0])
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	vv := d.Dot(q) * inv
	if vv < 0 || u+vv > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	return t, t >= 0
}

func raySphere(o, d, center mgl32.Vec3, r, maxLen float32) (float32, bool) {
	m := o.Sub(center)
	b := m.Dot(d)
	c := m.Dot(m) - r*r
	if c > 0 && b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := max(-b-math32.Sqrt(disc), 0)
	return t, t <= maxLen
}

// rayBox is the slab test against world-space bounds.
func rayBox(o, d mgl32.Vec3, b aabb, maxLen float32) (float32, bool) {
	tmin, tmax := float32(0), maxLen
	for i := 0; i < 3; i++ {
		if math32.Abs(d[i]) < 1e-9 {
			if o[i] < b.min[i] || o[i] > b.max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (b.min[i] - o[i]) * inv
		t2 := (b.max[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
