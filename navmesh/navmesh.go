// Package navmesh builds a navigation mesh from walkable platform tops and
// steers agents across it.
package navmesh

import (
	"math"
	"slices"

	astar "github.com/beefsack/go-astar"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	cfg "github.com/automoto/drake/config"
)

// Rect is an axis-aligned walkable area at a fixed height.
type Rect struct {
	Min    mgl32.Vec2 // XZ
	Max    mgl32.Vec2 // XZ
	Height float32
}

// Polygon is a convex walkable region of the mesh.
// Implements astar.Pather
type Polygon struct {
	Rect
	Index int

	links []*Polygon
}

// Center returns the middle of the polygon at walking height.
func (p *Polygon) Center() mgl32.Vec3 {
	return mgl32.Vec3{(p.Min[0] + p.Max[0]) / 2, p.Height, (p.Min[1] + p.Max[1]) / 2}
}

// Contains reports whether the XZ projection of v lies inside the polygon.
func (p *Polygon) Contains(v mgl32.Vec3) bool {
	return v.X() >= p.Min[0] && v.X() <= p.Max[0] && v.Z() >= p.Min[1] && v.Z() <= p.Max[1]
}

// Clamp returns the point of the polygon nearest to v in XZ, at walking height.
func (p *Polygon) Clamp(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		clamp(v.X(), p.Min[0], p.Max[0]),
		p.Height,
		clamp(v.Z(), p.Min[1], p.Max[1]),
	}
}

// Links returns the polygons reachable from p in one step.
func (p *Polygon) Links() []*Polygon {
	return p.links
}

// PathNeighbors implements astar.Pather
func (p *Polygon) PathNeighbors() []astar.Pather {
	out := make([]astar.Pather, len(p.links))
	for i, l := range p.links {
		out[i] = l
	}
	return out
}

// PathNeighborCost implements astar.Pather
func (p *Polygon) PathNeighborCost(to astar.Pather) float64 {
	return float64(p.Center().Sub(to.(*Polygon).Center()).Len())
}

// PathEstimatedCost implements astar.Pather
func (p *Polygon) PathEstimatedCost(to astar.Pather) float64 {
	return p.PathNeighborCost(to)
}

// Navmesh is an immutable set of linked polygons.
type Navmesh struct {
	polygons []*Polygon
}

// New links rects whose horizontal gap is within the configured link gap and
// whose height difference is climbable (upwards) or droppable (downwards).
func New(rects []Rect) *Navmesh {
	m := &Navmesh{polygons: make([]*Polygon, len(rects))}
	for i, r := range rects {
		m.polygons[i] = &Polygon{Rect: r, Index: i}
	}
	for _, a := range m.polygons {
		for _, b := range m.polygons {
			if a == b || gap(a.Rect, b.Rect) > cfg.Navmesh.LinkGap {
				continue
			}
			rise := b.Height - a.Height
			if rise > cfg.Navmesh.MaxClimb || -rise > cfg.Navmesh.MaxDrop {
				continue
			}
			a.links = append(a.links, b)
		}
	}
	return m
}

func (m *Navmesh) Polygons() []*Polygon {
	return m.polygons
}

// Locate returns the polygon under v: the highest one containing v in XZ
// that is not above v by more than the climb height, or else the nearest.
func (m *Navmesh) Locate(v mgl32.Vec3) (*Polygon, bool) {
	var best *Polygon
	for _, p := range m.polygons {
		if !p.Contains(v) || p.Height > v.Y()+cfg.Navmesh.MaxClimb {
			continue
		}
		if best == nil || p.Height > best.Height {
			best = p
		}
	}
	if best != nil {
		return best, true
	}

	bestDist := float32(math.MaxFloat32)
	for _, p := range m.polygons {
		if d := p.Clamp(v).Sub(v).Len(); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, best != nil
}

// FindPath returns the waypoints from `from` to `to`, ending at `to`.
func (m *Navmesh) FindPath(from, to mgl32.Vec3) ([]mgl32.Vec3, bool) {
	start, ok := m.Locate(from)
	if !ok {
		return nil, false
	}
	goal, ok := m.Locate(to)
	if !ok {
		return nil, false
	}
	if start == goal {
		return []mgl32.Vec3{to}, true
	}

	found, _, ok := astar.Path(start, goal)
	if !ok {
		return nil, false
	}
	// go-astar returns the path from goal back to start
	polys := make([]*Polygon, len(found))
	for i, p := range found {
		polys[len(found)-1-i] = p.(*Polygon)
	}

	var path []mgl32.Vec3
	for i := 0; i+1 < len(polys); i++ {
		a, b := polys[i], polys[i+1]
		mid := a.Center().Add(b.Center()).Mul(0.5)
		path = append(path, a.Clamp(mid), b.Clamp(mid))
	}
	// Polygons sharing an edge produce the same portal point twice
	path = slices.CompactFunc(path, func(a, b mgl32.Vec3) bool { return a.ApproxEqual(b) })
	path = append(path, to)
	return path, true
}

func gap(a, b Rect) float32 {
	dx := max(0, max(a.Min[0]-b.Max[0], b.Min[0]-a.Max[0]))
	dz := max(0, max(a.Min[1]-b.Max[1], b.Min[1]-a.Max[1]))
	return math32.Hypot(dx, dz)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}
