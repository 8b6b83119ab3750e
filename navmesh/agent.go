package navmesh

import (
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	cfg "github.com/automoto/drake/config"
)

// ErrNoPath is returned by Agent.Update when the target is unreachable.
var ErrNoPath = errors.New("navmesh: no path to target")

// Agent follows a path over a navmesh at a fixed speed. Motion is horizontal;
// the agent keeps whatever height its owner last set.
type Agent struct {
	RecalculationThreshold float32

	position mgl32.Vec3
	target   mgl32.Vec3
	speed    float32

	path        []mgl32.Vec3
	next        int
	from        mgl32.Vec3 // Position when the path was planned
	plannedTo   mgl32.Vec3
	plannedPoly *Polygon
	planned     bool
}

func NewAgent() *Agent {
	return &Agent{
		RecalculationThreshold: cfg.Bot.RecalculationThreshold,
		speed:                  cfg.Bot.Speed,
	}
}

func (a *Agent) SetSpeed(s float32)          { a.speed = s }
func (a *Agent) Speed() float32              { return a.speed }
func (a *Agent) SetTarget(t mgl32.Vec3)      { a.target = t }
func (a *Agent) Target() mgl32.Vec3          { return a.target }
func (a *Agent) SetPosition(p mgl32.Vec3)    { a.position = p }
func (a *Agent) Position() mgl32.Vec3        { return a.position }
func (a *Agent) Path() []mgl32.Vec3          { return a.path }
func (a *Agent) RemainingPath() []mgl32.Vec3 { return a.path[min(a.next, len(a.path)):] }

// Update replans when the target drifted more than the recalculation
// threshold since the last plan, when the agent was pushed that far off its
// current segment, or when it entered another polygon. It then advances the
// position by speed*dt along the path.
func (a *Agent) Update(dt float32, mesh *Navmesh) error {
	poly, _ := mesh.Locate(a.position)
	if a.needsReplan(poly) {
		path, ok := mesh.FindPath(a.position, a.target)
		if !ok {
			a.path, a.next, a.planned = nil, 0, false
			return ErrNoPath
		}
		a.path, a.next, a.planned = path, 0, true
		a.from, a.plannedTo, a.plannedPoly = a.position, a.target, poly
	}

	step := a.speed * dt
	for step > 0 && a.next < len(a.path) {
		wp := a.path[a.next]
		d := mgl32.Vec3{wp.X() - a.position.X(), 0, wp.Z() - a.position.Z()}
		dist := d.Len()
		if dist <= step {
			a.position = mgl32.Vec3{wp.X(), a.position.Y(), wp.Z()}
			step -= dist
			a.next++
			continue
		}
		a.position = a.position.Add(d.Mul(step / dist))
		step = 0
	}
	return nil
}

func (a *Agent) needsReplan(poly *Polygon) bool {
	switch {
	case !a.planned:
		return true
	case a.target.Sub(a.plannedTo).Len() > a.RecalculationThreshold:
		return true
	case poly != a.plannedPoly:
		return true
	case a.next >= len(a.path):
		return false
	}
	start := a.from
	if a.next > 0 {
		start = a.path[a.next-1]
	}
	return segmentDistance(a.position, start, a.path[a.next]) > a.RecalculationThreshold
}

// segmentDistance is the horizontal distance from p to the segment ab.
func segmentDistance(p, a, b mgl32.Vec3) float32 {
	ab := mgl32.Vec2{b.X() - a.X(), b.Z() - a.Z()}
	ap := mgl32.Vec2{p.X() - a.X(), p.Z() - a.Z()}
	t := float32(0)
	if l := ab.Dot(ab); l > 0 {
		t = mgl32.Clamp(ap.Dot(ab)/l, 0, 1)
	}
	return ap.Sub(ab.Mul(t)).Len()
}

// Shared guards a navmesh that many agents read while the level may replace
// it.
type Shared struct {
	mu   sync.RWMutex
	mesh *Navmesh
}

func NewShared(m *Navmesh) *Shared {
	return &Shared{mesh: m}
}

// Read holds the read lock for the duration of fn.
func (s *Shared) Read(fn func(m *Navmesh) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.mesh)
}

// Replace swaps the mesh under the write lock.
func (s *Shared) Replace(m *Navmesh) {
	s.mu.Lock()
	s.mesh = m
	s.mu.Unlock()
}
