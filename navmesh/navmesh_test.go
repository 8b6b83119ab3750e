package navmesh

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func rect(x0, z0, x1, z1, h float32) Rect {
	return Rect{Min: mgl32.Vec2{x0, z0}, Max: mgl32.Vec2{x1, z1}, Height: h}
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		linked bool
	}{
		{"adjacent", rect(0, 0, 4, 4, 0), rect(4, 0, 8, 4, 0), true},
		{"small gap", rect(0, 0, 4, 4, 0), rect(5, 0, 8, 4, 0), true},
		{"wide gap", rect(0, 0, 4, 4, 0), rect(7, 0, 9, 4, 0), false},
		{"climbable step", rect(0, 0, 4, 4, 0), rect(4, 0, 8, 4, 0.8), true},
		{"too high", rect(0, 0, 4, 4, 0), rect(4, 0, 8, 4, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New([]Rect{tt.a, tt.b})
			got := len(m.Polygons()[0].Links()) == 1
			if got != tt.linked {
				t.Fatalf("linked = %v, want %v", got, tt.linked)
			}
		})
	}
}

func TestDropIsOneWay(t *testing.T) {
	m := New([]Rect{rect(0, 0, 4, 4, 3), rect(4, 0, 8, 4, 0)})
	if len(m.Polygons()[0].Links()) != 1 {
		t.Error("high platform should link down")
	}
	if len(m.Polygons()[1].Links()) != 0 {
		t.Error("low platform should not link up")
	}
}

func TestFindPathOrder(t *testing.T) {
	m := New([]Rect{
		rect(0, 0, 4, 4, 0),
		rect(4, 0, 8, 4, 0),
		rect(8, 0, 12, 4, 0),
	})
	to := mgl32.Vec3{10, 0, 2}
	path, ok := m.FindPath(mgl32.Vec3{1, 0, 2}, to)
	if !ok {
		t.Fatal("no path")
	}
	if path[len(path)-1] != to {
		t.Fatalf("path ends at %v, want %v", path[len(path)-1], to)
	}
	for i := 1; i < len(path); i++ {
		if path[i].X() < path[i-1].X() {
			t.Fatalf("path goes backwards: %v", path)
		}
	}
}

func TestFindPathUnreachable(t *testing.T) {
	m := New([]Rect{rect(0, 0, 4, 4, 0), rect(20, 0, 24, 4, 0)})
	if _, ok := m.FindPath(mgl32.Vec3{1, 0, 1}, mgl32.Vec3{22, 0, 2}); ok {
		t.Fatal("found a path across a gap")
	}
}

func TestLocatePrefersPlatformBelow(t *testing.T) {
	m := New([]Rect{rect(0, 0, 4, 4, 0), rect(0, 0, 4, 4, 5)})
	p, ok := m.Locate(mgl32.Vec3{2, 0.5, 2})
	if !ok || p.Height != 0 {
		t.Fatalf("located %+v, want ground floor", p)
	}
	p, _ = m.Locate(mgl32.Vec3{2, 6, 2})
	if p.Height != 5 {
		t.Fatalf("located height %v, want 5", p.Height)
	}
}

func TestAgentMovesAtSpeed(t *testing.T) {
	m := New([]Rect{rect(0, 0, 4, 4, 0), rect(4, 0, 8, 4, 0)})
	a := NewAgent()
	a.SetSpeed(2)
	a.SetPosition(mgl32.Vec3{1, 0, 2})
	a.SetTarget(mgl32.Vec3{7, 0, 2})

	if err := a.Update(0.5, m); err != nil {
		t.Fatal(err)
	}
	if d := a.Position().Sub(mgl32.Vec3{1, 0, 2}).Len(); math32.Abs(d-1) > 1e-4 {
		t.Fatalf("moved %v, want 1", d)
	}
	for i := 0; i < 10; i++ {
		_ = a.Update(0.5, m)
	}
	if a.Position().Sub(a.Target()).Len() > 1e-4 {
		t.Fatalf("agent stopped at %v, want %v", a.Position(), a.Target())
	}
}

func TestAgentReplansOnlyPastThreshold(t *testing.T) {
	m := New([]Rect{rect(0, 0, 10, 10, 0)})
	a := NewAgent()
	a.SetPosition(mgl32.Vec3{1, 0, 1})
	a.SetTarget(mgl32.Vec3{5, 0, 5})
	_ = a.Update(0.1, m)
	first := a.Path()

	a.SetTarget(mgl32.Vec3{5.2, 0, 5})
	_ = a.Update(0.1, m)
	if a.Path()[len(a.Path())-1] != first[len(first)-1] {
		t.Fatal("replanned for a drift below the threshold")
	}

	a.SetTarget(mgl32.Vec3{8, 0, 5})
	_ = a.Update(0.1, m)
	if got := a.Path()[len(a.Path())-1]; got != (mgl32.Vec3{8, 0, 5}) {
		t.Fatalf("path ends at %v after large drift", got)
	}
}

func TestAgentReplansWhenDisplaced(t *testing.T) {
	tests := []struct {
		name   string
		rects  []Rect
		target mgl32.Vec3
		moved  mgl32.Vec3
	}{
		{"knocked off the segment", []Rect{rect(0, 0, 10, 10, 0)}, mgl32.Vec3{3, 0, 2}, mgl32.Vec3{3, 0, 8}},
		// Still within the threshold of the segment to the portal
		{"entered the next polygon", []Rect{rect(0, 0, 4, 4, 0), rect(4, 0, 8, 4, 0)}, mgl32.Vec3{6, 0, 2}, mgl32.Vec3{4.3, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.rects)
			a := NewAgent()
			a.SetSpeed(1)
			a.SetPosition(mgl32.Vec3{1, 0, 2})
			a.SetTarget(tt.target)
			if err := a.Update(0.1, m); err != nil {
				t.Fatal(err)
			}

			a.SetPosition(tt.moved)
			if err := a.Update(0, m); err != nil {
				t.Fatal(err)
			}
			if a.from != tt.moved {
				t.Fatalf("path planned from %v, want %v", a.from, tt.moved)
			}
			path := a.RemainingPath()
			if len(path) == 0 || path[len(path)-1] != tt.target {
				t.Fatalf("path %v does not end at %v", path, tt.target)
			}
		})
	}
}

func TestAgentKeepsPlanOnItsSegment(t *testing.T) {
	m := New([]Rect{rect(0, 0, 10, 10, 0)})
	a := NewAgent()
	a.SetPosition(mgl32.Vec3{1, 0, 2})
	a.SetTarget(mgl32.Vec3{9, 0, 2})
	_ = a.Update(0.1, m)

	a.SetPosition(mgl32.Vec3{4, 0, 2.3})
	_ = a.Update(0, m)
	if a.from != (mgl32.Vec3{1, 0, 2}) {
		t.Fatalf("replanned from %v for a small nudge", a.from)
	}
}

func TestAgentNoPath(t *testing.T) {
	m := New([]Rect{rect(0, 0, 4, 4, 0), rect(20, 0, 24, 4, 0)})
	a := NewAgent()
	a.SetPosition(mgl32.Vec3{1, 0, 1})
	a.SetTarget(mgl32.Vec3{22, 0, 2})
	if err := a.Update(0.1, m); !errors.Is(err, ErrNoPath) {
		t.Fatalf("err = %v, want ErrNoPath", err)
	}
}

func TestSharedRead(t *testing.T) {
	s := NewShared(New([]Rect{rect(0, 0, 1, 1, 0)}))
	var n int
	_ = s.Read(func(m *Navmesh) error {
		n = len(m.Polygons())
		return nil
	})
	if n != 1 {
		t.Fatalf("polygons = %d, want 1", n)
	}
}
