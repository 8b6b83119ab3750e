package render

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/physics"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/tags"
)

var (
	colorStatic     = color.RGBA{100, 100, 100, 255}
	colorSensor     = color.RGBA{220, 200, 40, 90}
	colorPlayer     = color.RGBA{40, 220, 40, 255}
	colorRemote     = color.RGBA{0, 90, 255, 255}
	colorBot        = color.RGBA{255, 140, 0, 255}
	colorBone       = color.RGBA{255, 60, 60, 255}
	colorProjectile = color.RGBA{255, 0, 255, 255}
	colorContact    = color.RGBA{255, 255, 255, 255}
	colorTarget     = color.RGBA{0, 255, 255, 255}
	colorBounds     = color.RGBA{60, 60, 80, 255}
)

type shapeDraw struct {
	top    float32 // Highest world Y, so higher geometry is drawn last
	min    mgl32.Vec3
	max    mgl32.Vec3
	round  bool
	center mgl32.Vec3
	radius float32
	color  color.Color
}

// DrawScene draws every collider of sc from above.
func DrawScene(screen *ebiten.Image, sc *scene.Scene, cam *Camera) {
	if sc == nil {
		return
	}
	drawLevelBounds(screen, sc, cam)

	var draws []shapeDraw
	components.Collider.Each(sc.World, func(entry *donburi.Entry) {
		e := entry.Entity()
		pos, rot, ok := sc.GlobalTransform(e)
		if !ok {
			return
		}
		col := components.Collider.Get(entry)
		d := shapeDraw{color: colliderColor(sc.Graph, e, col)}
		switch col.Shape.Kind {
		case components.ShapeBall, components.ShapeCapsule:
			d.round = true
			d.center = pos
			d.radius = col.Shape.Radius
			d.top = pos.Y() + col.Shape.HalfHeight + col.Shape.Radius
		case components.ShapeBox:
			d.min, d.max = boxBounds(pos, rot, col.Shape.HalfExtents)
			d.top = d.max.Y()
		case components.ShapeTrimesh:
			d.min, d.max = trimeshBounds(pos, rot, col.Shape.Triangles)
			d.top = d.max.Y()
		}
		draws = append(draws, d)
	})
	slices.SortStableFunc(draws, func(a, b shapeDraw) int { return cmp.Compare(a.top, b.top) })

	for _, d := range draws {
		if d.round {
			x, y := cam.ToScreen(d.center)
			r := d.radius * cam.Scale
			if cam.Visible(x-r, y-r, 2*r, 2*r) {
				vector.DrawFilledCircle(screen, x, y, max(r, 1), d.color, false)
			}
			continue
		}
		x0, y0 := cam.ToScreen(d.min)
		x1, y1 := cam.ToScreen(d.max)
		w, h := max(x1-x0, 1), max(y1-y0, 1)
		if !cam.Visible(x0, y0, w, h) {
			continue
		}
		vector.DrawFilledRect(screen, x0, y0, w, h, d.color, false)
	}

	drawMarkers(screen, sc, cam, tags.Target, colorTarget)
	drawMarkers(screen, sc, cam, tags.StartPoint, colorPlayer)
}

// DrawContacts marks the contact points recorded by the last physics step.
func DrawContacts(screen *ebiten.Image, w *physics.World, cam *Camera) {
	for _, pair := range w.Pairs() {
		for _, m := range pair.Manifolds {
			for _, p := range m.Points {
				x, y := cam.ToScreen(p.Position)
				vector.DrawFilledRect(screen, x-1, y-1, 3, 3, colorContact, false)
			}
		}
	}
}

func drawLevelBounds(screen *ebiten.Image, sc *scene.Scene, cam *Camera) {
	entry, ok := components.Level.First(sc.World)
	if !ok {
		return
	}
	bound := components.Level.Get(entry).Bound
	x, y := cam.ToScreen(mgl32.Vec3{})
	s := bound * cam.Scale
	vector.FillRect(screen, x, y, s, 1, colorBounds, false)   // Top
	vector.FillRect(screen, x, y+s, s, 1, colorBounds, false) // Bottom
	vector.FillRect(screen, x, y, 1, s, colorBounds, false)   // Left
	vector.FillRect(screen, x+s, y, 1, s, colorBounds, false) // Right
}

func drawMarkers(screen *ebiten.Image, sc *scene.Scene, cam *Camera, tag *donburi.ComponentType[donburi.Tag], c color.Color) {
	tag.Each(sc.World, func(entry *donburi.Entry) {
		pos, ok := sc.GlobalPosition(entry.Entity())
		if !ok {
			return
		}
		x, y := cam.ToScreen(pos)
		vector.DrawFilledRect(screen, x-3, y-3, 6, 6, c, false)
	})
}

func colliderColor(g *graph.Graph, e donburi.Entity, col *components.ColliderData) color.Color {
	if col.Sensor {
		return colorSensor
	}
	switch {
	case col.Groups.Memberships&components.GroupRagdoll != 0:
		return colorBone
	case col.Groups.Memberships&components.GroupProjectile != 0:
		return colorProjectile
	case col.Groups.Memberships&components.GroupActor != 0:
		body, ok := g.BodyOf(e)
		if !ok {
			return colorRemote
		}
		if g.Has(body, components.Bot) {
			return colorBot
		}
		if g.Has(body, components.Player) {
			return colorPlayer
		}
		return colorRemote
	}
	return colorStatic
}

func boxBounds(pos mgl32.Vec3, rot mgl32.Quat, he mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	pts := make([]mgl32.Vec3, 0, 8)
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				corner := mgl32.Vec3{sx * he.X(), sy * he.Y(), sz * he.Z()}
				pts = append(pts, pos.Add(rot.Rotate(corner)))
			}
		}
	}
	return bounds(pts)
}

func trimeshBounds(pos mgl32.Vec3, rot mgl32.Quat, tris []components.Triangle) (mgl32.Vec3, mgl32.Vec3) {
	if len(tris) == 0 {
		return pos, pos
	}
	pts := make([]mgl32.Vec3, 0, 3*len(tris))
	for _, t := range tris {
		for _, v := range t {
			pts = append(pts, pos.Add(rot.Rotate(v)))
		}
	}
	return bounds(pts)
}

func bounds(pts []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
