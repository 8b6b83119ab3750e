package assets

import (
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lafriks/go-tiled"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
)

// LevelDef is a parsed level. One map tile is one world unit; the map's Y
// axis becomes world Z and heights come from object properties.
type LevelDef struct {
	Path         string
	Name         string
	Width        float32
	Depth        float32
	Platforms    []PlatformDef
	StartPoints  []mgl32.Vec3
	Targets      []mgl32.Vec3
	Jumpers      []JumperDef
	Cannons      []CannonDef
	Rotators     []RotatorDef
	RespawnZones []components.RespawnZoneData
	Bots         []mgl32.Vec3
	Sounds       []SoundDef
}

// PlatformDef is a walkable box whose top face is at Elevation.
type PlatformDef struct {
	Name      string
	Min, Max  mgl32.Vec2 // XZ
	Elevation float32
	Thickness float32
}

// Center returns the center of the platform box.
func (p PlatformDef) Center() mgl32.Vec3 {
	c := p.Min.Add(p.Max).Mul(0.5)
	return mgl32.Vec3{c.X(), p.Elevation - p.Thickness/2, c.Y()}
}

// HalfExtents returns the half size of the platform box.
func (p PlatformDef) HalfExtents() mgl32.Vec3 {
	s := p.Max.Sub(p.Min).Mul(0.5)
	return mgl32.Vec3{s.X(), p.Thickness / 2, s.Y()}
}

type JumperDef struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	PushForce   float32
}

type CannonDef struct {
	Position          mgl32.Vec3
	Yaw               float32 // Radians
	ShootInterval     float32
	ProjectileImpulse float32
}

type RotatorDef struct {
	Center        mgl32.Vec3
	HalfExtents   mgl32.Vec3
	RotationSpeed float32
}

type SoundDef struct {
	Name     string
	Position mgl32.Vec3
	Looping  bool
}

// LoadLevel parses the Tiled map at p.
func (m *Manager) LoadLevel(p string) (*LevelDef, error) {
	if def, ok := m.levels[p]; ok {
		return def, nil
	}
	if !m.HasLevel(p) {
		return nil, fmt.Errorf("level %s: %w", p, ErrNotFound)
	}
	def, err := parseLevel(m.fsys, p)
	if err != nil {
		return nil, err
	}
	m.levels[p] = def
	return def, nil
}

// tmx converts map pixels into world units.
type tmx struct {
	tileW, tileH float64
}

func (t tmx) point(o *tiled.Object) mgl32.Vec3 {
	return mgl32.Vec3{float32(o.X / t.tileW), floatProp(o.Properties, "elevation", 0), float32(o.Y / t.tileH)}
}

func (t tmx) rect(o *tiled.Object) (mgl32.Vec2, mgl32.Vec2) {
	min := mgl32.Vec2{float32(o.X / t.tileW), float32(o.Y / t.tileH)}
	max := mgl32.Vec2{float32((o.X + o.Width) / t.tileW), float32((o.Y + o.Height) / t.tileH)}
	return min, max
}

// box returns the center and half extents of a rectangle object raised to
// its elevation with the given height.
func (t tmx) box(o *tiled.Object, height float32) (mgl32.Vec3, mgl32.Vec3) {
	min, max := t.rect(o)
	c := min.Add(max).Mul(0.5)
	h := max.Sub(min).Mul(0.5)
	y := floatProp(o.Properties, "elevation", 0)
	return mgl32.Vec3{c.X(), y + height/2, c.Y()}, mgl32.Vec3{h.X(), height / 2, h.Y()}
}

func parseLevel(fsys fs.FS, p string) (*LevelDef, error) {
	levelMap, err := tiled.LoadFile(p, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", p, err)
	}
	if levelMap.TileWidth == 0 || levelMap.TileHeight == 0 {
		return nil, fmt.Errorf("load TMX %s: zero tile size", p)
	}

	t := tmx{tileW: float64(levelMap.TileWidth), tileH: float64(levelMap.TileHeight)}
	def := &LevelDef{
		Path:  p,
		Name:  strings.TrimSuffix(path.Base(p), ".tmx"),
		Width: float32(levelMap.Width),
		Depth: float32(levelMap.Height),
	}

	for _, og := range levelMap.ObjectGroups {
		for _, o := range og.Objects {
			if err := def.addObject(t, og.Name, o); err != nil {
				return nil, fmt.Errorf("load TMX %s: %s object %d: %w", p, og.Name, o.ID, err)
			}
		}
	}
	return def, nil
}

func (def *LevelDef) addObject(t tmx, group string, o *tiled.Object) error {
	props := o.Properties
	switch group {
	case "Platforms":
		min, max := t.rect(o)
		def.Platforms = append(def.Platforms, PlatformDef{
			Name:      o.Name,
			Min:       min,
			Max:       max,
			Elevation: floatProp(props, "elevation", 0),
			Thickness: floatProp(props, "thickness", 1),
		})
	case "StartPoints":
		def.StartPoints = append(def.StartPoints, t.point(o))
	case "Targets":
		def.Targets = append(def.Targets, t.point(o))
	case "Bots":
		def.Bots = append(def.Bots, t.point(o))
	case "Jumpers":
		center, half := t.box(o, 0.2)
		def.Jumpers = append(def.Jumpers, JumperDef{
			Center:      center,
			HalfExtents: half,
			PushForce:   floatProp(props, "push_force", 10),
		})
	case "Cannons":
		def.Cannons = append(def.Cannons, CannonDef{
			Position:          t.point(o),
			Yaw:               floatProp(props, "yaw", 0) * math32.Pi / 180,
			ShootInterval:     floatProp(props, "shoot_interval", cfg.Cannon.ShootInterval),
			ProjectileImpulse: floatProp(props, "projectile_impulse", cfg.Cannon.ProjectileImpulse),
		})
	case "Rotators":
		center, half := t.box(o, floatProp(props, "height", 0.5))
		def.Rotators = append(def.Rotators, RotatorDef{
			Center:        center,
			HalfExtents:   half,
			RotationSpeed: floatProp(props, "rotation_speed", 1),
		})
	case "RespawnZones":
		mode, err := components.ParseRespawnMode(props.GetString("mode"))
		if err != nil {
			return err
		}
		action, err := components.ParseRespawnAction(props.GetString("action"))
		if err != nil {
			return err
		}
		def.RespawnZones = append(def.RespawnZones, components.RespawnZoneData{
			Threshold: floatProp(props, "threshold", cfg.Respawn.Threshold),
			Mode:      mode,
			Action:    action,
		})
	case "Sounds":
		def.Sounds = append(def.Sounds, SoundDef{
			Name:     o.Name,
			Position: t.point(o),
			Looping:  props.GetBool("looping"),
		})
	}
	return nil
}

// floatProp reads a numeric property, falling back to def when it is unset
// or not a number.
func floatProp(props tiled.Properties, name string, def float32) float32 {
	s := props.GetString(name)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return def
	}
	return float32(v)
}
