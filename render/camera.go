// Package render draws a top-down debug view of a scene. World X maps to
// screen X and world Z to screen Y.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultScale    = 16 // Pixels per world unit
	followSmoothing = 0.15
)

type Camera struct {
	Position mgl32.Vec3
	Scale    float32
	Width    int
	Height   int
}

func NewCamera(width, height int) *Camera {
	return &Camera{Scale: defaultScale, Width: width, Height: height}
}

// Follow moves the camera part of the way towards target.
func (c *Camera) Follow(target mgl32.Vec3) {
	c.Position = c.Position.Add(target.Sub(c.Position).Mul(followSmoothing))
}

// Snap centers the camera on target immediately.
func (c *Camera) Snap(target mgl32.Vec3) {
	c.Position = target
}

// ToScreen projects a world position onto the screen.
func (c *Camera) ToScreen(p mgl32.Vec3) (float32, float32) {
	x := float32(c.Width)/2 + (p.X()-c.Position.X())*c.Scale
	y := float32(c.Height)/2 + (p.Z()-c.Position.Z())*c.Scale
	return x, y
}

// Visible reports whether a screen-space rectangle overlaps the viewport.
func (c *Camera) Visible(x, y, w, h float32) bool {
	return x+w >= 0 && y+h >= 0 && x <= float32(c.Width) && y <= float32(c.Height)
}
