package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/drake/config"
	"github.com/automoto/drake/render"
)

func drawPeer(screen *ebiten.Image, g *Game) {
	sc := g.client.Scene()
	if id, ok := g.client.LocalPlayer(); ok && sc != nil {
		if e, ok := sc.NodeByID(id); ok {
			if pos, ok := sc.GlobalPosition(e); ok {
				g.camera.Follow(pos)
			}
		}
	}
	render.DrawScene(screen, sc, g.camera)

	hud := render.HUD{
		Connection:     g.client.State().String(),
		Level:          g.level,
		DisableRagdoll: config.Debug.DisableRagdoll,
		DrawContacts:   config.Debug.DrawContacts,
	}
	if g.server != nil {
		hud.Server = g.server.State().String()
		hud.Players = g.server.PlayerCount()
		if config.Debug.DrawContacts && g.server.Scene() != nil {
			render.DrawContacts(screen, g.server.Scene().Physics, g.camera)
		}
	}
	render.DrawHUD(screen, hud)
}
