package render

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// HUD is the status text drawn in the top-left corner.
type HUD struct {
	Connection     string
	Server         string // Empty when not hosting
	Players        int
	Level          string
	DisableRagdoll bool
	DrawContacts   bool
}

func (h HUD) lines() []string {
	lines := []string{
		fmt.Sprintf("TPS %0.1f  FPS %0.1f", ebiten.ActualTPS(), ebiten.ActualFPS()),
		"client: " + h.Connection,
	}
	if h.Server != "" {
		lines = append(lines, fmt.Sprintf("server: %s, %d players", h.Server, h.Players))
		if h.Server == "lobby" {
			lines = append(lines, "press Enter to start "+h.Level)
		}
	}
	lines = append(lines,
		fmt.Sprintf("F1 ragdoll disabled: %t", h.DisableRagdoll),
		fmt.Sprintf("F2 draw contacts: %t", h.DrawContacts),
		"WASD move, Q/E turn, Space jump",
	)
	return lines
}

// DrawHUD prints h over the scene.
func DrawHUD(screen *ebiten.Image, h HUD) {
	ebitenutil.DebugPrint(screen, strings.Join(h.lines(), "\n"))
}
