package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/automoto/drake/assets"
	"github.com/automoto/drake/config"
	"github.com/automoto/drake/network"
	"github.com/automoto/drake/render"
	"github.com/automoto/drake/server/core"
)

const (
	screenWidth  = 960
	screenHeight = 720
)

// Game is one peer. A host runs the server in-process and joins it over
// loopback like any other client.
type Game struct {
	server *core.Server
	client *network.Client
	level  string
	input  inputReader
	camera *render.Camera
	log    *logrus.Entry
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		config.Debug.DisableRagdoll = !config.Debug.DisableRagdoll
		if err := config.SaveDebugSettings(); err != nil {
			g.log.WithError(err).Warn("could not save debug settings")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		config.Debug.DrawContacts = !config.Debug.DrawContacts
	}

	if g.server != nil {
		if g.server.State() == core.StateLobby && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			if err := g.server.StartGame(g.level); err != nil {
				g.log.WithError(err).Error("could not start game")
			}
		}
		g.server.Tick(1 / float32(ebiten.TPS()))
	}

	g.client.ReadMessages()
	if g.client.State() == network.StateDisconnected {
		return errors.New("disconnected from server")
	}
	g.client.SendInput(g.input.Read())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawPeer(screen, g)
}

func (g *Game) Layout(int, int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	host := pflag.Bool("host", false, "Run the server in-process and join it")
	addr := pflag.String("addr", config.Net.DefaultAddress, "Server address to bind (host) or dial (client)")
	level := pflag.String("level", config.Net.DefaultLevel, "Level started by the host")
	configPath := pflag.String("config", "", "YAML file overriding tuning values")
	logLevel := pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	disableRagdoll := pflag.Bool("disable-ragdoll", false, "Keep actors upright")
	pflag.Parse()

	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("component", "peer")

	if *configPath != "" {
		if err := config.LoadFile(*configPath); err != nil {
			log.WithError(err).Fatal("could not load config")
		}
	}
	if err := config.InitPersistence("drake"); err == nil {
		if err := config.LoadDebugSettings(); err != nil {
			log.WithError(err).Warn("could not load debug settings")
		}
	}
	if *disableRagdoll {
		config.Debug.DisableRagdoll = true
	}

	am := assets.Embedded()
	levels, err := am.ListLevels(config.Net.LevelDir)
	if err != nil {
		log.WithError(err).Fatal("could not list levels")
	}
	if !slices.Contains(levels, *level) {
		log.Fatalf("unknown level %s, available: %v", *level, levels)
	}

	g := &Game{level: *level, camera: render.NewCamera(screenWidth, screenHeight), log: log}
	if *host {
		g.server, err = core.NewServer(*addr, am)
		if err != nil {
			log.WithError(err).Fatal("could not start server")
		}
		defer g.server.Stop()
		*addr = g.server.Addr().String()
	}
	g.client, err = network.TryConnect(*addr, am)
	if err != nil {
		log.WithError(err).Fatal("could not connect")
	}
	defer g.client.Disconnect()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Drake")
	ebiten.SetTPS(config.Net.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Error("game ended")
	}
}
