package core

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// GameLoop ticks a server at a fixed rate until stopped.
type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
	doneChan chan struct{}
	log      *logrus.Entry

	// Lobby auto-start; zero players disables it
	startPlayers int
	startLevel   string
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		log:      logrus.WithField("component", "loop"),
	}
}

// AutoStart makes the loop start level once players peers wait in the lobby.
// Call before Run.
func (g *GameLoop) AutoStart(players int, level string) {
	g.startPlayers = players
	g.startLevel = level
}

// Run blocks, ticking the server, until Stop is called.
func (g *GameLoop) Run() {
	defer close(g.doneChan)
	defer sentry.Recover()

	interval := time.Second / time.Duration(g.tickRate)
	dt := float32(interval.Seconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.log.Infof("game loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.log.Info("game loop stopped")
			return
		case <-ticker.C:
			g.server.Tick(dt)
			g.maybeStart()
		}
	}
}

func (g *GameLoop) maybeStart() {
	if g.startPlayers <= 0 || g.server.State() != StateLobby {
		return
	}
	if g.server.PlayerCount() < g.startPlayers {
		return
	}
	if err := g.server.StartGame(g.startLevel); err != nil {
		g.log.WithError(err).Error("auto start failed")
		sentry.CaptureException(err)
		g.startPlayers = 0
	}
}

// Stop ends Run and waits for the current tick to finish.
func (g *GameLoop) Stop() {
	close(g.stopChan)
	<-g.doneChan
}
