package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/automoto/drake/assets"
	"github.com/automoto/drake/config"
	"github.com/automoto/drake/server/core"
)

func main() {
	addr := pflag.String("addr", config.Net.DefaultAddress, "Address to listen on")
	level := pflag.String("level", config.Net.DefaultLevel, "Level to start")
	players := pflag.Int("players", 1, "Start the game once this many peers joined")
	tickRate := pflag.Int("tickrate", config.Net.TickRate, "Server tick rate (updates per second)")
	configPath := pflag.String("config", "", "YAML file overriding tuning values")
	logLevel := pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	sentryDSN := pflag.String("sentry-dsn", os.Getenv("SENTRY_DSN"), "Sentry DSN for crash reports")
	statsAddr := pflag.String("statsview", "", "Serve runtime charts on this address, e.g. localhost:18066")
	pflag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %v", err)
	}
	logrus.SetLevel(lvl)
	log := logrus.WithField("component", "main")

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			log.WithError(err).Warn("could not initialize sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}
	defer sentry.Recover()

	if *statsAddr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(*statsAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if *configPath != "" {
		if err := config.LoadFile(*configPath); err != nil {
			log.WithError(err).Fatal("could not load config")
		}
	}

	am := assets.Embedded()
	if !am.HasLevel(*level) {
		levels, _ := am.ListLevels(config.Net.LevelDir)
		log.Fatalf("unknown level %s, available: %v", *level, levels)
	}

	server, err := core.NewServer(*addr, am)
	if err != nil {
		log.WithError(err).Fatal("could not start server")
	}
	loop := core.NewGameLoop(server, *tickRate)
	loop.AutoStart(*players, *level)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down server")
		loop.Stop()
	}()

	log.Infof("drake server on %s, waiting for %d players to start %s", server.Addr(), *players, *level)
	loop.Run()
	server.Stop()
}
