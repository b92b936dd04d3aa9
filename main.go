package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/fightcore/config"
	"github.com/milk9111/fightcore/prefabs"
)

func main() {
	p1 := flag.String("p1", "brawler", "archetype for player one")
	p2 := flag.String("p2", "training_dummy", "archetype for player two")
	configPath := flag.String("config", "", "settings ini file")
	debug := flag.Bool("debug", false, "draw boxes and log every tick")
	replayPath := flag.String("replay", "replay.json", "file F6 writes the replay to")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load settings", zap.Error(err))
	}
	loader := prefabs.NewLoader(prefabs.WithDir(cfg.Content.Dir), prefabs.WithLogger(logger))
	archetypes, err := loader.Archetypes(*p1, *p2)
	if err != nil {
		logger.Fatal("load content", zap.Error(err))
	}

	game, err := NewGame(archetypes, cfg, *replayPath, *debug, logger)
	if err != nil {
		logger.Fatal("start match", zap.Error(err))
	}

	ebiten.SetTPS(cfg.Simulation.TickRate)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("fightcore training")

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		logger.Fatal("run", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
