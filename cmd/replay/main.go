package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/config"
	"github.com/milk9111/fightcore/obj"
	"github.com/milk9111/fightcore/prefabs"
	"github.com/milk9111/fightcore/replay"
)

func main() {
	file := flag.String("file", "replay.json", "replay file to verify")
	configPath := flag.String("config", "", "settings ini file (content location only; simulation settings come from the replay)")
	jsonLogs := flag.Bool("json", false, "log as JSON")
	flag.Parse()

	logger, err := newLogger(*jsonLogs)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load settings", zap.Error(err))
	}
	r, err := replay.Load(*file)
	if err != nil {
		logger.Fatal("load replay", zap.Error(err))
	}
	loader := prefabs.NewLoader(prefabs.WithDir(cfg.Content.Dir), prefabs.WithLogger(logger))
	archetypes, err := loader.Archetypes(r.Archetypes...)
	if err != nil {
		logger.Fatal("load content", zap.Error(err))
	}

	err = replay.Verify(r, archetypes, obj.NewCollisionWorld().Overlaps, logger)
	var d *replay.Divergence
	switch {
	case errors.As(err, &d):
		fmt.Printf("%s: diverged at tick %d (want %016x, got %016x)\n", *file, d.Tick, d.Want, d.Got)
		os.Exit(1)
	case err != nil:
		logger.Fatal("verify", zap.Error(err))
	}
	fmt.Printf("%s: %d ticks verified, match %s\n", *file, r.Len(), r.MatchID)
}

func newLogger(jsonLogs bool) (*zap.Logger, error) {
	if jsonLogs {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
