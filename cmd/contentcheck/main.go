package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/milk9111/fightcore/prefabs"
)

func main() {
	dir := flag.String("dir", "", "content directory (empty checks the embedded content)")
	watch := flag.Bool("watch", false, "re-check whenever a content file changes")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	loader := prefabs.NewLoader(prefabs.WithDir(*dir), prefabs.WithLogger(logger))
	ok := check(loader)
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}
	if *dir == "" {
		logger.Fatal("-watch needs -dir")
	}

	w, err := prefabs.NewWatcher(logger, *dir)
	if err != nil {
		logger.Fatal("watch", zap.Error(err))
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case c, open := <-w.Events:
			if !open {
				return
			}
			logger.Info("content changed",
				zap.String("path", c.Path),
				zap.String("archetype", c.Archetype()),
				zap.Bool("removed", c.Removed),
			)
			check(loader)
		case err, open := <-w.Errors:
			if !open {
				return
			}
			logger.Error("watch", zap.Error(err))
		}
	}
}

// check builds every archetype the loader can see and prints each problem.
func check(loader *prefabs.Loader) bool {
	names, err := loader.Names()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list content: %v\n", err)
		return false
	}
	ok := true
	for _, name := range names {
		if _, err := loader.Archetype(name); err != nil {
			ok = false
			problems := prefabs.ValidationErrors(err)
			if len(problems) == 0 {
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", name, err)
				continue
			}
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "FAIL %v\n", p)
			}
			continue
		}
		fmt.Printf("ok   %s\n", name)
	}
	return ok
}
