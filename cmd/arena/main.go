package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kumite/kumite/internal/agent"
	"github.com/kumite/kumite/internal/arena"
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/bt"
	"github.com/kumite/kumite/internal/core/events"
	"github.com/kumite/kumite/internal/core/observability/log"
	"github.com/kumite/kumite/internal/core/ratings"
	"github.com/kumite/kumite/internal/server"
)

const (
	actionsPath = "configs/actions.yaml"
	treePath    = "configs/trees/default.yaml"
	ratingsPath = "kumite.db"

	frameDelay = 16 * time.Millisecond
	restDelay  = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Println("Error running arena:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.New(log.LevelInfo)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-stopCh
		cancel()
	}()

	space, err := action.LoadFile(actionsPath)
	if err != nil {
		return fmt.Errorf("load action space: %w", err)
	}
	catalog, err := action.Build(space, logger)
	if err != nil {
		return fmt.Errorf("build action catalog: %w", err)
	}

	loader := bt.NewLoader(catalog, bt.DefaultProvider(), logger)
	watcher, err := bt.NewWatcher(loader, treePath, logger)
	if err != nil {
		return fmt.Errorf("watch behavior tree: %w", err)
	}
	defer watcher.Close()

	store, err := ratings.NewSQLiteStore(ratingsPath)
	if err != nil {
		return fmt.Errorf("open ratings store: %w", err)
	}
	defer store.Close()
	book := ratings.NewBook(store, ratings.Config{}, logger)

	hub := events.NewHub()
	defer hub.Close()

	spectate := server.NewSpectateServer(hub, catalog, server.Config{}, logger)
	if err = spectate.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = spectate.Stop(shutdownCtx)
	}()

	// The tree-driven fighter picks up edits to the tree file mid-run.
	fighter := agent.NewBTAgent("fighter", watcher.Current(), catalog, logger)
	watcher.OnChange(fighter.SetTree)
	rival := agent.NewRandomAgent("rival", catalog, time.Now().UnixNano())

	for ctx.Err() == nil {
		env := arena.NewStickySkip(
			arena.NewSimEnv(arena.SimConfig{}, catalog.Buttons()),
			4, 0.25, time.Now().UnixNano(),
		)
		match := arena.NewMatch(fighter, rival, env, catalog, arena.MatchConfig{
			FrameDelay: frameDelay,
			Hub:        hub,
			Log:        logger,
		})
		res, err := match.Run(ctx)
		_ = env.Close()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("run match: %w", err)
		}

		outcome := ratings.OutcomeDraw
		switch res.Winner {
		case 1:
			outcome = ratings.OutcomeA
		case 2:
			outcome = ratings.OutcomeB
		}
		if _, _, err = book.Record(ctx, fighter.Name(), rival.Name(), outcome); err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("record match: %w", err)
		}

		select {
		case <-ctx.Done():
		case <-time.After(restDelay):
		}
	}
	return nil
}
