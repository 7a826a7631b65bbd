// Alley Cats is a hot-seat board game for two to four cats competing for
// the trust of the yard's owners.
// Usage: alleycats [--version] [--plain] [--config <file>] [--script <file>] [--seed <n>] [--trace]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/cli"
	"github.com/nathoo/alleycats/config"
	"github.com/nathoo/alleycats/engine"
	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/loader"
	"github.com/nathoo/alleycats/logging"
	"github.com/nathoo/alleycats/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print the version and exit")
		plain       = flag.Bool("plain", false, "use the plain line-based interface")
		configFile  = flag.String("config", "", "YAML config file")
		scriptFile  = flag.String("script", "", "read answers from a file (implies --plain)")
		seed        = flag.Int64("seed", 0, "random seed (0 = from config, or the clock)")
		trace       = flag.Bool("trace", false, "show event and effect trace output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("alleycats %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	if err := run(*configFile, *scriptFile, *seed, *plain, *trace); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, scriptFile string, seed int64, plain, trace bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	useTUI := scriptFile == "" && !plain && cfg.UI == config.UITUI && isTerminal()

	log, err := newLogger(cfg.Log, useTUI)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	g, err := newGame(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if useTUI {
		_, err := tui.Run(ctx, g, trace)
		return err
	}

	c := cli.New()
	c.Trace = trace
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	err = c.Run(ctx, engine.New(g, nil, c.Agent()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newLogger builds the game logger. The full-screen interface owns the
// terminal, so it only logs when a log file is configured.
func newLogger(cfg config.LogConfig, useTUI bool) (*zap.Logger, error) {
	if useTUI && cfg.File == "" {
		return zap.NewNop(), nil
	}
	return logging.New(cfg)
}

// newGame loads the map and content and seats the configured players.
func newGame(cfg config.Config, log *zap.Logger) (*state.Game, error) {
	r := rng.New(cfg.Seed)
	log.Info("starting game", zap.Int64("seed", cfg.Seed), zap.Strings("players", cfg.Players))

	board, err := loader.LoadMap(cfg.Map, log)
	if err != nil {
		return nil, fmt.Errorf("loading map: %w", err)
	}

	var content *loader.Content
	if cfg.Cards != "" && cfg.Agendas != "" {
		content, err = loader.LoadFiles(cfg.Cards, cfg.Agendas, log)
	} else {
		content, err = loader.Load(cfg.Content, log)
	}
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	deck, agendas := loader.Build(content, r, log)
	g := state.NewGame(board, deck, agendas, r, log, cfg.Settings())
	for _, name := range cfg.Players {
		if _, err := g.AddPlayer(name); err != nil {
			return nil, fmt.Errorf("seating %s: %w", name, err)
		}
	}
	return g, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
