package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"stratux-hud/internal/config"
	"stratux-hud/internal/display"
	"stratux-hud/internal/logging"
	"stratux-hud/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./stratux-hud.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// The terminal belongs to the HUD, so console logs go to memory and are
	// served at /api/logs.
	logs := web.NewLogBuffer(2000)
	logger, logCloser, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stderr: logs,
	})
	if err != nil {
		log.Fatalf("logging init failed: %v", err)
	}
	defer logCloser.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newLiveRuntime(cfg, logger, logs)
	if err != nil {
		logger.Error("runtime init failed", slog.Any("err", err))
		os.Exit(exitWithLogs(logs, logCloser))
	}
	if err := run(ctx, cfg, rt, logger, tcell.NewScreen); err != nil {
		logger.Error("stratux-hud stopped", slog.Any("err", err))
		os.Exit(exitWithLogs(logs, logCloser))
	}
}

// run owns the terminal; it is released on every return path, panics
// included.
func run(ctx context.Context, cfg config.Config, rt *liveRuntime, logger *slog.Logger, newScreen func() (tcell.Screen, error)) error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	d := display.New(screen)
	d.SetFlip(display.Flip{Horizontal: cfg.FlipHorizontal, Vertical: cfg.FlipVertical})

	logger.Info("stratux-hud starting", slog.String("data_source", cfg.DataSource))
	defer logger.Info("stratux-hud stopping")
	return rt.Run(ctx, d)
}

// exitWithLogs prints the newest console lines, which never reached the
// terminal, and closes the log file.
func exitWithLogs(logs *web.LogBuffer, logCloser io.Closer) int {
	lines, _ := logs.Tail(20)
	for _, l := range lines {
		fmt.Fprintln(os.Stderr, l)
	}
	_ = logCloser.Close()
	return 1
}
