package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/config"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/daemon"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/github"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/loader"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/logging"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/tui"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/view"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	noTUI := flag.Bool("no-tui", false, "disable TUI mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	enableTUI := !*noTUI && cfg.TUI.Enabled &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	logger, err := logging.SetupLogger(cfg.LogFile, cfg.Log.Level, enableTUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseFile()

	if err := run(cfg, logger, enableTUI); err != nil {
		logger.Error("perfdash failed", "err", err)
		logging.CloseFile()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, enableTUI bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ld := loader.New(logger.With("component", "loader"), sources(cfg, logger)...)
	ctrl := view.NewController(view.Options{
		LeaderboardSize: cfg.TUI.LeaderboardSize,
		TopPerformers:   cfg.TUI.TopPerformers,
	}, logger.With("component", "view"))

	var changes <-chan struct{}
	if cfg.Source.Watch && cfg.Source.File != "" {
		w, err := watcher.New(cfg.Source.File, logger.With("component", "watcher"))
		if err != nil {
			logger.Warn("file watch disabled", "path", cfg.Source.File, "err", err)
		} else {
			defer w.Close()
			go w.Run(ctx)
			changes = w.Changes()
		}
	}

	if enableTUI {
		logger.Info("perfdash starting", "mode", "tui")
		m := tui.NewModel(ctx, ctrl, ld, tui.Options{
			PollInterval:   cfg.PollInterval,
			SearchDebounce: cfg.TUI.SearchDebounce,
			FetchTimeout:   cfg.Source.Timeout,
			Changes:        changes,
		}, logger.With("component", "tui"))

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	}

	logger.Info("perfdash starting", "mode", "headless")
	d := daemon.New(ld, ctrl, cfg.PollInterval, logger.With("component", "daemon"),
		daemon.WithChanges(changes),
		daemon.WithFetchTimeout(cfg.Source.Timeout))

	// SIGHUP forces a manual refresh in headless mode.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				d.Refresh()
			}
		}
	}()

	return d.Run(ctx)
}

// sources builds the fallback chain: remote URL, then gist, then local file.
func sources(cfg *config.Config, logger *slog.Logger) []loader.Source {
	var out []loader.Source
	if cfg.Source.URL != "" {
		out = append(out, loader.NewHTTPSource(cfg.Source.URL, cfg.Source.Timeout))
	}
	if g := cfg.Source.Gist; g.ID != "" {
		if g.User != "" {
			out = append(out, loader.NewHTTPSource(github.RawGistURL(g.User, g.ID, g.Filename), cfg.Source.Timeout))
		} else {
			out = append(out, loader.NewGistSource(github.NewClient(logger), g.ID, g.Filename))
		}
	}
	if cfg.Source.File != "" {
		out = append(out, &loader.FileSource{Path: cfg.Source.File})
	}
	return out
}
