package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/drawbridge-dev/drawbridge/pkg/assets"
	"github.com/drawbridge-dev/drawbridge/pkg/driver"
	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
	"github.com/drawbridge-dev/drawbridge/pkg/scene"
	"github.com/drawbridge-dev/drawbridge/pkg/transport"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		cfg        = defaultServeConfig()
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the renderer bridge",
		Long: `Run the renderer bridge against a directory of scene scripts.

Scripts in the scripts directory are pushed to every connected renderer
and re-pushed when the files change. Assets referenced by scripts are
resolved from the assets directory.

Examples:
  drawbridge serve
  drawbridge serve --port=4000 --scripts=./scene --assets=./assets
  drawbridge serve --transport=tcp --host=renderer.local --port=4000
  drawbridge serve --config=drawbridge.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&cfg.Transport, "transport", "t", cfg.Transport,
		"Transport: tcp_server, tcp, unix or websocket")
	cmd.Flags().StringVarP(&cfg.Host, "host", "H", cfg.Host, "Remote host (tcp) or bind host (tcp_server)")
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "Remote or listen port")
	cmd.Flags().StringVar(&cfg.Path, "path", cfg.Path, "Unix socket path")
	cmd.Flags().StringVar(&cfg.URL, "url", cfg.URL, "WebSocket URL")
	cmd.Flags().IntVar(&cfg.ReconnectInterval, "reconnect", cfg.ReconnectInterval,
		"Reconnect interval in milliseconds")
	cmd.Flags().Uint32Var(&cfg.Design.Width, "design-width", cfg.Design.Width, "Design canvas width")
	cmd.Flags().Uint32Var(&cfg.Design.Height, "design-height", cfg.Design.Height, "Design canvas height")
	cmd.Flags().StringVar(&cfg.ScriptsDir, "scripts", cfg.ScriptsDir, "Directory of scene scripts")
	cmd.Flags().StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "Directory of fonts and images")
	cmd.Flags().StringVar(&cfg.AdminAddr, "admin", cfg.AdminAddr,
		"Admin endpoint address (empty disables)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON")

	return cmd
}

func runServe(cmd *cobra.Command, configPath string, flagCfg serveConfig) error {
	// Merge configuration layers: defaults, file, env, flags. The flag
	// struct already carries defaults, so file and env only overwrite
	// fields whose flags were not set explicitly.
	cfg := defaultServeConfig()
	if configPath != "" {
		if err := loadConfigFile(&cfg, configPath); err != nil {
			return err
		}
	}
	godotenv.Load() // a missing .env is fine
	applyEnv(&cfg)
	applyFlags(cmd, &cfg, flagCfg)

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	kind, err := transport.ParseKind(cfg.Transport)
	if err != nil {
		return err
	}

	// Scene: a viewport fed by the scripts directory.
	vp := scene.NewViewport()

	drvCfg := driver.DefaultConfig()
	drvCfg.Transport = transport.Config{
		Kind: kind,
		Host: cfg.Host,
		Port: cfg.Port,
		Path: cfg.Path,
		URL:  cfg.URL,
	}
	drvCfg.ReconnectInterval = time.Duration(cfg.ReconnectInterval) * time.Millisecond
	drvCfg.DesignWidth = cfg.Design.Width
	drvCfg.DesignHeight = cfg.Design.Height
	drvCfg.Source = vp
	drvCfg.Logger = logger
	if cfg.AssetsDir != "" {
		drvCfg.Assets = assets.NewDir(cfg.AssetsDir)
	}

	d, err := driver.New(drvCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ScriptsDir != "" {
		watcher := &scene.DirWatcher{
			Dir:      cfg.ScriptsDir,
			Viewport: vp,
			OnUpdate: func(ids []protocol.ID) { d.UpdateScripts(ids) },
			OnDelete: func(ids []protocol.ID) { d.DelScripts(ids) },
			Logger:   logger,
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		logger.Info("watching scripts", "dir", cfg.ScriptsDir, "scripts", vp.Len())
	}

	d.Start(ctx)
	logger.Info("driver started",
		"transport", cfg.Transport,
		"design", fmt.Sprintf("%dx%d", cfg.Design.Width, cfg.Design.Height))

	if cfg.AdminAddr != "" {
		go func() {
			logger.Info("admin endpoint", "addr", cfg.AdminAddr)
			if err := http.ListenAndServe(cfg.AdminAddr, d.AdminHandler()); err != nil {
				logger.Error("admin endpoint failed", "error", err)
			}
		}()
	}

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	d.SendQuit()
	d.Stop()
	return nil
}

// applyFlags copies explicitly-set flag values over cfg.
func applyFlags(cmd *cobra.Command, cfg *serveConfig, flagCfg serveConfig) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("transport", func() { cfg.Transport = flagCfg.Transport })
	set("host", func() { cfg.Host = flagCfg.Host })
	set("port", func() { cfg.Port = flagCfg.Port })
	set("path", func() { cfg.Path = flagCfg.Path })
	set("url", func() { cfg.URL = flagCfg.URL })
	set("reconnect", func() { cfg.ReconnectInterval = flagCfg.ReconnectInterval })
	set("design-width", func() { cfg.Design.Width = flagCfg.Design.Width })
	set("design-height", func() { cfg.Design.Height = flagCfg.Design.Height })
	set("scripts", func() { cfg.ScriptsDir = flagCfg.ScriptsDir })
	set("assets", func() { cfg.AssetsDir = flagCfg.AssetsDir })
	set("admin", func() { cfg.AdminAddr = flagCfg.AdminAddr })
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })
	set("log-json", func() { cfg.LogJSON = flagCfg.LogJSON })
}

func newLogger(cfg serveConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
