// cmd/ingest/setup.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// environment is what every subcommand starts from
type environment struct {
	cfg      *config.Config
	registry *source.Registry
	logger   *zap.Logger
}

// loadEnvironment reads configuration, builds the logger and the source
// registry with overrides applied. Store flags are exported before loading so
// they win over .env and the environment alike.
func loadEnvironment(cmd *cobra.Command, g *globalFlags) (*environment, error) {
	if g.store != "" {
		if err := os.Setenv("STORE_DRIVER", g.store); err != nil {
			return nil, err
		}
	}
	if g.sqlitePath != "" {
		if err := os.Setenv("SQLITE_PATH", g.sqlitePath); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if g.logLevel != "" {
		level = g.logLevel
	}
	logger, err := newLogger(level, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	registry := source.Builtin()
	applyRowDelays(registry, cfg)

	overrides, err := loadOverrides(cmd, g)
	if err != nil {
		return nil, err
	}
	if err := registry.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		logger.Debug("Applied source overrides", zap.String("file", g.sourcesFile), zap.Int("sources", len(overrides)))
	}

	return &environment{cfg: cfg, registry: registry, logger: logger}, nil
}

// loadOverrides reads the override file. The default file may be absent; a
// file named on the command line must exist.
func loadOverrides(cmd *cobra.Command, g *globalFlags) (map[string]config.SourceOverride, error) {
	return config.LoadSourceOverrides(g.sourcesFile, cmd.Flags().Changed("sources-file"))
}

// applyRowDelays sets the configured pause on row-by-row sources. Embedding
// sources use the longer embedding delay. The override file is applied after
// this and can still set a delay per source.
func applyRowDelays(registry *source.Registry, cfg *config.Config) {
	for _, def := range registry.List() {
		if def.Mode != source.ModeRow {
			continue
		}
		if def.Embed {
			def.RowDelay = cfg.EmbedRowDelay
		} else {
			def.RowDelay = cfg.RowDelay
		}
	}
}

// connect opens the configured store and verifies it answers
func connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*connector.SQLStore, error) {
	store, err := connector.NewStoreFactory(cfg.Store, logger).CreateStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("store is not reachable: %w", err)
	}
	return store, nil
}

// needsEmbedder reports whether any selected source embeds its records
func needsEmbedder(defs []*source.Definition) bool {
	for _, def := range defs {
		if def.Embed {
			return true
		}
	}
	return false
}
