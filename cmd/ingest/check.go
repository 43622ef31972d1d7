// cmd/ingest/check.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

const sampleText = "connection test"

func checkCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [source...]",
		Short: "Verify configuration, store access, embeddings and data folders",
		Long: `Check runs the same preparation as run without loading anything: it
connects to the store, reads one row from each selected table, sends one sample text
to the embedding API when a selected source embeds, and lists the files each
source would load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd, g, args)
		},
	}
}

// checker prints one line per check and remembers failures
type checker struct {
	out    io.Writer
	failed int
}

func (c *checker) ok(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "[ OK ] "+format+"\n", args...)
}

func (c *checker) warn(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "[WARN] "+format+"\n", args...)
}

func (c *checker) fail(format string, args ...interface{}) {
	c.failed++
	fmt.Fprintf(c.out, "[FAIL] "+format+"\n", args...)
}

func check(cmd *cobra.Command, g *globalFlags, names []string) error {
	c := &checker{out: cmd.OutOrStdout()}

	env, err := loadEnvironment(cmd, g)
	if err != nil {
		c.fail("configuration: %v", err)
		return errors.New("configuration check failed")
	}
	defer func() { _ = env.logger.Sync() }()
	c.ok("configuration loaded (store driver %s, data root %s)", env.cfg.Store.Driver, env.cfg.DataRoot)

	defs, err := env.registry.Resolve(names)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	store, err := connect(ctx, env.cfg, env.logger)
	if err != nil {
		c.fail("store: %v", err)
	} else {
		defer func() { _ = store.Close() }()
		if version, err := store.Version(ctx); err == nil {
			c.ok("store reachable: %s", version)
		} else {
			c.ok("store reachable")
		}
		checkTables(ctx, c, store, defs)
	}

	if needsEmbedder(defs) {
		checkEmbedding(ctx, c, env)
	}

	checkFolders(c, defs, env.cfg.DataRoot)

	if c.failed > 0 {
		return fmt.Errorf("%d check(s) failed", c.failed)
	}
	return nil
}

// checkTables reads one id from each distinct table
func checkTables(ctx context.Context, c *checker, store connector.RowStore, defs []*source.Definition) {
	seen := make(map[string]bool)
	for _, def := range defs {
		if seen[def.Table] {
			continue
		}
		seen[def.Table] = true

		if _, err := store.Select(ctx, def.Table, []string{"id"}, nil, 1); err != nil {
			c.fail("table %s: %v", def.Table, err)
			continue
		}
		c.ok("table %s readable", def.Table)
	}
}

// checkEmbedding embeds one sample text and compares the vector width with the
// configured column width
func checkEmbedding(ctx context.Context, c *checker, env *environment) {
	if !env.cfg.Embedding.Enabled {
		c.warn("embeddings disabled; documents will be stored without vectors")
		return
	}

	embedder, err := newEmbedder(env.cfg, env.logger)
	if err != nil {
		c.fail("embeddings: %v", err)
		return
	}

	vec, err := embedder.Embed(ctx, sampleText)
	if err != nil {
		c.fail("embeddings: %v", err)
		return
	}
	if want := env.cfg.Embedding.Dimensions; len(vec) != want {
		c.warn("embeddings: model %s returned %d dimensions, EMBEDDING_DIMENSIONS is %d",
			env.cfg.Embedding.Model, len(vec), want)
		return
	}
	c.ok("embeddings: model %s returned %d dimensions", env.cfg.Embedding.Model, len(vec))
	env.logger.Debug("Embedding check succeeded", zap.Int("dimensions", len(vec)))
}

// checkFolders lists the files each source would load. An empty folder is a
// warning; a missing one fails because run would abort that source.
func checkFolders(c *checker, defs []*source.Definition, root string) {
	for _, def := range defs {
		dir := def.Dir(root)
		files, err := def.Files(dir)
		if err != nil {
			c.fail("%s: %v", def.Name, err)
			continue
		}
		if len(files) == 0 {
			c.warn("%s: no files matching %v in %s", def.Name, def.Patterns, dir)
			continue
		}

		var rows int
		for _, file := range files {
			n, err := reader.CountRows(file, def.Reader)
			if err != nil {
				c.warn("%s: %s is not readable: %v", def.Name, filepath.Base(file), err)
				continue
			}
			rows += n
		}
		c.ok("%s: %d file(s), %d data rows in %s", def.Name, len(files), rows, dir)
	}
}
