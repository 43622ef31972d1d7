// cmd/ingest/run.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/embedding"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
	"github.com/cl0ver012/whd-ai-assistant/pkg/transfer"
)

type runFlags struct {
	folder       string
	clear        bool
	yes          bool
	batchSize    int
	noEmbed      bool
	createTables bool
	verify       bool
	metricsFile  string
}

func runCmd(g *globalFlags) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [source...]",
		Short: "Load the files of the named sources, or of every enabled source",
		Long: `Run loads every matching CSV file of each selected source. Records whose
natural key is already stored for the same file are skipped, so a rerun only
inserts what is new.

With --clear the target tables are emptied first. Each table is confirmed
interactively unless --yes is given; a clear that fails stops the sources
writing to that table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, g, f, args)
		},
	}

	cmd.Flags().StringVar(&f.folder, "folder", "", "Data folder for the named source (only with a single source)")
	cmd.Flags().BoolVar(&f.clear, "clear", false, "Delete existing rows of each target table before loading")
	cmd.Flags().BoolVar(&f.clear, "fresh", false, "Alias for --clear")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Clear without asking")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Records per insert for batch-mode sources; defaults to BATCH_SIZE")
	cmd.Flags().BoolVar(&f.noEmbed, "no-embed", false, "Store documents without calling the embedding API")
	cmd.Flags().BoolVar(&f.createTables, "create-tables", false, "Create missing target tables")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Count stored rows after each file")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write a Prometheus textfile snapshot of the run")

	return cmd
}

func run(cmd *cobra.Command, g *globalFlags, f runFlags, names []string) error {
	env, err := loadEnvironment(cmd, g)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	runID := uuid.New().String()
	logger := env.logger.With(zap.String("runID", runID))

	defs, err := selectSources(env.registry, names, f.folder)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return errors.New("no sources selected: every source is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := connect(ctx, env.cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}()

	var embedder embedding.Embedder
	if needsEmbedder(defs) && !f.noEmbed && env.cfg.Embedding.Enabled {
		embedder, err = newEmbedder(env.cfg, logger)
		if err != nil {
			return err
		}
	}

	batchSize := env.cfg.BatchSize
	if f.batchSize > 0 {
		batchSize = f.batchSize
	}

	opts := transfer.Options{
		DataRoot:      env.cfg.DataRoot,
		BatchSize:     batchSize,
		ClearPageSize: env.cfg.ClearPageSize,
		Clear:         f.clear,
		CreateTables:  f.createTables,
		Verify:        f.verify,
		Dimensions:    env.cfg.Embedding.Dimensions,
	}
	if f.clear && !f.yes {
		opts.Confirm = confirmClear(os.Stdin, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
	}

	manager := transfer.NewManager(store, embedder, opts, logger).WithRunID(runID)
	summary, runErr := manager.Run(ctx, defs)

	fmt.Fprint(cmd.OutOrStdout(), transfer.GenerateReport(summary))
	if v := manager.Verifier(); v != nil {
		printVerification(cmd.OutOrStdout(), v)
	}

	if f.metricsFile != "" {
		if err := manager.Metrics().WriteFile(f.metricsFile); err != nil {
			logger.Error("Failed to write metrics file", zap.String("path", f.metricsFile), zap.Error(err))
		}
	}

	if summary.Cancelled {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if runErr != nil {
		return fmt.Errorf("run stopped: %w", runErr)
	}
	if summary.Failed() {
		return errors.New("one or more sources were aborted")
	}
	return nil
}

// printVerification lists the files whose stored row count fell short
func printVerification(out io.Writer, v *transfer.Verifier) {
	short := v.Mismatches()
	fmt.Fprintf(out, "\nVerification: %d file(s) checked, %d short\n", len(v.Reports()), len(short))
	for _, r := range short {
		fmt.Fprintf(out, "- %s %s: expected %d rows, found %d\n", r.Table, r.File, r.Expected, r.Stored)
	}
}

// selectSources resolves source names and aliases. folder replaces the data
// folder of a single selected source.
func selectSources(registry *source.Registry, names []string, folder string) ([]*source.Definition, error) {
	defs, err := registry.Resolve(names)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		return defs, nil
	}
	if len(defs) != 1 {
		return nil, fmt.Errorf("--folder needs exactly one source, %d selected", len(defs))
	}
	def := defs[0].Clone()
	def.Folder = folder
	return []*source.Definition{def}, nil
}

// newEmbedder builds the embedding client with one retry after the
// configured delay
func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	client, err := embedding.NewGeminiClient(cfg.Embedding, logger)
	if err != nil {
		return nil, fmt.Errorf("embedding client: %w", err)
	}
	return embedding.WithRetry(client, cfg.EmbedRetryDelay, logger), nil
}

// confirmClear asks on out and reads the answer from in. Only "yes" clears.
// Without a terminal nobody can answer, so the clear is refused.
func confirmClear(in io.Reader, out io.Writer, interactive bool) func(table string, sources []string) bool {
	scanner := bufio.NewScanner(in)
	return func(table string, sources []string) bool {
		if !interactive {
			fmt.Fprintf(out, "Refusing to clear %s: stdin is not a terminal (use --yes)\n", table)
			return false
		}
		fmt.Fprintf(out, "Delete ALL rows in %s (sources: %s)? Type 'yes' to confirm: ",
			table, strings.Join(sources, ", "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false
		}
		return strings.EqualFold(strings.TrimSpace(scanner.Text()), "yes")
	}
}
