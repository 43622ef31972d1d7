// Package main provides the ingest binary entry point.
// Ingest loads marketing and sales CSV exports into the assistant's row store,
// one source at a time, skipping records that are already stored.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ingest"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	logLevel    string
	sourcesFile string
	store       string
	sqlitePath  string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Load CSV exports into the assistant's store",
		Long: `Ingest reads the CSV exports of each configured source (Meta ads,
organic social, Uber Eats, Power BI, TikTok ads, Google Ads), normalizes
every row and inserts the rows that are not stored yet.

Configuration comes from the environment (a .env file is read when present)
and an optional YAML file that overrides per-source folders, tables and
batch settings.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&g.sourcesFile, "sources-file", "sources.yaml", "Per-source override file (YAML); ignored when missing unless set explicitly")
	cmd.PersistentFlags().StringVar(&g.store, "store", "", "Target store driver (postgres, sqlite); defaults to STORE_DRIVER")
	cmd.PersistentFlags().StringVar(&g.sqlitePath, "sqlite-path", "", "SQLite database file; defaults to SQLITE_PATH")

	cmd.AddCommand(runCmd(&g))
	cmd.AddCommand(sourcesCmd(&g))
	cmd.AddCommand(checkCmd(&g))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds the process logger. format is json or console.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
