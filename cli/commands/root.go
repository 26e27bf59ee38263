// Package commands implements the patrol command-line interface.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/erikhoward/patrol/core"
)

var (
	configPath string
	verbose    bool
	logFormat  string

	cfg    = DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Guard patrol simulator",
	Long: `Simulates a guard patrolling a grid and finds every single obstruction
that would trap the guard in a loop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if logFormat != "" {
			cfg.LogFormat = logFormat
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		l, err := newLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: auto, console, json")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds a zap logger writing to stderr. The "auto" format picks
// console output for terminals and JSON otherwise.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if format == "auto" {
		format = "json"
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = "console"
		}
	}

	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

// commandOutput returns the writer for command results.
func commandOutput(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// loadGrid parses the grid file at path.
func loadGrid(path string) (*core.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid: %w", err)
	}
	defer f.Close()

	g, err := core.ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid %s: %w", path, err)
	}
	logger.Debug("Loaded grid",
		zap.String("path", path),
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.Int("obstructions", g.ObstructionCount()),
	)
	return g, nil
}
