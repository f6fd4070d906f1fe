package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathoo/ascend/cli"
	"github.com/nathoo/ascend/config"
	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/loader"
	"github.com/nathoo/ascend/telemetry"
	"github.com/nathoo/ascend/tui"
)

type rootOptions struct {
	plain      bool
	trace      bool
	seed       int64
	script     string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "ascend",
		Short:         "A turn-based cultivation RPG for the terminal",
		Long:          "Ascend is a single-player cultivation RPG: train your Qi, fight in the wilds, break through to immortality.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("ascend {{.Version}} (commit %s, built %s)\n", commit, date))

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ascend/config.yaml)")

	f = cmd.Flags()
	f.BoolVar(&opts.plain, "plain", false, "use the line-oriented interface instead of the TUI")
	f.BoolVar(&opts.trace, "trace", false, "print emitted events after each command")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.StringVarP(&opts.script, "script", "s", "", "play commands from a file and echo them")

	cmd.AddCommand(
		newVersionCmd(),
		newClassesCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ascend %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the playable classes and their starting stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loader.LoadDefault()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.ClassTable(defs))
			for _, c := range state.ClassList(defs) {
				fmt.Fprintf(out, "%s: %s\n", c.Name, c.Description)
			}
			return nil
		},
	}
}

func runGame(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("plain") {
		cfg.Plain = opts.plain
	}
	if flags.Changed("trace") {
		cfg.Trace = opts.trace
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     version,
	})
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without tracing")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	defs, err := loader.LoadDefault()
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(defs, engine.Options{Seed: seed, Logger: logger})
	logger.Info("session started", "session", eng.SessionID, "seed", seed, "version", version)

	out := cmd.OutOrStdout()

	// Script mode: read commands from a file, force plain, echo commands.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := newCLI(eng, cfg, out)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		logEnd(logger, eng)
		return nil
	}

	if cfg.Plain || !isTerminal() {
		c := newCLI(eng, cfg, out)
		c.In = cmd.InOrStdin()
		c.Run(ctx)
		logEnd(logger, eng)
		return nil
	}

	_, err = tui.Run(ctx, eng, tui.Options{
		Trace:            cfg.Trace,
		TrainingInterval: cfg.TrainingInterval,
	})
	logEnd(logger, eng)
	return err
}

func newCLI(eng *engine.Engine, cfg *config.Config, out io.Writer) *cli.CLI {
	c := cli.New(eng)
	c.Out = out
	c.Trace = cfg.Trace
	c.TrainCycles = cfg.TrainCycles
	return c
}

func logEnd(logger *slog.Logger, eng *engine.Engine) {
	logger.Info("session finished", "session", eng.SessionID, "result", engine.SessionName(eng.Session()), "turns", eng.Turns())
}

// openLogger returns a JSON file logger, or a discarding one when path
// is empty.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
