package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinemde/patrol/patrol"
)

// app carries state resolved by the root command for its subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    patrol.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "patrol",
		Short:         "Simulate a guard patrol and find loop-inducing obstacle placements",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(visitCmd(a))
	cmd.AddCommand(loopsCmd(a))
	cmd.AddCommand(renderCmd(a))
	cmd.AddCommand(scenariosCmd())
	return cmd
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := patrol.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	cfg.Logger = logger
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// loadPuzzle resolves the puzzle from --scenario, a file argument, or "-"
// for stdin.
func (a *app) loadPuzzle(cmd *cobra.Command, args []string, scenario string) (*patrol.Puzzle, error) {
	if scenario != "" {
		info := patrol.GetScenario(scenario)
		if info == nil {
			return nil, fmt.Errorf("unknown scenario %q (see 'patrol scenarios')", scenario)
		}
		return info.Puzzle()
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a grid file, '-' for stdin, or --scenario is required")
	}
	if args[0] == "-" {
		return patrol.ReadPuzzle(cmd.InOrStdin())
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open grid: %w", err)
	}
	defer f.Close()
	return patrol.ReadPuzzle(f)
}

// startSession opens a session and logs its events at debug level until the
// returned stop function closes it.
func (a *app) startSession(p *patrol.Puzzle) (*patrol.Session, func()) {
	session := patrol.NewSession(p, &a.cfg)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range session.Events() {
			a.logger.Debug("session event", "session_id", ev.SessionID, "kind", string(ev.Kind), "data", ev.Data)
		}
	}()
	return session, func() {
		session.Close()
		<-done
	}
}
