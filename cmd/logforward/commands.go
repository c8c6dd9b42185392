package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/logforward/config"
	"github.com/tailored-agentic-units/logforward/forwarder"
	"github.com/tailored-agentic-units/logforward/internal/output"
	"github.com/tailored-agentic-units/logforward/internal/replay"
	"github.com/tailored-agentic-units/logforward/observability"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "logforward",
		Short: "Route structured events and log records to a single consumer",
		Long: `logforward drives the event routing layer from the command line. It loads a
routing config, installs a text or JSON writer as the consumer and replays
NDJSON-encoded events and records through it.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to routing config (yaml, json or toml)")
	root.PersistentFlags().Bool("verbose", false, "Enable verbose logging to stderr")

	root.AddCommand(newReplayCommand(), newConfigCommand(), newVersionCommand())
	return root
}

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Route NDJSON events and records from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			out := cmd.OutOrStdout()
			if cfg.Output.Path != "" {
				f, err := os.OpenFile(cfg.Output.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open output: %w", err)
				}
				defer f.Close()
				out = f
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			stats, err := runReplay(ctx, cfg, in, out)
			if err != nil {
				return err
			}

			logger.Debug("replay complete",
				"events", stats.Events,
				"records", stats.Records,
				"skipped", stats.Skipped,
			)
			return nil
		},
	}
	cmd.Flags().String("max-level", "", "Facade filter level (overrides config)")
	cmd.Flags().String("format", "", "Output format: text|json (overrides config)")
	return cmd
}

func runReplay(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (replay.Stats, error) {
	reg := observability.NewRegistry()
	fwd := forwarder.New(reg, cfg.ForwarderOptions()...)

	w := output.New(out, output.Format(cfg.Output.Format))
	if err := cfg.Apply(reg, fwd, w, w); err != nil {
		return replay.Stats{}, err
	}

	return replay.Run(ctx, in, reg, fwd)
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective routing config as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().String("max-level", "", "Facade filter level (overrides config)")
	cmd.Flags().String("format", "", "Output format: text|json (overrides config)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "logforward %s\n", version)
		},
	}
}

// loadConfig reads --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := &config.Config{}
	overrides.MaxLevel, _ = cmd.Flags().GetString("max-level")
	overrides.Output.Format, _ = cmd.Flags().GetString("format")
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}
