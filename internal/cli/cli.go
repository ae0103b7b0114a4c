package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vk/playtraversal/internal/app"
	"github.com/vk/playtraversal/internal/loop"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
	outputDir string
}

// config validates cfg after filling in the global flags.
func (g *globalFlags) config(cfg app.Config) (*app.Config, error) {
	cfg.LogLevel = g.logLevel
	cfg.LogFormat = g.logFormat
	cfg.OutputDir = g.outputDir
	out, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration validated.", "config", out)
	return out, nil
}

func (g *globalFlags) newApp(cmd *cobra.Command, cfg app.Config, extra ...loop.Observer) (*app.App, error) {
	c, err := g.config(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cmd.Context(), cmd.OutOrStdout(), c, extra...)
}

// NewRootCommand builds the playtrav command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "playtrav",
		Short:         "Sequence and drive play traversal loops",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Logging level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log output format: text or json (default text on a terminal, json otherwise)")
	rootCmd.PersistentFlags().StringVarP(&flags.outputDir, "output-dir", "o", "output", "Root directory for backdrops and saved latents")

	rootCmd.AddCommand(newPlanCommand(flags))
	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newServeCommand(flags))
	return rootCmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(outW)
	cmd.SetErr(outW)
	return cmd.ExecuteContext(ctx)
}
