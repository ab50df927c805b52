package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kastree-lang/kastree/internal/lsp"
)

// newLSPCommand creates the LSP command
func newLSPCommand(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the kastree Language Server Protocol (LSP) server.

This command starts an LSP server that provides IDE integration features including:
  • Diagnostics for syntax errors
  • Code completion
  • Go-to-definition
  • Hover information
  • Find references
  • Document and workspace symbols
  • Document formatting

The LSP server communicates via JSON-RPC over stdin/stdout.
It is typically started automatically by your editor/IDE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.lspLogger(logFile)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			server := lsp.NewServer(logger, a.fs)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write server logs to this file instead of stderr")

	return cmd
}

// lspLogger logs JSON to stderr or logFile. Stdout carries the protocol.
func (a *app) lspLogger(logFile string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(a.config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if logFile != "" {
		zapConfig.OutputPaths = []string{logFile}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
