// Command ids-mcp runs the IDS authoring MCP server over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/ids-mcp/internal/config"
	"github.com/HendryAvila/ids-mcp/internal/server"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ids-mcp",
		Short: "MCP server for authoring buildingSMART IDS documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ids-mcp %s\n", server.Version)
		},
	})

	return root
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, manager := server.New(&cfg, logger)
	sweeper := session.NewSweeper(manager, cfg.Session.CleanupInterval(), cfg.Session.Timeout(), logger)

	logger.Info("starting server",
		zap.String("name", cfg.Server.Name),
		zap.String("version", server.Version),
		zap.Duration("session_timeout", cfg.Session.Timeout()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sweeper.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	g.Go(func() error {
		stdio := mcpserver.NewStdioServer(s)
		stdio.SetErrorLogger(zap.NewStdLog(logger))
		if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			return fmt.Errorf("serving stdio: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newLogger builds the process logger. Stdout carries the MCP protocol,
// so all log output goes to stderr.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
