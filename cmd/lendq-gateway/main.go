package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/openalpha/lendq/api"
	"github.com/openalpha/lendq/metrics"
	"github.com/openalpha/lendq/x/liquidation/client/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	config := api.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "lendq-gateway",
		Short: "Read-only HTTP and WebSocket gateway for the liquidation queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVar(&config.Node, "node", config.Node, "CometBFT RPC endpoint")
	f.StringVar(&config.Listen, "listen", config.Listen, "HTTP listen address")
	f.DurationVar(&config.PollInterval, "poll-interval", config.PollInterval, "interval between liquidation polls")
	f.DurationVar(&config.QueryTimeout, "query-timeout", config.QueryTimeout, "timeout of a single ABCI query")
	f.Float64Var(&config.RateLimit, "rate-limit", config.RateLimit, "requests per second per client IP (0 disables)")
	f.IntVar(&config.Burst, "burst", config.Burst, "rate limiter burst")
	f.IntVar(&config.Window, "window", config.Window, "recent liquidations kept in memory")
	return cmd
}

func run(ctx context.Context, config *api.Config) error {
	logger := log.NewLogger(os.Stderr)

	chain, err := api.NewChainReader(config.Node, config.QueryTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", config.Node, err)
	}
	server := api.NewServer(config, cli.NewStoreReaderWith(chain), metrics.GetCollector(), logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = server.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if stopErr := server.Stop(shutdownCtx); stopErr != nil {
		logger.Error("gateway stop failed", "error", stopErr)
	}
	logger.Info("gateway exited")
	return err
}
