package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fillScope/internal/chain"
	"fillScope/internal/indexer"
)

func runResolveBlock(cmd *cobra.Command, _ []string) error {
	rpcURL, _ := cmd.Flags().GetString("rpc")
	timestamp, _ := cmd.Flags().GetUint64("timestamp")

	if rpcURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if timestamp == 0 {
		return fmt.Errorf("timestamp is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	block, err := indexer.BlockAtOrAfter(ctx, chainClient, timestamp)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), block)
	return nil
}
