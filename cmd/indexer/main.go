package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fillScope/internal/exchange"
)

func main() {
	root := &cobra.Command{
		Use:          "fillscope",
		Short:        "On-chain fill indexer for the Polygon CTF exchanges",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a block range for OrderFilled events",
		RunE:  runScan,
	}

	scanCmd.Flags().String("rpc", "", "node RPC URL")
	scanCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	scanCmd.Flags().Uint64("chain-id", exchange.DefaultChainID, "chain id stamped on records")
	scanCmd.Flags().StringSlice("address", exchange.DefaultExchangeAddresses, "exchange contract addresses (comma-separated)")
	scanCmd.Flags().Uint64("from", 0, "start block (inclusive); 0 resumes from the checkpoint, a non-zero value overrides it")
	scanCmd.Flags().Uint64("to", 0, "end block (inclusive); 0 means latest")
	scanCmd.Flags().Uint64("from-time", 0, "start timestamp (unix seconds), used when --from is 0")
	scanCmd.Flags().Uint64("to-time", 0, "end timestamp (unix seconds), used when --to is 0")
	scanCmd.Flags().Uint64("chunk-size", 2000, "blocks per getLogs window")
	scanCmd.Flags().Uint64("min-chunk-size", 10, "window floor when shrinking on failure")
	scanCmd.Flags().Int("max-retries", 5, "retry attempts for block timestamp lookups")
	scanCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	scanCmd.Flags().Bool("dry-run", false, "decode into an in-memory store instead of Postgres")
	scanCmd.Flags().String("metrics-addr", "", "listen address for Prometheus metrics (empty disables)")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Print indexed fills for outcome token ids as JSON lines",
		RunE:  runQuery,
	}

	queryCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	queryCmd.Flags().StringSlice("token-id", nil, "outcome token ids (comma-separated)")
	queryCmd.Flags().Uint64("from-time", 0, "lower timestamp bound (unix seconds)")
	queryCmd.Flags().Uint64("to-time", 0, "upper timestamp bound (unix seconds)")
	queryCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(queryCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve-block",
		Short: "Print the first block at or after a timestamp",
		RunE:  runResolveBlock,
	}

	resolveCmd.Flags().String("rpc", "", "node RPC URL")
	resolveCmd.Flags().Uint64("timestamp", 0, "target timestamp (unix seconds)")

	root.AddCommand(resolveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
