package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fillScope/internal/chain"
	"fillScope/internal/config"
	"fillScope/internal/exchange"
	"fillScope/internal/indexer"
	"fillScope/internal/metrics"
	"fillScope/internal/model"
	"fillScope/internal/storage"
	"fillScope/internal/storage/postgres"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !cfg.DryRun && cfg.PgDSN == "" {
		return fmt.Errorf("pg dsn is required unless --dry-run is set")
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = exchange.DefaultChainID
	}

	addresses, err := indexer.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	nodeChainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	if !nodeChainID.IsUint64() || nodeChainID.Uint64() != cfg.ChainID {
		logger.Warn("node chain id differs from configured chain id",
			zap.String("node_chain_id", nodeChainID.String()),
			zap.Uint64("chain_id", cfg.ChainID),
		)
	}

	var (
		store    storage.FillStore
		memStore *storage.MemoryStore
	)
	if cfg.DryRun {
		memStore = storage.NewMemoryStore()
		store = memStore
	} else {
		pgStore, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	}

	from := cfg.FromBlock
	if from == 0 && cfg.FromTime > 0 {
		from, err = indexer.BlockAtOrAfter(ctx, chainClient, cfg.FromTime)
		if err != nil {
			return fmt.Errorf("resolve from block: %w", err)
		}
	}

	to := cfg.ToBlock
	if to == 0 {
		if cfg.ToTime > 0 {
			to, err = indexer.BlockAtOrAfter(ctx, chainClient, cfg.ToTime)
		} else {
			to, err = chainClient.LatestBlockNumber(ctx)
		}
		if err != nil {
			return fmt.Errorf("resolve to block: %w", err)
		}
	}

	cp, ok, err := store.GetCheckpoint(ctx, cfg.ChainID)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if resumed := resumeFrom(cfg.FromBlock, cfg.FromTime, from, cp, ok); resumed != from {
		logger.Info("resume from checkpoint", zap.Uint64("last_scanned", cp), zap.Uint64("from", resumed))
		from = resumed
	}

	if from > to {
		logger.Info("nothing to scan", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, cfg.MetricsAddr, logger)
	}

	scanner := indexer.NewScanner(indexer.Config{
		ChainID:      cfg.ChainID,
		Addresses:    addresses,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, store, logger)

	var prev model.Progress
	onProgress := func(p model.Progress) {
		metrics.ObserveProgress(cfg.ChainID, prev, p)
		prev = p
		logger.Info("scan progress",
			zap.Int("chunk_index", p.ChunkIndex),
			zap.Uint64("end_block", p.EndBlock),
			zap.Uint64("to_block", p.ToBlock),
			zap.Int("scanned_logs", p.ScannedLogs),
			zap.Int("decoded_fills", p.DecodedFills),
			zap.Duration("elapsed", p.Elapsed),
			zap.Duration("eta", estimateRemaining(p)),
		)
	}

	logger.Info("scan start",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Uint64("chunk_size", cfg.ChunkSize),
		zap.Uint64("min_chunk_size", cfg.MinChunkSize),
		zap.Int("addresses", len(addresses)),
		zap.String("topic0", exchange.OrderFilledTopic.Hex()),
		zap.Bool("dry_run", cfg.DryRun),
	)

	result, err := scanner.Scan(ctx, indexer.Options{
		FromBlock:    from,
		ToBlock:      to,
		ChunkSize:    cfg.ChunkSize,
		MinChunkSize: cfg.MinChunkSize,
		OnProgress:   onProgress,
	})
	if err != nil {
		return err
	}

	logger.Info("scan complete",
		zap.Uint64("from", result.FromBlock),
		zap.Uint64("to", result.ToBlock),
		zap.Int("scanned_logs", result.ScannedLogs),
		zap.Int("decoded_fills", result.DecodedFills),
	)
	if cfg.DryRun {
		logger.Info("dry run, fills were not persisted", zap.Int("fills", memStore.Len()))
	}
	return nil
}

// resumeFrom picks the scan start. An explicit --from or --from-time wins,
// so a deliberate backfill below the checkpoint is honored; otherwise the
// checkpoint, when present, resumes the scan at the next unscanned block.
func resumeFrom(explicitBlock, explicitTime, resolved uint64, checkpoint uint64, hasCheckpoint bool) uint64 {
	if explicitBlock != 0 || explicitTime != 0 {
		return resolved
	}
	if hasCheckpoint {
		return checkpoint + 1
	}
	return resolved
}

// estimateRemaining projects the time left from the blocks-per-second rate
// so far. Observational only.
func estimateRemaining(p model.Progress) time.Duration {
	done := p.EndBlock - p.FromBlock + 1
	total := p.ToBlock - p.FromBlock + 1
	if done == 0 || p.Elapsed <= 0 {
		return 0
	}
	return time.Duration(float64(p.Elapsed) * float64(total-done) / float64(done))
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}
