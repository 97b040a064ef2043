package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"fillScope/internal/exchange"
	"fillScope/internal/model"
	"fillScope/internal/storage"
)

// ChainReader is the node-side surface the scanner depends on.
type ChainReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 common.Hash) ([]types.Log, error)
}

// Config fixes the scan target: one chain, one set of exchange contracts,
// one event topic. The topic hash and decoder are set at construction and
// never recomputed.
type Config struct {
	ChainID      uint64
	Addresses    []common.Address
	Topic0       common.Hash
	MaxRetries   int
	RetryBackoff time.Duration
}

// Scanner drives the chain reader and decoder across a block range in
// adaptively sized windows, persisting fills and the checkpoint after each
// window. At most one scanner may be active per chain id; the store does
// not arbitrate concurrent writers.
type Scanner struct {
	cfg     Config
	chain   ChainReader
	store   storage.FillStore
	decoder *exchange.Decoder
	logger  *zap.Logger
}

// NewScanner builds a Scanner with its dependencies. Zero-value config
// fields fall back to the Polygon defaults.
func NewScanner(cfg Config, reader ChainReader, store storage.FillStore, logger *zap.Logger) *Scanner {
	if cfg.ChainID == 0 {
		cfg.ChainID = exchange.DefaultChainID
	}
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = exchange.DefaultAddresses()
	}
	if cfg.Topic0 == (common.Hash{}) {
		cfg.Topic0 = exchange.OrderFilledTopic
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		cfg:     cfg,
		chain:   reader,
		store:   store,
		decoder: exchange.NewDecoder(cfg.ChainID),
		logger:  logger,
	}
}

// Options bound a single Scan call. The scanner never looks up the
// checkpoint itself; a resuming caller passes checkpoint+1 as FromBlock.
type Options struct {
	FromBlock    uint64
	ToBlock      uint64
	ChunkSize    uint64
	MinChunkSize uint64
	OnProgress   func(model.Progress)
}

// Scan processes [FromBlock, ToBlock] left to right. Each window is fetched
// with getLogs, decoded, persisted, and checkpointed before the next window
// starts; fills are durable before the checkpoint advances, so a crashed
// run resumes from checkpoint+1 without losing or duplicating rows.
//
// A getLogs failure halves the window (floored at MinChunkSize) and retries
// the same start block. The window never grows back within the same call.
// Failure at the minimum size is fatal and carries the failing range and
// the last checkpoint written by this call.
func (s *Scanner) Scan(ctx context.Context, opts Options) (model.ScanResult, error) {
	result := model.ScanResult{FromBlock: opts.FromBlock, ToBlock: opts.ToBlock}

	if s.chain == nil {
		return result, fmt.Errorf("chain reader is nil")
	}
	if s.store == nil {
		return result, fmt.Errorf("fill store is nil")
	}
	if opts.FromBlock > opts.ToBlock {
		return result, fmt.Errorf("from block %d is above to block %d", opts.FromBlock, opts.ToBlock)
	}
	if opts.ChunkSize == 0 || opts.MinChunkSize == 0 {
		return result, fmt.Errorf("chunk size and min chunk size must be greater than zero")
	}
	if opts.MinChunkSize > opts.ChunkSize {
		opts.MinChunkSize = opts.ChunkSize
	}

	started := time.Now()
	current := opts.ChunkSize
	chunkIndex := 0
	var lastCheckpoint uint64
	checkpointed := false

	start := opts.FromBlock
	for start <= opts.ToBlock {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var (
			logs []types.Log
			end  uint64
		)
		for {
			end = start + current - 1
			if end > opts.ToBlock || end < start {
				end = opts.ToBlock
			}

			var err error
			logs, err = s.chain.FilterLogs(ctx, start, end, s.cfg.Addresses, s.cfg.Topic0)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if current <= opts.MinChunkSize {
				return result, fmt.Errorf("get logs failed at min chunk %d for range [%d, %d], last checkpoint %s: %w",
					opts.MinChunkSize, start, end, checkpointLabel(lastCheckpoint, checkpointed), err)
			}

			next := current / 2
			if next < opts.MinChunkSize {
				next = opts.MinChunkSize
			}
			s.logger.Warn("get logs failed, shrinking chunk",
				zap.Error(err),
				zap.Uint64("from", start),
				zap.Uint64("to", end),
				zap.Uint64("chunk", current),
				zap.Uint64("next_chunk", next),
			)
			current = next
		}

		fills, err := s.decodeWindow(ctx, logs)
		if err != nil {
			return result, err
		}
		result.ScannedLogs += len(logs)
		result.DecodedFills += len(fills)

		// Fills first, checkpoint second. The reverse order could skip a
		// crashed window on resume.
		if err := s.store.UpsertFills(ctx, fills); err != nil {
			return result, fmt.Errorf("store fills [%d, %d]: %w", start, end, err)
		}
		if err := s.store.SetCheckpoint(ctx, s.cfg.ChainID, end); err != nil {
			return result, fmt.Errorf("set checkpoint %d: %w", end, err)
		}
		lastCheckpoint, checkpointed = end, true
		chunkIndex++

		if opts.OnProgress != nil {
			opts.OnProgress(model.Progress{
				ChunkIndex:   chunkIndex,
				FromBlock:    opts.FromBlock,
				ToBlock:      opts.ToBlock,
				StartBlock:   start,
				EndBlock:     end,
				ScannedLogs:  result.ScannedLogs,
				DecodedFills: result.DecodedFills,
				Elapsed:      time.Since(started),
			})
		}
		s.logger.Info("window complete",
			zap.Int("chunk_index", chunkIndex),
			zap.Uint64("from", start),
			zap.Uint64("to", end),
			zap.Int("logs", len(logs)),
			zap.Int("fills", len(fills)),
		)

		start = end + 1
	}

	return result, nil
}

func (s *Scanner) decodeWindow(ctx context.Context, logs []types.Log) ([]model.Fill, error) {
	tsByBlock := make(map[uint64]uint64)
	fills := make([]model.Fill, 0, len(logs))
	for _, lg := range logs {
		ts, ok := tsByBlock[lg.BlockNumber]
		if !ok {
			var err error
			ts, err = s.blockTimestampWithRetry(ctx, lg.BlockNumber)
			if err != nil {
				return nil, fmt.Errorf("block timestamp %d: %w", lg.BlockNumber, err)
			}
			tsByBlock[lg.BlockNumber] = ts
		}

		fill, ok := s.decoder.Decode(lg, ts)
		if !ok {
			// Unrecognized layout. Dropped, visible only as the gap between
			// scanned and decoded counts.
			s.logger.Debug("unrecognized log layout",
				zap.String("tx_hash", lg.TxHash.Hex()),
				zap.Uint("log_index", lg.Index),
			)
			continue
		}
		fills = append(fills, fill)
	}
	return fills, nil
}

func (s *Scanner) blockTimestampWithRetry(ctx context.Context, number uint64) (uint64, error) {
	var ts uint64
	err := withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = s.chain.BlockTimestamp(ctx, number)
		if err != nil {
			s.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", number))
		}
		return err
	})
	return ts, err
}

func checkpointLabel(block uint64, ok bool) string {
	if !ok {
		return "none"
	}
	return fmt.Sprintf("%d", block)
}
