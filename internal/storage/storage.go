package storage

import (
	"context"

	"fillScope/internal/model"
)

// TimeRange bounds a query by block timestamp (Unix seconds, inclusive).
// A zero value leaves the corresponding side unbounded.
type TimeRange struct {
	From uint64
	To   uint64
}

// FillStore is the durable home of decoded fills and the per-chain scan
// checkpoint. The scan orchestrator is the only writer; query callers only
// read. The store does not enforce checkpoint monotonicity, that is the
// single-writer caller's contract.
type FillStore interface {
	// UpsertFills inserts fills idempotently on (chain_id, tx_hash,
	// log_index). Conflicting keys are ignored, never overwritten.
	UpsertFills(ctx context.Context, fills []model.Fill) error

	// SetCheckpoint upserts the highest fully scanned block for a chain.
	SetCheckpoint(ctx context.Context, chainID uint64, block uint64) error

	// GetCheckpoint returns the checkpoint for a chain; ok is false when no
	// scan has completed a window yet.
	GetCheckpoint(ctx context.Context, chainID uint64) (block uint64, ok bool, err error)

	// QueryByTokenIDs returns every fill whose maker or taker asset id is in
	// tokenIDs, ordered by block number descending then log index
	// descending.
	QueryByTokenIDs(ctx context.Context, tokenIDs []string, window TimeRange) ([]model.Fill, error)
}
