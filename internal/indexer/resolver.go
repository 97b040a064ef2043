package indexer

import (
	"context"
	"fmt"
)

// TimestampReader is the subset of the chain surface needed to map a
// timestamp to a block number.
type TimestampReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// BlockAtOrAfter returns the least block whose timestamp is at or after
// target. A target at or past the chain tip returns the tip. Costs one
// timestamp lookup per probe, O(log height) in total. Assumes block
// timestamps are non-decreasing with block number.
func BlockAtOrAfter(ctx context.Context, reader TimestampReader, target uint64) (uint64, error) {
	latest, err := reader.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest block: %w", err)
	}
	latestTs, err := reader.BlockTimestamp(ctx, latest)
	if err != nil {
		return 0, fmt.Errorf("block timestamp %d: %w", latest, err)
	}
	if target >= latestTs {
		return latest, nil
	}

	lo, hi := uint64(0), latest
	for lo < hi {
		mid := lo + (hi-lo)/2
		ts, err := reader.BlockTimestamp(ctx, mid)
		if err != nil {
			return 0, fmt.Errorf("block timestamp %d: %w", mid, err)
		}
		if ts < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}
