package query

import (
	"context"
	"fmt"
	"strings"

	"fillScope/internal/model"
	"fillScope/internal/storage"
)

// MarketCatalog resolves a market to the outcome token ids traded on it.
// Implementations live outside this module (off-chain metadata APIs); the
// indexer only consumes the contract.
type MarketCatalog interface {
	OutcomeTokenIDs(ctx context.Context, marketSlug string) ([]string, error)
}

// Facade is the read-side contract handed to reporting code. It carries no
// business logic; buy/sell classification and volume aggregation happen
// downstream on the ordered fills it returns.
type Facade struct {
	store storage.FillStore
}

// NewFacade wraps a fill store.
func NewFacade(store storage.FillStore) *Facade {
	return &Facade{store: store}
}

// FillsForTokens returns every fill touching one of the token ids, most
// recent first. Token ids are trimmed and deduplicated before the query.
func (f *Facade) FillsForTokens(ctx context.Context, tokenIDs []string, window storage.TimeRange) ([]model.Fill, error) {
	ids := normalizeTokenIDs(tokenIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	return f.store.QueryByTokenIDs(ctx, ids, window)
}

// FillsForMarket resolves a market slug through the catalog and returns the
// fills for its outcome tokens.
func (f *Facade) FillsForMarket(ctx context.Context, catalog MarketCatalog, marketSlug string, window storage.TimeRange) ([]model.Fill, error) {
	if catalog == nil {
		return nil, fmt.Errorf("market catalog is nil")
	}
	tokenIDs, err := catalog.OutcomeTokenIDs(ctx, marketSlug)
	if err != nil {
		return nil, fmt.Errorf("resolve market %s: %w", marketSlug, err)
	}
	return f.FillsForTokens(ctx, tokenIDs, window)
}

func normalizeTokenIDs(tokenIDs []string) []string {
	seen := make(map[string]struct{}, len(tokenIDs))
	out := make([]string, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
