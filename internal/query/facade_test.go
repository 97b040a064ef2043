package query

import (
	"context"
	"errors"
	"testing"

	"fillScope/internal/model"
	"fillScope/internal/storage"
)

type stubCatalog struct {
	tokens map[string][]string
}

func (c *stubCatalog) OutcomeTokenIDs(_ context.Context, slug string) ([]string, error) {
	tokens, ok := c.tokens[slug]
	if !ok {
		return nil, errors.New("unknown market")
	}
	return tokens, nil
}

func seedStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	err := store.UpsertFills(context.Background(), []model.Fill{
		{ChainID: 137, TxHash: "0x01", LogIndex: 0, BlockNumber: 10, Timestamp: 100, MakerAssetID: "5", TakerAssetID: "9"},
		{ChainID: 137, TxHash: "0x02", LogIndex: 0, BlockNumber: 11, Timestamp: 110, MakerAssetID: "7", TakerAssetID: "8"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestFillsForTokensNormalizesInput(t *testing.T) {
	facade := NewFacade(seedStore(t))

	fills, err := facade.FillsForTokens(context.Background(), []string{" 5 ", "5", "", "5"}, storage.TimeRange{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(fills) != 1 || fills[0].MakerAssetID != "5" {
		t.Fatalf("unexpected fills: %+v", fills)
	}
}

func TestFillsForTokensEmptyInput(t *testing.T) {
	facade := NewFacade(seedStore(t))

	fills, err := facade.FillsForTokens(context.Background(), []string{"", "   "}, storage.TimeRange{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(fills) != 0 {
		t.Fatalf("expected no fills for empty token set, got %d", len(fills))
	}
}

func TestFillsForMarket(t *testing.T) {
	facade := NewFacade(seedStore(t))
	catalog := &stubCatalog{tokens: map[string][]string{"will-it-rain": {"7", "8"}}}

	fills, err := facade.FillsForMarket(context.Background(), catalog, "will-it-rain", storage.TimeRange{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(fills) != 1 || fills[0].TxHash != "0x02" {
		t.Fatalf("unexpected fills: %+v", fills)
	}

	if _, err := facade.FillsForMarket(context.Background(), catalog, "missing", storage.TimeRange{}); err == nil {
		t.Fatalf("expected catalog error to propagate")
	}
	if _, err := facade.FillsForMarket(context.Background(), nil, "x", storage.TimeRange{}); err == nil {
		t.Fatalf("expected error for nil catalog")
	}
}
