package storage

import (
	"context"
	"testing"

	"fillScope/internal/model"
)

func fill(block uint64, logIndex uint64, makerAsset, takerAsset string, ts uint64) model.Fill {
	return model.Fill{
		ChainID:           137,
		Exchange:          "0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e",
		BlockNumber:       block,
		TxHash:            "0xabc",
		LogIndex:          logIndex,
		Timestamp:         ts,
		OrderHash:         "0x01",
		Maker:             "0xmaker",
		Taker:             "0xtaker",
		MakerAssetID:      makerAsset,
		TakerAssetID:      takerAsset,
		MakerAmountFilled: "100",
		TakerAmountFilled: "200",
		Fee:               "0",
	}
}

func TestMemoryStoreIdempotentInsert(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := fill(10, 1, "5", "9", 100)
	if err := store.UpsertFills(ctx, []model.Fill{first}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Same key, different payload: the existing row must win.
	dup := first
	dup.MakerAmountFilled = "999"
	if err := store.UpsertFills(ctx, []model.Fill{dup}); err != nil {
		t.Fatalf("re-insert: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected one row, got %d", store.Len())
	}
	got, err := store.QueryByTokenIDs(ctx, []string{"5"}, TimeRange{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].MakerAmountFilled != "100" {
		t.Fatalf("existing row altered: %+v", got)
	}
}

func TestMemoryStoreQueryOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.UpsertFills(ctx, []model.Fill{
		fill(10, 1, "5", "9", 100),
		fill(12, 0, "9", "7", 120),
		fill(12, 3, "5", "9", 120),
		fill(11, 2, "7", "5", 110),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.QueryByTokenIDs(ctx, []string{"5"}, TimeRange{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fills, got %d", len(got))
	}
	wantOrder := [][2]uint64{{12, 3}, {11, 2}, {10, 1}}
	for i, want := range wantOrder {
		if got[i].BlockNumber != want[0] || got[i].LogIndex != want[1] {
			t.Fatalf("position %d: got (%d, %d), want (%d, %d)",
				i, got[i].BlockNumber, got[i].LogIndex, want[0], want[1])
		}
	}
}

func TestMemoryStoreQueryTiesOnLogIndex(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := fill(10, 1, "5", "9", 100)
	b := fill(10, 4, "5", "9", 100)
	b.TxHash = "0xdef"
	if err := store.UpsertFills(ctx, []model.Fill{a, b}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, _ := store.QueryByTokenIDs(ctx, []string{"5"}, TimeRange{})
	if len(got) != 2 || got[0].LogIndex != 4 || got[1].LogIndex != 1 {
		t.Fatalf("ties must break on descending log index: %+v", got)
	}
}

func TestMemoryStoreQueryTimeBounds(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.UpsertFills(ctx, []model.Fill{
		fill(10, 0, "5", "9", 100),
		fill(11, 0, "5", "9", 200),
		fill(12, 0, "5", "9", 300),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, _ := store.QueryByTokenIDs(ctx, []string{"5"}, TimeRange{From: 150, To: 250})
	if len(got) != 1 || got[0].Timestamp != 200 {
		t.Fatalf("time window mismatch: %+v", got)
	}

	got, _ = store.QueryByTokenIDs(ctx, []string{"5"}, TimeRange{From: 150})
	if len(got) != 2 {
		t.Fatalf("open upper bound mismatch: %+v", got)
	}
}

func TestMemoryStoreCheckpoint(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.GetCheckpoint(ctx, 137); err != nil || ok {
		t.Fatalf("expected no checkpoint before first scan")
	}

	if err := store.SetCheckpoint(ctx, 137, 500); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetCheckpoint(ctx, 1, 42); err != nil {
		t.Fatalf("set other chain: %v", err)
	}

	cp, ok, err := store.GetCheckpoint(ctx, 137)
	if err != nil || !ok || cp != 500 {
		t.Fatalf("checkpoint mismatch: %d %v %v", cp, ok, err)
	}
}
