package indexer

import (
	"context"
	"testing"
)

// syntheticChain maps block n to timestamp 1000 + 2n.
type syntheticChain struct {
	height  uint64
	lookups int
}

func (c *syntheticChain) LatestBlockNumber(_ context.Context) (uint64, error) {
	return c.height, nil
}

func (c *syntheticChain) BlockTimestamp(_ context.Context, number uint64) (uint64, error) {
	c.lookups++
	return 1000 + 2*number, nil
}

func TestBlockAtOrAfterExact(t *testing.T) {
	chain := &syntheticChain{height: 1000}

	got, err := BlockAtOrAfter(context.Background(), chain, 1000+2*421)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 421 {
		t.Fatalf("exact timestamp: got %d, want 421", got)
	}
}

func TestBlockAtOrAfterBetweenBlocks(t *testing.T) {
	chain := &syntheticChain{height: 1000}

	// 1841 falls between block 420 (1840) and block 421 (1842); the least
	// block at or after the target is 421.
	got, err := BlockAtOrAfter(context.Background(), chain, 1841)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 421 {
		t.Fatalf("between blocks: got %d, want 421", got)
	}
}

func TestBlockAtOrAfterBeforeGenesis(t *testing.T) {
	chain := &syntheticChain{height: 1000}

	got, err := BlockAtOrAfter(context.Background(), chain, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 0 {
		t.Fatalf("before genesis: got %d, want 0", got)
	}
}

func TestBlockAtOrAfterAtOrPastTip(t *testing.T) {
	chain := &syntheticChain{height: 1000}

	for _, target := range []uint64{1000 + 2*1000, 1000 + 2*1000 + 999} {
		got, err := BlockAtOrAfter(context.Background(), chain, target)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != 1000 {
			t.Fatalf("target %d: got %d, want tip", target, got)
		}
	}
}

func TestBlockAtOrAfterLogarithmicLookups(t *testing.T) {
	chain := &syntheticChain{height: 1 << 20}

	if _, err := BlockAtOrAfter(context.Background(), chain, 1000+2*12345); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// One lookup for the tip plus one per bisection step.
	if chain.lookups > 25 {
		t.Fatalf("too many lookups: %d", chain.lookups)
	}
}
