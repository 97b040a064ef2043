package indexer

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{
		"0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
		" 0xc5d563a36ae78145c45a50134d48a1215220f80a ",
		"",
		"   ",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected blanks skipped and 2 addresses kept, got %d", len(got))
	}
	if got[0] != common.HexToAddress("0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e") {
		t.Fatalf("unexpected first address: %s", got[0].Hex())
	}
	if got[1] != common.HexToAddress("0xc5d563a36ae78145c45a50134d48a1215220f80a") {
		t.Fatalf("unexpected second address: %s", got[1].Hex())
	}
}

func TestParseAddressesEmptyInput(t *testing.T) {
	got, err := ParseAddresses(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no addresses, got %d", len(got))
	}
}

func TestParseAddressesRejectsInvalid(t *testing.T) {
	for _, input := range []string{"not-an-address", "0x1234", "0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982ezz"} {
		if _, err := ParseAddresses([]string{input}); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
