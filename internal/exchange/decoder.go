package exchange

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"

	"fillScope/internal/model"
)

const wordSize = 32

// Decoder turns raw OrderFilled logs into fill records.
type Decoder struct {
	chainID uint64
}

// NewDecoder builds a decoder that stamps records with the given chain id.
func NewDecoder(chainID uint64) *Decoder {
	return &Decoder{chainID: chainID}
}

// Decode converts a raw log into a Fill using the caller-supplied block
// timestamp. The second return value is false when the log matches neither
// recognized layout; such logs are dropped by the caller, never treated as
// errors.
//
// Two layouts are tried in order. The indexed layout carries the order hash
// and both parties in topics 1-3 with five data words behind them. The flat
// layout packs all eight fields into the data payload and is kept as a
// fallback for proxied or re-emitted variants of the event.
func (d *Decoder) Decode(log types.Log, blockTimestamp uint64) (model.Fill, bool) {
	words := splitDataWords(log.Data)

	fill := model.Fill{
		ChainID:     d.chainID,
		Exchange:    strings.ToLower(log.Address.Hex()),
		BlockNumber: log.BlockNumber,
		TxHash:      strings.ToLower(log.TxHash.Hex()),
		LogIndex:    uint64(log.Index),
		Timestamp:   blockTimestamp,
	}

	switch {
	case len(log.Topics) >= 4 && len(words) >= 5:
		fill.OrderHash = strings.ToLower(log.Topics[1].Hex())
		fill.Maker = lowAddress(log.Topics[2].Bytes())
		fill.Taker = lowAddress(log.Topics[3].Bytes())
		fill.MakerAssetID = wordToDecimal(words[0])
		fill.TakerAssetID = wordToDecimal(words[1])
		fill.MakerAmountFilled = wordToDecimal(words[2])
		fill.TakerAmountFilled = wordToDecimal(words[3])
		fill.Fee = wordToDecimal(words[4])
	case len(words) >= 8:
		fill.OrderHash = "0x" + hex.EncodeToString(words[0])
		fill.Maker = lowAddress(words[1])
		fill.Taker = lowAddress(words[2])
		fill.MakerAssetID = wordToDecimal(words[3])
		fill.TakerAssetID = wordToDecimal(words[4])
		fill.MakerAmountFilled = wordToDecimal(words[5])
		fill.TakerAmountFilled = wordToDecimal(words[6])
		fill.Fee = wordToDecimal(words[7])
	default:
		return model.Fill{}, false
	}

	return fill, true
}

// splitDataWords slices the data payload into 32-byte words. A trailing
// partial word is kept as-is so the numeric parse matches what the provider
// sent.
func splitDataWords(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	words := make([][]byte, 0, (len(data)+wordSize-1)/wordSize)
	for start := 0; start < len(data); start += wordSize {
		end := start + wordSize
		if end > len(data) {
			end = len(data)
		}
		words = append(words, data[start:end])
	}
	return words
}

// lowAddress extracts an address embedded in the low 20 bytes of a 32-byte
// word, rendered as lowercase 0x-prefixed hex.
func lowAddress(word []byte) string {
	b := word
	if len(b) > 20 {
		b = b[len(b)-20:]
	}
	return "0x" + hex.EncodeToString(b)
}

// wordToDecimal parses a word as an unsigned 256-bit integer and renders it
// in decimal. Values beyond 64 bits are routine for outcome token ids.
func wordToDecimal(word []byte) string {
	return new(big.Int).SetBytes(word).String()
}
