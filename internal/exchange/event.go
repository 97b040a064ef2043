package exchange

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// OrderFilledSignature is the canonical signature of the event emitted by
// the CTF exchange contracts for every matched trade.
const OrderFilledSignature = "OrderFilled(bytes32,address,address,uint256,uint256,uint256,uint256,uint256)"

// OrderFilledTopic is the keccak256 hash of OrderFilledSignature, computed
// once at startup and used as the topic0 filter on every getLogs call.
var OrderFilledTopic = crypto.Keccak256Hash([]byte(OrderFilledSignature))

// DefaultChainID is Polygon mainnet.
const DefaultChainID uint64 = 137

// DefaultExchangeAddresses are the main CLOB exchange and the NegRisk
// exchange on Polygon.
var DefaultExchangeAddresses = []string{
	"0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e",
	"0xc5d563a36ae78145c45a50134d48a1215220f80a",
}

// DefaultAddresses returns the default exchange addresses as parsed values.
func DefaultAddresses() []common.Address {
	addrs := make([]common.Address, 0, len(DefaultExchangeAddresses))
	for _, a := range DefaultExchangeAddresses {
		addrs = append(addrs, common.HexToAddress(a))
	}
	return addrs
}
