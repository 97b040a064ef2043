package model

// Fill is one decoded OrderFilled event from an exchange contract.
// Asset ids and amounts are decimal strings because outcome token ids and
// filled amounts routinely exceed the uint64 range.
type Fill struct {
	ChainID           uint64 `json:"chain_id"`
	Exchange          string `json:"exchange"`
	BlockNumber       uint64 `json:"block_number"`
	TxHash            string `json:"tx_hash"`
	LogIndex          uint64 `json:"log_index"`
	Timestamp         uint64 `json:"timestamp"`
	OrderHash         string `json:"order_hash"`
	Maker             string `json:"maker"`
	Taker             string `json:"taker"`
	MakerAssetID      string `json:"maker_asset_id"`
	TakerAssetID      string `json:"taker_asset_id"`
	MakerAmountFilled string `json:"maker_amount_filled"`
	TakerAmountFilled string `json:"taker_amount_filled"`
	Fee               string `json:"fee"`
}

// FillKey is the natural key of a fill. Re-inserting an existing key is a
// no-op everywhere in the system.
type FillKey struct {
	ChainID  uint64
	TxHash   string
	LogIndex uint64
}

// Key returns the natural key of the fill.
func (f Fill) Key() FillKey {
	return FillKey{ChainID: f.ChainID, TxHash: f.TxHash, LogIndex: f.LogIndex}
}
