package model

import "time"

// Progress is emitted once per completed scan window, in scan order.
// Counts are cumulative since the start of the scan call.
type Progress struct {
	ChunkIndex   int           `json:"chunk_index"`
	FromBlock    uint64        `json:"from_block"`
	ToBlock      uint64        `json:"to_block"`
	StartBlock   uint64        `json:"start_block"`
	EndBlock     uint64        `json:"end_block"`
	ScannedLogs  int           `json:"scanned_logs"`
	DecodedFills int           `json:"decoded_fills"`
	Elapsed      time.Duration `json:"elapsed"`
}

// ScanResult summarizes a completed scan call.
type ScanResult struct {
	FromBlock    uint64 `json:"from_block"`
	ToBlock      uint64 `json:"to_block"`
	ScannedLogs  int    `json:"scanned_logs"`
	DecodedFills int    `json:"decoded_fills"`
}
