package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fillScope/internal/model"
)

var (
	// WindowsCompleted counts fully persisted scan windows per chain.
	WindowsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fillscope_windows_completed_total",
			Help: "Total number of scan windows persisted",
		},
		[]string{"chain_id"},
	)

	// LogsScanned counts raw logs returned by getLogs per chain.
	LogsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fillscope_logs_scanned_total",
			Help: "Total number of raw logs scanned",
		},
		[]string{"chain_id"},
	)

	// FillsDecoded counts logs that decoded into fill records per chain.
	// The gap against LogsScanned is the only signal for dropped layouts.
	FillsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fillscope_fills_decoded_total",
			Help: "Total number of decoded fill records",
		},
		[]string{"chain_id"},
	)

	// LastScannedBlock tracks the checkpoint per chain.
	LastScannedBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fillscope_last_scanned_block",
			Help: "Highest fully scanned block number",
		},
		[]string{"chain_id"},
	)
)

// ObserveProgress updates the scan collectors from one progress event.
// Progress counts are cumulative, so deltas come from the previous event.
func ObserveProgress(chainID uint64, prev, cur model.Progress) {
	chain := strconv.FormatUint(chainID, 10)
	WindowsCompleted.WithLabelValues(chain).Inc()
	LogsScanned.WithLabelValues(chain).Add(float64(cur.ScannedLogs - prev.ScannedLogs))
	FillsDecoded.WithLabelValues(chain).Add(float64(cur.DecodedFills - prev.DecodedFills))
	LastScannedBlock.WithLabelValues(chain).Set(float64(cur.EndBlock))
}
