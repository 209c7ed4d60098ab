package models

// BadgeKind names a qualitative signal derived from portfolio history.
type BadgeKind string

const (
	BadgeBestFind      BadgeKind = "best_find"      // a holding's gain over cost basis exceeds 10%
	BadgeWorstTrade    BadgeKind = "worst_trade"    // a holding's loss over cost basis exceeds 10%
	BadgeBigTrade      BadgeKind = "big_trade"      // a single trade moved more than $1,000
	BadgeBargainHunter BadgeKind = "bargain_hunter" // a trade executed under $5 per share
	BadgeBullRun       BadgeKind = "bull_run"       // portfolio grew more than 20% in a trailing month
	BadgeAlwaysUp      BadgeKind = "always_up"      // every priced holding is profitable
	BadgeBenchmarkBeat BadgeKind = "benchmark_beat" // TWR beat the benchmark's matching-period return
)

// Badge is one derived signal with a human-readable label. Checks are
// independent and order-insensitive; all that match are emitted.
type Badge struct {
	Kind  BadgeKind `json:"kind"`
	Label string    `json:"label"`
}
