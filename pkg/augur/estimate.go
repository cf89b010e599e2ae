package augur

import (
	"sort"
	"time"
)

// BlockTarget holds fee rate estimates for one block target across every
// confidence level that produced a non-withheld value.
type BlockTarget struct {
	Blocks        uint32
	Probabilities map[float64]float64
}

// FeeRate returns the fee rate for the given confidence, if present.
func (b BlockTarget) FeeRate(confidence float64) (float64, bool) {
	rate, ok := b.Probabilities[confidence]
	return rate, ok
}

// SortedConfidences returns the block target's confidence keys in
// ascending order.
func (b BlockTarget) SortedConfidences() []float64 {
	keys := make([]float64, 0, len(b.Probabilities))
	for k := range b.Probabilities {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

// FeeEstimate is the result of a single Engine.Estimate call: a
// timestamp (the latest input snapshot's) plus a sparse
// target -> confidence -> fee rate table.
type FeeEstimate struct {
	Timestamp time.Time
	Estimates map[uint32]BlockTarget
}

// Empty returns a FeeEstimate carrying only a timestamp, with no
// per-target entries — the result of estimating over zero snapshots.
func Empty(timestamp time.Time) FeeEstimate {
	return FeeEstimate{
		Timestamp: timestamp,
		Estimates: map[uint32]BlockTarget{},
	}
}

// FeeRate returns the fee rate for the given target and confidence, if
// both are present in the estimate.
func (e FeeEstimate) FeeRate(targetBlocks uint32, confidence float64) (float64, bool) {
	target, ok := e.Estimates[targetBlocks]
	if !ok {
		return 0, false
	}
	return target.FeeRate(confidence)
}

// SortedTargets returns the estimate's block targets in ascending order.
func (e FeeEstimate) SortedTargets() []uint32 {
	keys := make([]uint32, 0, len(e.Estimates))
	for k := range e.Estimates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
