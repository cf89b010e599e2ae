package augur

import "math"

// BMax is the largest bucket index the engine tracks. Bucket BMax
// corresponds to roughly exp(10) ≈ 22026 sat/vB.
const BMax = 1000

// BucketIndex groups fee rates into a discrete equivalence class under
// round(ln(rate) * 100), clamped at BMax.
func BucketIndex(feeRate float64) int {
	if feeRate <= 0 {
		return 0
	}
	idx := int(math.Round(math.Log(feeRate) * 100))
	if idx > BMax {
		return BMax
	}
	return idx
}

// Bucketer groups transactions by log bucket and sums their weight.
// Zero-weight transactions and non-positive fee rates are silently
// dropped. The order of the input does not affect the output.
func Bucketer(txs []Transaction) map[int]uint64 {
	buckets := make(map[int]uint64)
	for _, tx := range txs {
		if tx.Weight == 0 {
			continue
		}
		rate := tx.FeeRate()
		if rate <= 0 {
			continue
		}
		idx := BucketIndex(rate)
		buckets[idx] += tx.Weight
	}
	return buckets
}
