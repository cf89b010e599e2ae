package augur

// blockSizeWeightUnits is a standard block's capacity: 4,000,000 WU.
const blockSizeWeightUnits = 4_000_000.0

// noEstimate is the sentinel returned when zero blocks are simulated.
const noEstimate = -1

// saturationBucket is returned when no bucket was fully cleared after
// mining — the mempool is too deep for any recommendation at this
// confidence.
const saturationBucket = BMax + 1

// simulate mines expectedBlocks blocks starting from initial, adding
// inflow (scaled to match the real mean block count meanBlocks) before
// each mined block, and returns the bucket index of the lowest fee rate
// that was fully cleared, or noEstimate if expectedBlocks is zero.
func simulate(initial []float64, inflow []float64, expectedBlocks, meanBlocks int) int {
	if expectedBlocks == 0 {
		return noEstimate
	}

	factor := float64(meanBlocks) / float64(expectedBlocks)
	perBlockInflow := make([]float64, len(inflow))
	for i, v := range inflow {
		perBlockInflow[i] = v * factor
	}

	weights := make([]float64, len(initial))
	copy(weights, initial)

	for i := 0; i < expectedBlocks; i++ {
		for j := range weights {
			weights[j] += perBlockInflow[j]
		}
		mineBlock(weights)
	}

	return findBestIndex(weights)
}

// mineBlock removes, in place, up to blockSizeWeightUnits of weight from
// the highest-fee-first reverse array, walking from position 0 upward.
func mineBlock(weights []float64) {
	remaining := blockSizeWeightUnits
	for i := range weights {
		removed := weights[i]
		if removed > remaining {
			removed = remaining
		}
		weights[i] -= removed
		remaining -= removed
		if remaining <= 0 {
			break
		}
	}
}

// findBestIndex returns the bucket index of the lowest fee rate whose
// weight is fully cleared: the first position with positive remaining
// weight marks the boundary. Position 0 means nothing cleared
// (saturationBucket); all-zero means bucket 0 suffices.
func findBestIndex(weights []float64) int {
	for i, w := range weights {
		if w > 0 {
			if i == 0 {
				return saturationBucket
			}
			return BMax - (i - 1)
		}
	}
	return 0
}
