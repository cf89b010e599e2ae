package augur

import "time"

// snapshotArray is the dense reverse-ordered view of a Snapshot used for
// simulation. Position p holds the weight of bucket BMax-p, so scanning
// positions 0, 1, 2, ... walks the highest fee rates first — this is
// the single most important internal contract, letting the mining loop
// be one forward scan.
type snapshotArray struct {
	timestamp   time.Time
	blockHeight uint32
	buckets     []float64
}

// newSnapshotArray converts a Snapshot into its reverse-array view.
// Negative bucket keys (fee rates below 1 sat/vB) are ignored.
func newSnapshotArray(s Snapshot) snapshotArray {
	buckets := make([]float64, BMax+1)
	for k, w := range s.BucketedWeights {
		if k < 0 {
			continue
		}
		idx := BMax - k
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		buckets[idx] = float64(w)
	}
	return snapshotArray{
		timestamp:   s.Timestamp,
		blockHeight: s.BlockHeight,
		buckets:     buckets,
	}
}

func zeroArray() []float64 {
	return make([]float64, BMax+1)
}
