package augur

import "time"

// Snapshot is an immutable observation of the mempool at a given block
// height and instant. BucketedWeights only ever holds buckets with a
// positive value; this invariant is enforced by Bucketer and by
// NewSnapshot.
type Snapshot struct {
	BlockHeight     uint32
	Timestamp       time.Time
	BucketedWeights map[int]uint64
}

// NewSnapshot builds a Snapshot from already-bucketed weights, dropping
// any zero-valued entries to preserve the positive-value invariant.
func NewSnapshot(blockHeight uint32, timestamp time.Time, bucketedWeights map[int]uint64) Snapshot {
	clean := make(map[int]uint64, len(bucketedWeights))
	for k, v := range bucketedWeights {
		if v > 0 {
			clean[k] = v
		}
	}
	return Snapshot{
		BlockHeight:     blockHeight,
		Timestamp:       timestamp.UTC(),
		BucketedWeights: clean,
	}
}

// NewSnapshotFromTransactions buckets txs and wraps the result in a Snapshot.
func NewSnapshotFromTransactions(txs []Transaction, blockHeight uint32, timestamp time.Time) Snapshot {
	return NewSnapshot(blockHeight, timestamp, Bucketer(txs))
}

// TotalWeight sums the weight across every bucket.
func (s Snapshot) TotalWeight() uint64 {
	var total uint64
	for _, w := range s.BucketedWeights {
		total += w
	}
	return total
}
