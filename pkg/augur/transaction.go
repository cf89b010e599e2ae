// Package augur implements the mempool-snapshot fee estimation engine:
// log-bucketing of fee rates, the inflow calculator, the Poisson-driven
// expected-blocks table, the block-mining simulator, and the short/long
// window blend with monotonicity post-processing.
package augur

// WUPerByte is the conversion factor from weight units to virtual bytes.
// A virtual byte (vB) is weight / 4.
const WUPerByte = 4.0

// Transaction is a mempool entry reduced to the fields the estimator needs.
type Transaction struct {
	Weight uint64
	Fee    uint64
}

// FeeRate returns the transaction's fee rate in sat/vB, or 0 for a
// zero-weight transaction (fee rate is undefined for those).
func (t Transaction) FeeRate() float64 {
	if t.Weight == 0 {
		return 0
	}
	return float64(t.Fee) * WUPerByte / float64(t.Weight)
}
