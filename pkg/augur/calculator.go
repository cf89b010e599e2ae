package augur

import "math"

// feeCalculator runs the simulator for every (target, confidence) pair,
// blends the short- and long-window results, and post-processes them
// into fee rates with the monotonicity and bounds invariants applied.
type feeCalculator struct {
	confidences []float64
	targets     []float64
	expected    expectedBlocksTable
}

func newFeeCalculator(confidences, targets []float64) feeCalculator {
	return feeCalculator{
		confidences: confidences,
		targets:     targets,
		expected:    newExpectedBlocksTable(confidences, targets),
	}
}

// estimate returns a [target][confidence] matrix of fee rates, with a
// false ok flag for withheld (out of bounds) entries.
func (c feeCalculator) estimate(current, shortInflow, longInflow []float64) ([][]float64, [][]bool) {
	buffered := make([]float64, len(current))
	for i := range buffered {
		buffered[i] = current[i] + shortInflow[i]/2
	}

	shortBuckets := c.runSimulations(buffered, shortInflow)
	longBuckets := c.runSimulations(buffered, longInflow)

	blended := c.blend(shortBuckets, longBuckets)
	rates := c.bucketsToRates(blended)
	c.enforceMonotonicity(rates)

	return c.filterBounds(rates)
}

// runSimulations runs simulate for every (target, confidence) cell.
func (c feeCalculator) runSimulations(initial, inflow []float64) [][]float64 {
	result := make([][]float64, len(c.targets))
	for i, target := range c.targets {
		row := make([]float64, len(c.confidences))
		meanBlocks := int(target)
		for j := range c.confidences {
			expected := c.expected.expectedBlock[i][j]
			bucket := simulate(initial, inflow, expected, meanBlocks)
			if bucket < 0 {
				bucket = 0
			}
			row[j] = float64(bucket)
		}
		result[i] = row
	}
	return result
}

// blend combines short- and long-window bucket estimates with weight
// w(target) = 1 - (1 - target/144)^2 applied to the long-window value.
func (c feeCalculator) blend(short, long [][]float64) [][]float64 {
	blended := make([][]float64, len(c.targets))
	for i, target := range c.targets {
		weight := 1 - math.Pow(1-target/144, 2)
		row := make([]float64, len(c.confidences))
		for j := range c.confidences {
			row[j] = short[i][j]*(1-weight) + long[i][j]*weight
		}
		blended[i] = row
	}
	return blended
}

func (c feeCalculator) bucketsToRates(buckets [][]float64) [][]float64 {
	rates := make([][]float64, len(buckets))
	for i, row := range buckets {
		r := make([]float64, len(row))
		for j, bucket := range row {
			r[j] = math.Exp(bucket / 100)
		}
		rates[i] = r
	}
	return rates
}

// enforceMonotonicity clamps, per confidence column, any rate that
// exceeds the previous (shorter-target) row's rate — longer targets
// must never cost more.
func (c feeCalculator) enforceMonotonicity(rates [][]float64) {
	for j := range c.confidences {
		prev := math.Inf(1)
		for i := range c.targets {
			if rates[i][j] > prev {
				rates[i][j] = prev
			}
			prev = rates[i][j]
		}
	}
}

// filterBounds withholds any rate outside (0, exp(BMax/100)).
func (c feeCalculator) filterBounds(rates [][]float64) ([][]float64, [][]bool) {
	ceiling := math.Exp(float64(BMax) / 100)
	ok := make([][]bool, len(rates))
	for i, row := range rates {
		okRow := make([]bool, len(row))
		for j, rate := range row {
			okRow[j] = rate > 0 && rate < ceiling
		}
		ok[i] = okRow
	}
	return rates, ok
}
