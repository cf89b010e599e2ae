package augur

import (
	"sort"
	"time"
)

// tenMinutes is the normalization epoch for inflow rates, matching
// Bitcoin's target block interval.
const tenMinutes = 10 * time.Minute

// calculateInflows estimates the per-bucket arrival rate over window,
// normalized to one 10-minute epoch. snapshots need not be sorted.
//
// Intra-block deltas approximate arrivals without needing to distinguish
// "mined away" from "dropped": only positive deltas count, because a
// decrease reflects mining or eviction, not arrival.
func calculateInflows(snapshots []snapshotArray, window time.Duration) []float64 {
	inflows := zeroArray()
	if len(snapshots) == 0 {
		return inflows
	}

	ordered := make([]snapshotArray, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].timestamp.Before(ordered[j].timestamp)
	})

	end := ordered[len(ordered)-1].timestamp
	start := end.Add(-window)

	byHeight := make(map[uint32][]snapshotArray)
	var order []uint32
	for _, s := range ordered {
		if s.timestamp.Before(start) || s.timestamp.After(end) {
			continue
		}
		if _, ok := byHeight[s.blockHeight]; !ok {
			order = append(order, s.blockHeight)
		}
		byHeight[s.blockHeight] = append(byHeight[s.blockHeight], s)
	}

	var covered time.Duration
	for _, height := range order {
		group := byHeight[height]
		if len(group) < 2 {
			continue
		}
		first, last := group[0], group[len(group)-1]
		covered += last.timestamp.Sub(first.timestamp)
		for i := range inflows {
			delta := last.buckets[i] - first.buckets[i]
			if delta > 0 {
				inflows[i] += delta
			}
		}
	}

	if covered > 0 {
		factor := tenMinutes.Seconds() / covered.Seconds()
		for i := range inflows {
			inflows[i] *= factor
		}
	}

	return inflows
}
