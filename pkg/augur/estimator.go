package augur

import (
	"fmt"
	"sort"
	"time"

	"github.com/bitcoinaugur/augurd/pkg/utils"
)

// DefaultConfidences are the confidence levels used when Engine is built
// without explicit configuration: 5%, 20%, 50%, 80%, 95%.
var DefaultConfidences = []float64{0.05, 0.20, 0.50, 0.80, 0.95}

// DefaultTargets are the block-confirmation targets used by default.
var DefaultTargets = []float64{3, 6, 9, 12, 18, 24, 36, 48, 72, 96, 144}

// DefaultShortWindow and DefaultLongWindow are the inflow analysis
// windows used by default.
const (
	DefaultShortWindow = 30 * time.Minute
	DefaultLongWindow  = 24 * time.Hour
)

// Engine is the fee-estimation façade: immutable configuration plus the
// precomputed expected-blocks table. It is single-threaded,
// purely computational, and safe for concurrent use from multiple
// goroutines because it holds no mutable state of its own — every
// Estimate call works entirely on its own stack and locally owned
// allocations.
type Engine struct {
	confidences []float64
	targets     []float64
	shortWindow time.Duration
	longWindow  time.Duration
	calculator  feeCalculator
}

// NewEngine validates the given configuration and builds an Engine.
// confidences must be non-empty and every value in [0, 1]; targets must
// be non-empty and every value positive.
func NewEngine(confidences, targets []float64, shortWindow, longWindow time.Duration) (*Engine, error) {
	if len(confidences) == 0 {
		return nil, fmt.Errorf("%w: at least one confidence level must be provided", ErrInvalidConfig)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one block target must be provided", ErrInvalidConfig)
	}
	for _, c := range confidences {
		if c < 0 || c > 1 {
			return nil, fmt.Errorf("%w: confidence %v is not in [0, 1]", ErrInvalidConfig, c)
		}
	}
	for _, t := range targets {
		if t <= 0 {
			return nil, fmt.Errorf("%w: block target %v is not positive", ErrInvalidConfig, t)
		}
	}

	return &Engine{
		confidences: append([]float64(nil), confidences...),
		targets:     append([]float64(nil), targets...),
		shortWindow: shortWindow,
		longWindow:  longWindow,
		calculator:  newFeeCalculator(confidences, targets),
	}, nil
}

// NewDefaultEngine builds an Engine with the package's default configuration.
func NewDefaultEngine() *Engine {
	engine, err := NewEngine(DefaultConfidences, DefaultTargets, DefaultShortWindow, DefaultLongWindow)
	utils.PanicOnError(err) // defaults are statically valid; this can never fire
	return engine
}

// Estimate computes a FeeEstimate from the given snapshots.
//
// If snapshots is empty, an empty estimate carrying the current time is
// returned. If numBlocksOverride is non-nil and less than 3, the call
// fails with ErrInvalidParameter before any computation. If the latest
// snapshot and both inflow vectors are all zero, the estimate carries the
// latest snapshot's timestamp and no per-target entries.
func (e *Engine) Estimate(snapshots []Snapshot, numBlocksOverride *float64) (FeeEstimate, error) {
	if numBlocksOverride != nil && *numBlocksOverride < 3 {
		return FeeEstimate{}, fmt.Errorf("%w: we cannot simulate fewer than 3 blocks", ErrInvalidParameter)
	}

	if len(snapshots) == 0 {
		return Empty(time.Now().UTC()), nil
	}

	ordered := make([]Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	arrays := make([]snapshotArray, len(ordered))
	for i, s := range ordered {
		arrays[i] = newSnapshotArray(s)
	}
	current := arrays[len(arrays)-1].buckets

	shortInflow := calculateInflows(arrays, e.shortWindow)
	longInflow := calculateInflows(arrays, e.longWindow)

	calculator := e.calculator
	targets := e.targets
	if numBlocksOverride != nil {
		calculator = newFeeCalculator(e.confidences, []float64{*numBlocksOverride})
		targets = []float64{*numBlocksOverride}
	}

	timestamp := ordered[len(ordered)-1].Timestamp

	// An empty mempool with no inflow carries no fee signal: every entry
	// is withheld.
	degenerate := true
	for i := range current {
		if current[i] > 0 || shortInflow[i] > 0 || longInflow[i] > 0 {
			degenerate = false
			break
		}
	}
	if degenerate {
		return Empty(timestamp), nil
	}

	rates, ok := calculator.estimate(current, shortInflow, longInflow)
	return e.buildFeeEstimate(rates, ok, targets, timestamp), nil
}

func (e *Engine) buildFeeEstimate(rates [][]float64, ok [][]bool, targets []float64, timestamp time.Time) FeeEstimate {
	estimates := make(map[uint32]BlockTarget)
	for i, target := range targets {
		probabilities := make(map[float64]float64)
		for j, confidence := range e.confidences {
			if ok[i][j] {
				probabilities[confidence] = rates[i][j]
			}
		}
		if len(probabilities) > 0 {
			blocks := uint32(target)
			estimates[blocks] = BlockTarget{Blocks: blocks, Probabilities: probabilities}
		}
	}
	return FeeEstimate{Timestamp: timestamp, Estimates: estimates}
}
