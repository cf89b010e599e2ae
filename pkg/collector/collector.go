// Package collector drives the fee-estimation engine on a fixed
// interval: it fetches a fresh mempool snapshot, persists it, and
// recomputes the latest fee estimate from the preceding 24 hours of
// history.
package collector

import (
	"errors"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/bitcoinrpc"
	"github.com/bitcoinaugur/augurd/pkg/persistence"
)

// ErrNoEstimateYet describes the state before the first successful
// collection tick. Latest reports that state with a false ok flag and
// does not return this error.
var ErrNoEstimateYet = errors.New("collector: no estimate available yet")

// HistoryWindow is the lookback window fed to the engine on every tick.
const HistoryWindow = 24 * time.Hour

// rpcSource is the subset of bitcoinrpc.Client the collector needs.
// Defined as an interface so tests can substitute a fake node instead
// of dialing Bitcoin Core.
type rpcSource interface {
	GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error)
	GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error)
}

// Collector ties the RPC client, the snapshot store, and the engine
// together and exposes a read-mostly "latest estimate" cell: exclusive
// writer on each tick, shared readers for HTTP handlers.
type Collector struct {
	client rpcSource
	store  *persistence.Store
	engine *augur.Engine
	logger *zap.Logger

	mu      sync.RWMutex
	latest  augur.FeeEstimate
	hasData bool
}

// New builds a Collector. engine may be nil, in which case
// augur.NewDefaultEngine() is used.
func New(client rpcSource, store *persistence.Store, engine *augur.Engine, logger *zap.Logger) *Collector {
	if engine == nil {
		engine = augur.NewDefaultEngine()
	}
	return &Collector{client: client, store: store, engine: engine, logger: logger}
}

// Run starts the collection loop, ticking at the given interval until
// stop is closed. RPC and persistence failures are logged and skip the
// tick; they never stop the ticker. Run returns nil once stop fires.
func (c *Collector) Run(interval time.Duration, stop <-chan struct{}) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.tick()
	for {
		select {
		case <-ticker.C:
			c.tick()
		case <-stop:
			return nil
		}
	}
}

func (c *Collector) tick() {
	snapshot, err := c.collectSnapshot()
	if err != nil {
		c.logger.Warn("rpc failure, skipping tick", zap.Error(err))
		return
	}

	if err := c.store.Save(snapshot); err != nil {
		c.logger.Warn("persistence failure, continuing to serve the previous estimate", zap.Error(err))
		return
	}

	now := snapshot.Timestamp
	history, err := c.store.Load(now.Add(-HistoryWindow), now)
	if err != nil {
		c.logger.Warn("persistence failure loading history, continuing to serve the previous estimate", zap.Error(err))
		return
	}

	estimate, err := c.engine.Estimate(history, nil)
	if err != nil {
		c.logger.Error("engine estimate failed on well-formed history, this should never happen", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.latest = estimate
	c.hasData = true
	c.mu.Unlock()
}

func (c *Collector) collectSnapshot() (augur.Snapshot, error) {
	info, err := c.client.GetBlockChainInfo()
	if err != nil {
		return augur.Snapshot{}, err
	}

	pool, err := c.client.GetRawMempoolVerbose()
	if err != nil {
		return augur.Snapshot{}, err
	}

	txs := make([]augur.Transaction, 0, len(pool))
	for _, entry := range pool {
		if tx, ok := bitcoinrpc.ToTransaction(entry); ok {
			txs = append(txs, tx)
		}
	}

	return augur.NewSnapshotFromTransactions(txs, uint32(info.Blocks), time.Now().UTC()), nil
}

// Latest returns the most recently computed estimate. ok is false
// before the first successful tick.
func (c *Collector) Latest() (augur.FeeEstimate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.hasData
}

// EstimateForTarget recomputes a single-target estimate from the stored
// last-24h window, bypassing the cached latest estimate. Used by
// /fees/target/{n}.
func (c *Collector) EstimateForTarget(numBlocks float64) (augur.FeeEstimate, error) {
	now := time.Now().UTC()
	history, err := c.store.Load(now.Add(-HistoryWindow), now)
	if err != nil {
		return augur.FeeEstimate{}, err
	}
	return c.engine.Estimate(history, &numBlocks)
}

// EstimateAt recomputes an estimate over the 24 hours preceding at,
// bypassing the live collector state entirely. Used by /historical_fee.
func (c *Collector) EstimateAt(at time.Time) (augur.FeeEstimate, error) {
	at = at.UTC()
	history, err := c.store.Load(at.Add(-HistoryWindow), at)
	if err != nil {
		return augur.FeeEstimate{}, err
	}
	return c.engine.Estimate(history, nil)
}
