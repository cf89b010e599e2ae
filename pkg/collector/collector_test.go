package collector

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/persistence"
)

type fakeNode struct {
	height int32
	pool   map[string]btcjson.GetRawMempoolVerboseResult
	err    error
}

func (f *fakeNode) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &btcjson.GetBlockChainInfoResult{Blocks: f.height}, nil
}

func (f *fakeNode) GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

func newTestCollector(t *testing.T, node rpcSource) (*Collector, *persistence.Store) {
	t.Helper()
	store, err := persistence.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return New(node, store, augur.NewDefaultEngine(), zap.NewNop()), store
}

func TestTickPersistsSnapshotAndComputesEstimate(t *testing.T) {
	node := &fakeNode{
		height: 800_000,
		pool: map[string]btcjson.GetRawMempoolVerboseResult{
			"tx1": {Vsize: 200, Fees: btcjson.GetRawMempoolVerboseFees{Base: 0.00001}},
		},
	}
	c, _ := newTestCollector(t, node)

	c.tick()

	_, ok := c.Latest()
	assert.True(t, ok, "expected an estimate after a successful tick")
}

func TestTickSkipsOnRpcFailure(t *testing.T) {
	node := &fakeNode{err: assert.AnError}
	c, _ := newTestCollector(t, node)

	c.tick()

	_, ok := c.Latest()
	assert.False(t, ok, "an RPC failure must never populate the latest estimate")
}

func TestLatestBeforeFirstTick(t *testing.T) {
	node := &fakeNode{height: 1}
	c, _ := newTestCollector(t, node)

	_, ok := c.Latest()
	assert.False(t, ok)
}

func TestEstimateForTargetUsesStoredHistory(t *testing.T) {
	node := &fakeNode{height: 1}
	c, store := newTestCollector(t, node)

	now := time.Now().UTC()
	txs := make([]augur.Transaction, 300)
	for i := range txs {
		txs[i] = augur.Transaction{Weight: 40_000, Fee: uint64(50 * 40_000 / augur.WUPerByte)}
	}
	require.NoError(t, store.Save(augur.NewSnapshotFromTransactions(txs, 1, now)))

	estimate, err := c.EstimateForTarget(15)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(estimate.Estimates), 1)
}

func TestEstimateAtUsesWindowPrecedingTimestamp(t *testing.T) {
	node := &fakeNode{height: 1}
	c, store := newTestCollector(t, node)

	now := time.Now().UTC()
	require.NoError(t, store.Save(augur.NewSnapshotFromTransactions(nil, 1, now.Add(-48*time.Hour))))

	estimate, err := c.EstimateAt(now)
	require.NoError(t, err)
	assert.Empty(t, estimate.Estimates, "a snapshot 48h in the past falls outside the 24h window")
}
