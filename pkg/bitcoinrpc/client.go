// Package bitcoinrpc wraps a Bitcoin Core JSON-RPC connection and
// converts its responses into augur.Transaction values.
package bitcoinrpc

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/utils"
)

var ErrNodeUnreachable = errors.New("bitcoin node unreachable")

// Client queries a Bitcoin Core full node for chain height and mempool
// contents. It caches nothing: the collector already holds the only
// state that matters, the persisted snapshot history.
type Client struct {
	rpc    *rpcclient.Client
	logger *zap.Logger
}

// New dials a Bitcoin Core node over HTTP POST, the only transport
// Bitcoin Core's RPC server supports.
func New(host, user, pass string, logger *zap.Logger) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client, logger: logger}, nil
}

// GetBlockChainInfo returns the node's current height and tip.
func (c *Client) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error) {
	info, err := c.rpc.GetBlockChainInfo()
	if err != nil {
		c.logger.Error("getblockchaininfo failed", zap.Error(err))
		return nil, errors.Join(ErrNodeUnreachable, err)
	}
	return info, nil
}

// GetRawMempoolVerbose returns every pending transaction's mempool
// entry, keyed by txid.
func (c *Client) GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error) {
	pool, err := c.rpc.GetRawMempoolVerbose()
	if err != nil {
		c.logger.Error("getrawmempool failed", zap.Error(err))
		return nil, errors.Join(ErrNodeUnreachable, err)
	}
	return pool, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Shutdown()
}

// ToTransaction converts a raw mempool entry to an augur.Transaction:
// fee is BTC converted to satoshis, weight is taken directly when
// present and derived from vsize · 4 otherwise. Entries that resolve
// to zero weight are dropped (ok is false).
func ToTransaction(entry btcjson.GetRawMempoolVerboseResult) (augur.Transaction, bool) {
	weight := uint64(entry.Weight)
	if weight == 0 {
		weight = uint64(entry.Vsize) * 4
	}
	if weight == 0 {
		return augur.Transaction{}, false
	}

	fee := uint64(entry.Fees.Base * utils.BTC)
	return augur.Transaction{Weight: weight, Fee: fee}, true
}
