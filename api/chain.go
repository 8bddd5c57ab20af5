package api

import (
	"context"
	"fmt"
	"time"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/openalpha/lendq/x/liquidation/types"
)

// ABCIClient is the subset of the CometBFT RPC client used by the gateway
type ABCIClient interface {
	ABCIQueryWithOptions(ctx context.Context, path string, data cmtbytes.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error)
}

// ChainReader reads raw liquidation store values from a node over ABCI
// store queries
type ChainReader struct {
	client  ABCIClient
	timeout time.Duration
}

// NewChainReader connects to the RPC endpoint of a node
func NewChainReader(node string, timeout time.Duration) (*ChainReader, error) {
	client, err := rpchttp.New(node, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", node, err)
	}
	return NewChainReaderWithClient(client, timeout), nil
}

// NewChainReaderWithClient wraps an existing ABCI client
func NewChainReaderWithClient(client ABCIClient, timeout time.Duration) *ChainReader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ChainReader{client: client, timeout: timeout}
}

func (c *ChainReader) query(kind string, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	path := fmt.Sprintf("/store/%s/%s", types.StoreKey, kind)
	res, err := c.client.ABCIQueryWithOptions(ctx, path, data, rpcclient.DefaultABCIQueryOptions)
	if err != nil {
		return nil, err
	}
	if !res.Response.IsOK() {
		return nil, fmt.Errorf("query %s failed with code %d: %s", path, res.Response.Code, res.Response.Log)
	}
	return res.Response.Value, nil
}

// Get returns the value under key, or nil when absent
func (c *ChainReader) Get(key []byte) ([]byte, error) {
	return c.query("key", key)
}

// Scan returns every pair under prefix in key order
func (c *ChainReader) Scan(prefix []byte) ([]kv.Pair, error) {
	bz, err := c.query("subspace", prefix)
	if err != nil {
		return nil, err
	}
	var pairs kv.Pairs
	if err := pairs.Unmarshal(bz); err != nil {
		return nil, fmt.Errorf("decode subspace: %w", err)
	}
	return pairs.Pairs, nil
}
