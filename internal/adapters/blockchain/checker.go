package blockchain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

// classHashNotFoundCode is the CLASS_HASH_NOT_FOUND error of Starknet JSON-RPC
const classHashNotFoundCode = 28

// CheckerAdapter answers read-only questions about the Starknet node
type CheckerAdapter struct {
	rpcURL string

	mu     sync.Mutex
	client *ethrpc.Client
}

// NewCheckerAdapter creates a new checker for the configured endpoint. No
// connection is made until the first query.
func NewCheckerAdapter(cfg *config.RuntimeConfig) *CheckerAdapter {
	return &CheckerAdapter{rpcURL: cfg.RPCURL}
}

func (c *CheckerAdapter) connect(ctx context.Context) (*ethrpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := ethrpc.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.client = client
	return client, nil
}

// ChainID returns the node's chain id decoded as a short string (e.g. SN_SEPOLIA)
func (c *CheckerAdapter) ChainID(ctx context.Context) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var raw string
	if err := client.CallContext(ctx, &raw, "starknet_chainId"); err != nil {
		return "", fmt.Errorf("failed to get chain ID: %w", err)
	}
	return decodeShortString(raw), nil
}

// IsClassDeclared reports whether classHash is known at the latest block
func (c *CheckerAdapter) IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var class json.RawMessage
	err = client.CallContext(ctx, &class, "starknet_getClass", "latest", classHash.String())
	if err != nil {
		var rpcErr ethrpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == classHashNotFoundCode {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up class %s: %w", classHash, err)
	}
	return true, nil
}

// Close releases the underlying connection
func (c *CheckerAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// decodeShortString turns a hex felt into its ASCII form, falling back to the
// raw value when it isn't printable
func decodeShortString(raw string) string {
	h := strings.TrimPrefix(strings.ToLower(raw), "0x")
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil || len(b) == 0 {
		return raw
	}
	for _, ch := range b {
		if ch < 0x20 || ch > 0x7e {
			return raw
		}
	}
	return string(b)
}
