package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/contracts"
	"github.com/NethermindEth/starknet.go/curve"
	"github.com/NethermindEth/starknet.go/hash"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// UniversalDeployerAddress is the Universal Deployer Contract on every public Starknet network
const UniversalDeployerAddress = "0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf"

const (
	deployContractEntrypoint = "deployContract"
	accountCairoVersion      = 2
)

// accountAPI is the part of *account.Account used for declare and deploy
type accountAPI interface {
	BuildAndSendDeclareTxn(ctx context.Context, casmClass *contracts.CasmClass, contractClass *contracts.ContractClass, multiplier float64) (*rpc.AddDeclareTransactionResponse, error)
	BuildAndSendInvokeTxn(ctx context.Context, functionCalls []rpc.InvokeFunctionCall, multiplier float64) (*rpc.AddInvokeTransactionResponse, error)
	WaitForTransactionReceipt(ctx context.Context, transactionHash *felt.Felt, pollInterval time.Duration) (*rpc.TransactionReceiptWithBlockInfo, error)
}

var _ accountAPI = (*account.Account)(nil)

// NodeChecker answers read-only questions about the node
type NodeChecker interface {
	ChainID(ctx context.Context) (string, error)
	IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error)
}

// Client declares and deploys contracts through starknet.go
type Client struct {
	rpcURL        string
	credentials   domain.Credentials
	feeMultiplier float64
	pollInterval  time.Duration
	checker       NodeChecker
	log           *slog.Logger

	// Overridable for tests
	openAccount func(ctx context.Context) (accountAPI, error)
	classHash   func(class *contracts.ContractClass) *felt.Felt

	once    sync.Once
	account accountAPI
	openErr error
}

// NewClient creates a client for the configured endpoint and deployer account.
// Nothing touches the network until DeclareAndDeploy is called.
func NewClient(cfg *config.RuntimeConfig, checker NodeChecker, log *slog.Logger) *Client {
	c := &Client{
		rpcURL:        cfg.RPCURL,
		credentials:   cfg.Credentials,
		feeMultiplier: cfg.FeeMultiplier,
		pollInterval:  cfg.PollInterval,
		checker:       checker,
		log:           log,
		classHash: func(class *contracts.ContractClass) *felt.Felt {
			return hash.ClassHash(class)
		},
	}
	c.openAccount = c.dialAccount
	if c.feeMultiplier <= 0 {
		c.feeMultiplier = config.DefaultFeeMultiplier
	}
	if c.pollInterval <= 0 {
		c.pollInterval = config.DefaultPollInterval
	}
	return c
}

// dialAccount builds the provider and the signing account from the credentials
func (c *Client) dialAccount(ctx context.Context) (accountAPI, error) {
	provider, err := rpc.NewProvider(c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create starknet provider: %w", err)
	}

	address, err := utils.HexToFelt(c.credentials.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid deployer address %q: %w", c.credentials.Address, err)
	}

	privateKey, publicKey, err := deriveKeys(c.credentials.PrivateKey)
	if err != nil {
		return nil, err
	}

	ks := account.NewMemKeystore()
	ks.Put(publicKey, privateKey)

	acc, err := account.NewAccount(provider, address, publicKey, ks, accountCairoVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return acc, nil
}

func (c *Client) accountHandle(ctx context.Context) (accountAPI, error) {
	c.once.Do(func() {
		c.account, c.openErr = c.openAccount(ctx)
	})
	return c.account, c.openErr
}

// DeclareAndDeploy declares the class when the node doesn't know it yet and
// deploys one instance through the Universal Deployer.
func (c *Client) DeclareAndDeploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error) {
	if req.Artifact == nil {
		return nil, fmt.Errorf("no artifact in deploy request")
	}

	var class contracts.ContractClass
	if err := json.Unmarshal(req.Artifact.Sierra, &class); err != nil {
		return nil, fmt.Errorf("failed to decode sierra class: %w", err)
	}
	var casm contracts.CasmClass
	if err := json.Unmarshal(req.Artifact.Casm, &casm); err != nil {
		return nil, fmt.Errorf("failed to decode casm class: %w", err)
	}

	chainID, err := c.checker.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Info("Provider connected to Starknet", "chain", chainID, "rpc", c.rpcURL)

	acc, err := c.accountHandle(ctx)
	if err != nil {
		return nil, err
	}

	classHash := c.classHash(&class)
	declared, err := c.checker.IsClassDeclared(ctx, classHash)
	if err != nil {
		return nil, err
	}

	result := &domain.DeployResult{
		Contract:        req.Artifact.Name,
		ClassHash:       classHash,
		Salt:            req.Salt,
		AlreadyDeclared: declared,
	}

	if declared {
		c.log.Info("class already declared", "class_hash", classHash)
	} else {
		declareResp, err := acc.BuildAndSendDeclareTxn(ctx, &casm, &class, c.feeMultiplier)
		if err != nil {
			return nil, fmt.Errorf("declare %s: %w", req.Artifact.Name, err)
		}
		if declareResp.ClassHash != nil {
			classHash = declareResp.ClassHash
			result.ClassHash = classHash
		}
		result.DeclareTxHash = declareResp.TransactionHash
		c.log.Debug("declare sent", "tx", declareResp.TransactionHash, "class_hash", classHash)

		if err := c.waitAccepted(ctx, acc, declareResp.TransactionHash); err != nil {
			return nil, fmt.Errorf("declare %s: %w", req.Artifact.Name, err)
		}
	}

	udc, err := utils.HexToFelt(UniversalDeployerAddress)
	if err != nil {
		return nil, err
	}

	deployResp, err := acc.BuildAndSendInvokeTxn(ctx, []rpc.InvokeFunctionCall{{
		ContractAddress: udc,
		FunctionName:    deployContractEntrypoint,
		CallData:        udcCalldata(classHash, req.Salt, req.ConstructorCalldata),
	}}, c.feeMultiplier)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", req.Artifact.Name, err)
	}
	result.DeployTxHash = deployResp.TransactionHash
	c.log.Debug("deploy sent", "tx", deployResp.TransactionHash)

	if err := c.waitAccepted(ctx, acc, deployResp.TransactionHash); err != nil {
		return nil, err
	}

	result.Address = contracts.PrecomputeAddress(new(felt.Felt), req.Salt, classHash, req.ConstructorCalldata)
	return result, nil
}

// waitAccepted blocks until the receipt is available and fails on revert
func (c *Client) waitAccepted(ctx context.Context, acc accountAPI, txHash *felt.Felt) error {
	receipt, err := acc.WaitForTransactionReceipt(ctx, txHash, c.pollInterval)
	if err != nil {
		return fmt.Errorf("waiting for transaction %s: %w", txHash, err)
	}
	if receipt.ExecutionStatus == rpc.TxnExecutionStatusREVERTED {
		return &domain.DeploymentRevertedError{TxHash: txHash.String(), Reason: receipt.RevertReason}
	}
	return nil
}

// udcCalldata lays out deployContract(class_hash, salt, unique, calldata).
// unique is false so the address depends only on salt, class and calldata.
func udcCalldata(classHash, salt *felt.Felt, ctorCalldata []*felt.Felt) []*felt.Felt {
	out := make([]*felt.Felt, 0, 4+len(ctorCalldata))
	out = append(out,
		classHash,
		salt,
		new(felt.Felt),
		new(felt.Felt).SetUint64(uint64(len(ctorCalldata))),
	)
	return append(out, ctorCalldata...)
}

// deriveKeys parses the private key and returns it with its Stark public key
func deriveKeys(privateKey string) (*big.Int, string, error) {
	priv, ok := new(big.Int).SetString(privateKey, 0)
	if !ok || priv.Sign() <= 0 {
		return nil, "", fmt.Errorf("invalid deployer private key")
	}
	x, _, err := curve.Curve.PrivateToPoint(priv)
	if err != nil {
		return nil, "", fmt.Errorf("failed to derive public key: %w", err)
	}
	return priv, "0x" + x.Text(16), nil
}

var _ usecase.ContractDeployer = (*Client)(nil)
