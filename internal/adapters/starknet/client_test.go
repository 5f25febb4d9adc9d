package starknet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/contracts"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

const (
	testSierra = `{
		"sierra_program": [],
		"contract_class_version": "0.1.0",
		"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [], "L1_HANDLER": []},
		"abi": "[]"
	}`
	testCasm = `{
		"prime": "0x800000000000011000000000000000000000000000000000000000000000001",
		"compiler_version": "2.6.0",
		"bytecode": [],
		"hints": [],
		"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [], "L1_HANDLER": []}
	}`
)

// MockAccount is a mock implementation of accountAPI
type MockAccount struct {
	mock.Mock
}

func (m *MockAccount) BuildAndSendDeclareTxn(ctx context.Context, casmClass *contracts.CasmClass, contractClass *contracts.ContractClass, multiplier float64) (*rpc.AddDeclareTransactionResponse, error) {
	args := m.Called(ctx, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.AddDeclareTransactionResponse), args.Error(1)
}

func (m *MockAccount) BuildAndSendInvokeTxn(ctx context.Context, functionCalls []rpc.InvokeFunctionCall, multiplier float64) (*rpc.AddInvokeTransactionResponse, error) {
	args := m.Called(ctx, functionCalls, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.AddInvokeTransactionResponse), args.Error(1)
}

func (m *MockAccount) WaitForTransactionReceipt(ctx context.Context, transactionHash *felt.Felt, pollInterval time.Duration) (*rpc.TransactionReceiptWithBlockInfo, error) {
	args := m.Called(ctx, transactionHash, pollInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.TransactionReceiptWithBlockInfo), args.Error(1)
}

// MockChecker is a mock implementation of NodeChecker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) ChainID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockChecker) IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error) {
	args := m.Called(ctx, classHash)
	return args.Bool(0), args.Error(1)
}

func receipt(status rpc.TxnExecutionStatus, reason string) *rpc.TransactionReceiptWithBlockInfo {
	return &rpc.TransactionReceiptWithBlockInfo{
		TransactionReceipt: rpc.TransactionReceipt{
			ExecutionStatus: status,
			RevertReason:    reason,
		},
	}
}

type clientFixture struct {
	client    *Client
	account   *MockAccount
	checker   *MockChecker
	classHash *felt.Felt
	opened    int
}

func newClientFixture() *clientFixture {
	f := &clientFixture{
		account:   new(MockAccount),
		checker:   new(MockChecker),
		classHash: new(felt.Felt).SetUint64(0xc1a55),
	}
	cfg := &config.RuntimeConfig{
		RPCURL:        config.DefaultRPCURL,
		Credentials:   domain.Credentials{Address: "0xabc", PrivateKey: "0x1"},
		FeeMultiplier: 1.5,
		PollInterval:  time.Millisecond,
	}
	f.client = NewClient(cfg, f.checker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.client.openAccount = func(context.Context) (accountAPI, error) {
		f.opened++
		return f.account, nil
	}
	f.client.classHash = func(*contracts.ContractClass) *felt.Felt {
		return f.classHash
	}
	return f
}

func deployRequest() domain.DeployRequest {
	return domain.DeployRequest{
		Artifact: &domain.ContractArtifact{
			Name:   "CLTBase",
			Sierra: []byte(testSierra),
			Casm:   []byte(testCasm),
		},
		ConstructorCalldata: []*felt.Felt{
			new(felt.Felt).SetUint64(0xabc),
			new(felt.Felt).SetUint64(0x75d),
		},
		Salt: new(felt.Felt).SetUint64(42),
	}
}

func TestClientDeclareAndDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("declares then deploys through the UDC", func(t *testing.T) {
		f := newClientFixture()
		req := deployRequest()
		declareTx := new(felt.Felt).SetUint64(0xd1)
		deployTx := new(felt.Felt).SetUint64(0xd2)

		f.checker.On("ChainID", ctx).Return("SN_SEPOLIA", nil)
		f.checker.On("IsClassDeclared", ctx, f.classHash).Return(false, nil)
		f.account.On("BuildAndSendDeclareTxn", ctx, 1.5).Return(&rpc.AddDeclareTransactionResponse{
			TransactionHash: declareTx,
			ClassHash:       f.classHash,
		}, nil)
		f.account.On("WaitForTransactionReceipt", ctx, declareTx, time.Millisecond).
			Return(receipt(rpc.TxnExecutionStatusSUCCEEDED, ""), nil)
		f.account.On("BuildAndSendInvokeTxn", ctx, mock.MatchedBy(func(calls []rpc.InvokeFunctionCall) bool {
			if len(calls) != 1 || calls[0].FunctionName != "deployContract" {
				return false
			}
			udc, err := utils.HexToFelt(UniversalDeployerAddress)
			return err == nil && calls[0].ContractAddress.Equal(udc)
		}), 1.5).Return(&rpc.AddInvokeTransactionResponse{TransactionHash: deployTx}, nil)
		f.account.On("WaitForTransactionReceipt", ctx, deployTx, time.Millisecond).
			Return(receipt(rpc.TxnExecutionStatusSUCCEEDED, ""), nil)

		result, err := f.client.DeclareAndDeploy(ctx, req)
		require.NoError(t, err)

		expected := contracts.PrecomputeAddress(new(felt.Felt), req.Salt, f.classHash, req.ConstructorCalldata)
		assert.True(t, expected.Equal(result.Address))
		assert.Equal(t, "CLTBase", result.Contract)
		assert.Same(t, declareTx, result.DeclareTxHash)
		assert.Same(t, deployTx, result.DeployTxHash)
		assert.False(t, result.AlreadyDeclared)
		assert.Equal(t, 1, f.opened)

		f.checker.AssertExpectations(t)
		f.account.AssertExpectations(t)
	})

	t.Run("skips declare when class is known", func(t *testing.T) {
		f := newClientFixture()
		deployTx := new(felt.Felt).SetUint64(0xd2)

		f.checker.On("ChainID", ctx).Return("SN_SEPOLIA", nil)
		f.checker.On("IsClassDeclared", ctx, f.classHash).Return(true, nil)
		f.account.On("BuildAndSendInvokeTxn", ctx, mock.Anything, 1.5).
			Return(&rpc.AddInvokeTransactionResponse{TransactionHash: deployTx}, nil)
		f.account.On("WaitForTransactionReceipt", ctx, deployTx, time.Millisecond).
			Return(receipt(rpc.TxnExecutionStatusSUCCEEDED, ""), nil)

		result, err := f.client.DeclareAndDeploy(ctx, deployRequest())
		require.NoError(t, err)
		assert.True(t, result.AlreadyDeclared)
		assert.Nil(t, result.DeclareTxHash)
		f.account.AssertNotCalled(t, "BuildAndSendDeclareTxn", mock.Anything, mock.Anything)
	})

	t.Run("reverted deploy carries the reason", func(t *testing.T) {
		f := newClientFixture()
		deployTx := new(felt.Felt).SetUint64(0xd2)

		f.checker.On("ChainID", ctx).Return("SN_SEPOLIA", nil)
		f.checker.On("IsClassDeclared", ctx, f.classHash).Return(true, nil)
		f.account.On("BuildAndSendInvokeTxn", ctx, mock.Anything, 1.5).
			Return(&rpc.AddInvokeTransactionResponse{TransactionHash: deployTx}, nil)
		f.account.On("WaitForTransactionReceipt", ctx, deployTx, time.Millisecond).
			Return(receipt(rpc.TxnExecutionStatusREVERTED, "Error in the called contract"), nil)

		result, err := f.client.DeclareAndDeploy(ctx, deployRequest())
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrDeploymentReverted)

		var reverted *domain.DeploymentRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, "Error in the called contract", reverted.Reason)
	})

	t.Run("submission rejection propagates", func(t *testing.T) {
		f := newClientFixture()
		rejection := errors.New("Account validation failed")

		f.checker.On("ChainID", ctx).Return("SN_SEPOLIA", nil)
		f.checker.On("IsClassDeclared", ctx, f.classHash).Return(false, nil)
		f.account.On("BuildAndSendDeclareTxn", ctx, 1.5).Return(nil, rejection)

		_, err := f.client.DeclareAndDeploy(ctx, deployRequest())
		assert.ErrorIs(t, err, rejection)
		assert.Contains(t, err.Error(), "Account validation failed")
	})

	t.Run("unreachable node stops before opening the account", func(t *testing.T) {
		f := newClientFixture()
		f.checker.On("ChainID", ctx).Return("", errors.New("connection refused"))

		_, err := f.client.DeclareAndDeploy(ctx, deployRequest())
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 0, f.opened)
	})

	t.Run("malformed sierra is rejected before any network call", func(t *testing.T) {
		f := newClientFixture()
		req := deployRequest()
		req.Artifact.Sierra = []byte(`not json`)

		_, err := f.client.DeclareAndDeploy(ctx, req)
		assert.ErrorContains(t, err, "sierra")
		f.checker.AssertNotCalled(t, "ChainID", mock.Anything)
	})
}

func TestUDCCalldata(t *testing.T) {
	classHash := new(felt.Felt).SetUint64(7)
	salt := new(felt.Felt).SetUint64(8)
	ctor := []*felt.Felt{new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2)}

	got := udcCalldata(classHash, salt, ctor)
	want := []uint64{7, 8, 0, 2, 1, 2}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, new(felt.Felt).SetUint64(w).String(), got[i].String(), "index %d", i)
	}
}

func TestDeriveKeys(t *testing.T) {
	t.Run("rejects empty key", func(t *testing.T) {
		_, _, err := deriveKeys("")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := deriveKeys("0xzz")
		assert.Error(t, err)
	})

	t.Run("derives a hex public key", func(t *testing.T) {
		priv, pub, err := deriveKeys("0x1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), priv.Int64())
		// x coordinate of the generator point
		assert.Equal(t, "0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca", pub)
	})
}
