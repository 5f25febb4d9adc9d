package usecase

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

// ArtifactRepository loads compiled contract artifacts by contract name
type ArtifactRepository interface {
	Load(ctx context.Context, name string) (*domain.ContractArtifact, error)
}

// CalldataEncoder serializes constructor arguments against a contract ABI
type CalldataEncoder interface {
	EncodeConstructor(abi domain.ABI, args map[string]any) ([]*felt.Felt, error)
}

// SaltGenerator produces a fresh deployment salt per call
type SaltGenerator interface {
	NewSalt() (*felt.Felt, error)
}

// ContractDeployer declares a contract class (if needed) and deploys an instance of it
type ContractDeployer interface {
	DeclareAndDeploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
