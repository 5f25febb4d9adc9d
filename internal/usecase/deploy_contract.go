package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

// Progress stages reported by DeployContract
const (
	StageLoading   = "loading"
	StageEncoding  = "encoding"
	StageDeploying = "deploying"
	StageComplete  = "complete"
)

// DeployContractParams contains parameters for a deploy run
type DeployContractParams struct {
	ContractName string
	DryRun       bool
}

// DeployContractResult contains the outcome of a deploy run
type DeployContractResult struct {
	Contract   string
	Artifact   *domain.ContractArtifact
	Args       domain.ConstructorArgs
	Calldata   []*felt.Felt
	Salt       *felt.Felt
	Deployment *domain.DeployResult // nil on dry run
	DryRun     bool
	RPCURL     string
}

// DeployContract is the use case for declaring and deploying one contract
type DeployContract struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	encoder   CalldataEncoder
	salts     SaltGenerator
	deployer  ContractDeployer
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	encoder CalldataEncoder,
	salts SaltGenerator,
	deployer ContractDeployer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		artifacts: artifacts,
		encoder:   encoder,
		salts:     salts,
		deployer:  deployer,
		sink:      sink,
		log:       log,
	}
}

// Run executes the deploy. Artifact failures come back as
// *domain.ArtifactLoadError; anything else is returned as-is.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	name := params.ContractName
	if name == "" {
		name = uc.config.ContractName
	}

	uc.sink.Info(fmt.Sprintf("ACCOUNT_ADDRESS= %s", uc.config.Credentials.Address))
	uc.log.Debug("deploy starting",
		"contract", name,
		"rpc", uc.config.RPCURL,
		"dry_run", params.DryRun,
	)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: fmt.Sprintf("Loading %s artifacts", name),
		Spinner: true,
	})
	artifact, err := uc.artifacts.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("artifacts loaded", "sierra", artifact.SierraPath, "casm", artifact.CasmPath)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageEncoding,
		Message: "Encoding constructor calldata",
	})
	args := domain.NewConstructorArgs(uc.config.Credentials.Address)
	calldata, err := uc.encoder.EncodeConstructor(artifact.ABI, args.Named())
	if err != nil {
		return nil, fmt.Errorf("failed to compile constructor calldata: %w", err)
	}

	salt, err := uc.salts.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	result := &DeployContractResult{
		Contract: name,
		Artifact: artifact,
		Args:     args,
		Calldata: calldata,
		Salt:     salt,
		DryRun:   params.DryRun,
		RPCURL:   uc.config.RPCURL,
	}

	if params.DryRun {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   StageComplete,
			Message: "Dry run, nothing submitted",
		})
		return result, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Declaring and deploying %s", name),
		Spinner: true,
	})
	deployment, err := uc.deployer.DeclareAndDeploy(ctx, domain.DeployRequest{
		Artifact:            artifact,
		ConstructorCalldata: calldata,
		Salt:                salt,
	})
	if err != nil {
		return nil, err
	}
	result.Deployment = deployment

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Message: "Deployment complete",
	})

	return result, nil
}
