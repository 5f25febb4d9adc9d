package domain

import "github.com/NethermindEth/juno/core/felt"

// DeployRequest is everything needed for one declare-and-deploy
type DeployRequest struct {
	Artifact            *ContractArtifact
	ConstructorCalldata []*felt.Felt
	Salt                *felt.Felt
}

// DeployResult is what the ledger reports back
type DeployResult struct {
	Contract        string
	ClassHash       *felt.Felt
	Address         *felt.Felt
	DeclareTxHash   *felt.Felt // nil when the class was already declared
	DeployTxHash    *felt.Felt
	Salt            *felt.Felt
	AlreadyDeclared bool
}
