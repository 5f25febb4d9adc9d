package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactLoad is returned when a contract's compiled artifacts can't be read
	ErrArtifactLoad = errors.New("failed to read contract files")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidABI is returned when a contract ABI can't be parsed
	ErrInvalidABI = errors.New("invalid abi")

	// ErrConstructorNotFound is returned when the ABI declares no constructor
	ErrConstructorNotFound = errors.New("constructor not found in abi")

	// ErrDeploymentReverted is returned when the deploy transaction reverts on chain
	ErrDeploymentReverted = errors.New("deployment reverted")
)

// ArtifactLoadError wraps any failure that happens while locating or parsing
// the Sierra/CASM pair of a contract.
type ArtifactLoadError struct {
	Contract string
	Path     string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load artifacts for %s (%s): %v", e.Contract, e.Path, e.Err)
	}
	return fmt.Sprintf("load artifacts for %s: %v", e.Contract, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// Is makes every ArtifactLoadError match ErrArtifactLoad
func (e *ArtifactLoadError) Is(target error) bool {
	return target == ErrArtifactLoad
}

// DeploymentRevertedError carries the revert reason reported by the node
type DeploymentRevertedError struct {
	TxHash string
	Reason string
}

func (e *DeploymentRevertedError) Error() string {
	return fmt.Sprintf("deployment transaction %s reverted: %s", e.TxHash, e.Reason)
}

func (e *DeploymentRevertedError) Is(target error) bool {
	return target == ErrDeploymentReverted
}

// AmbiguousArtifactErr is returned when more than one artifact matches a contract name
type AmbiguousArtifactErr struct {
	Contract string
	Matches  []string
}

func (e AmbiguousArtifactErr) Error() string {
	return fmt.Sprintf("multiple artifacts match contract %s: %v", e.Contract, e.Matches)
}
