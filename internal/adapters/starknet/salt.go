package starknet

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// SaltGenerator draws deployment salts from crypto/rand
type SaltGenerator struct{}

// NewSaltGenerator creates a new salt generator
func NewSaltGenerator() *SaltGenerator {
	return &SaltGenerator{}
}

// NewSalt returns a uniformly random field element
func (g *SaltGenerator) NewSalt() (*felt.Felt, error) {
	salt, err := new(felt.Felt).SetRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to draw random salt: %w", err)
	}
	return salt, nil
}

var _ usecase.SaltGenerator = (*SaltGenerator)(nil)
