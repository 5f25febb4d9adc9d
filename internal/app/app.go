package app

import (
	"github.com/trebuchet-org/starkdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContract *usecase.DeployContract

	checker *blockchain.CheckerAdapter
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContract *usecase.DeployContract,
	checker *blockchain.CheckerAdapter,
) (*App, error) {
	return &App{
		Config:         cfg,
		DeployContract: deployContract,
		checker:        checker,
	}, nil
}

// Close releases the node connection, if one was opened
func (a *App) Close() {
	if a.checker != nil {
		a.checker.Close()
	}
}
