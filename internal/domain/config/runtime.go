package config

import (
	"time"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

// Defaults for a deploy run
const (
	DefaultRPCURL        = "https://free-rpc.nethermind.io/sepolia-juno"
	DefaultContractName  = "CLTBase"
	DefaultArtifactsDir  = "target/dev"
	DefaultTimeout       = time.Duration(0) // no deadline
	DefaultFeeMultiplier = 1.5
	DefaultPollInterval  = 5 * time.Second
	DefaultOutput        = "table"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ArtifactsDir string // absolute, usually <ProjectRoot>/target/dev

	// Deploy target
	RPCURL       string
	ContractName string
	Credentials  domain.Credentials

	// Execution settings
	Debug         bool
	DryRun        bool
	Timeout       time.Duration
	FeeMultiplier float64
	PollInterval  time.Duration
	Output        string // table, json or yaml

	// Resolved configurations
	Scarb *ScarbConfig // nil when the project has no Scarb.toml
}

// ScarbConfig is the subset of Scarb.toml we care about
type ScarbConfig struct {
	Package ScarbPackage `toml:"package"`
}

// ScarbPackage is the [package] table of Scarb.toml
type ScarbPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition,omitempty"`
}

// PackageName returns the scarb package name, or "" when unknown
func (c *RuntimeConfig) PackageName() string {
	if c == nil || c.Scarb == nil {
		return ""
	}
	return c.Scarb.Package.Name
}
