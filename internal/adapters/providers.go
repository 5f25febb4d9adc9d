package adapters

import (
	"github.com/google/wire"
	"github.com/spf13/afero"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/starknet"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// ProvideFilesystem provides the OS filesystem used for artifact lookup
func ProvideFilesystem() afero.Fs {
	return afero.NewOsFs()
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	ProvideFilesystem,
	fs.NewArtifactStore,
	wire.Bind(new(usecase.ArtifactRepository), new(*fs.ArtifactStore)),
)

// ABISet provides calldata encoding
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.CalldataEncoder), new(*abi.Encoder)),
)

// BlockchainSet provides read-only node access
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(starknet.NodeChecker), new(*blockchain.CheckerAdapter)),
)

// StarknetSet provides transaction submission and salts
var StarknetSet = wire.NewSet(
	starknet.NewClient,
	wire.Bind(new(usecase.ContractDeployer), new(*starknet.Client)),

	starknet.NewSaltGenerator,
	wire.Bind(new(usecase.SaltGenerator), new(*starknet.SaltGenerator)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ABISet,
	BlockchainSet,
	StarknetSet,
)
