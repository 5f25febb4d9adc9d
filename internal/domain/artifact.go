package domain

// ContractArtifact is the compiled pair of a Cairo contract as produced by scarb.
// Sierra and Casm are kept as raw JSON; only the ABI is interpreted locally.
type ContractArtifact struct {
	Name       string
	SierraPath string
	CasmPath   string
	Sierra     []byte
	Casm       []byte
	ABI        ABI
}
