package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// deploySummary is the machine-readable form of a deploy result
type deploySummary struct {
	Contract        string   `json:"contract" yaml:"contract"`
	Address         string   `json:"address,omitempty" yaml:"address,omitempty"`
	ClassHash       string   `json:"classHash,omitempty" yaml:"class_hash,omitempty"`
	DeclareTxHash   string   `json:"declareTxHash,omitempty" yaml:"declare_tx_hash,omitempty"`
	DeployTxHash    string   `json:"deployTxHash,omitempty" yaml:"deploy_tx_hash,omitempty"`
	AlreadyDeclared bool     `json:"alreadyDeclared" yaml:"already_declared"`
	Salt            string   `json:"salt" yaml:"salt"`
	RPC             string   `json:"rpc" yaml:"rpc"`
	DryRun          bool     `json:"dryRun" yaml:"dry_run"`
	Calldata        []string `json:"calldata" yaml:"calldata"`
}

// StructuredDeployRenderer writes the deploy result as JSON or YAML
type StructuredDeployRenderer struct {
	out    io.Writer
	format string
}

// NewStructuredDeployRenderer creates a renderer for the given format
func NewStructuredDeployRenderer(out io.Writer, format string) *StructuredDeployRenderer {
	return &StructuredDeployRenderer{out: out, format: format}
}

// Render encodes the summary in the configured format
func (r *StructuredDeployRenderer) Render(result *usecase.DeployContractResult) error {
	summary := summarize(result)

	switch r.format {
	case FormatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

func summarize(result *usecase.DeployContractResult) deploySummary {
	s := deploySummary{
		Contract: result.Contract,
		Salt:     feltString(result.Salt),
		RPC:      result.RPCURL,
		DryRun:   result.DryRun,
		Calldata: lo.Map(result.Calldata, func(f *felt.Felt, _ int) string { return feltString(f) }),
	}
	if d := result.Deployment; d != nil {
		s.Address = feltString(d.Address)
		s.ClassHash = feltString(d.ClassHash)
		s.DeclareTxHash = feltString(d.DeclareTxHash)
		s.DeployTxHash = feltString(d.DeployTxHash)
		s.AlreadyDeclared = d.AlreadyDeclared
	}
	return s
}

func feltString(f *felt.Felt) string {
	if f == nil {
		return ""
	}
	return f.String()
}

var _ Renderer[*usecase.DeployContractResult] = (*StructuredDeployRenderer)(nil)
