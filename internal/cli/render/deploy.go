package render

import (
	"fmt"
	"io"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// DeployRenderer renders the outcome of a deploy run
type DeployRenderer struct {
	out     io.Writer
	verbose bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, verbose bool) *DeployRenderer {
	return &DeployRenderer{out: out, verbose: verbose}
}

// Render prints the deployed address followed by a summary table
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	if result.DryRun {
		return r.renderDryRun(result)
	}
	if result.Deployment == nil || result.Deployment.Address == nil {
		return fmt.Errorf("deployment returned no address")
	}

	d := result.Deployment
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Contract has been deploy with the address: %s", d.Address)))
	fmt.Fprintln(r.out)

	rows := []table.Row{
		{"Contract", color.New(color.Bold).Sprint(result.Contract)},
		{"Class hash", d.ClassHash},
	}
	if d.AlreadyDeclared {
		rows = append(rows, table.Row{"Declare tx", color.New(color.Faint).Sprint("already declared")})
	} else {
		rows = append(rows, table.Row{"Declare tx", d.DeclareTxHash})
	}
	rows = append(rows,
		table.Row{"Deploy tx", d.DeployTxHash},
		table.Row{"Salt", d.Salt},
		table.Row{"RPC", result.RPCURL},
	)

	fmt.Fprintln(r.out, summaryTable(rows))
	return nil
}

func (r *DeployRenderer) renderDryRun(result *usecase.DeployContractResult) error {
	fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Dry run: %s was not submitted", result.Contract)))
	fmt.Fprintln(r.out)

	rows := []table.Row{
		{"Contract", color.New(color.Bold).Sprint(result.Contract)},
	}
	if result.Artifact != nil {
		rows = append(rows,
			table.Row{"Sierra", result.Artifact.SierraPath},
			table.Row{"CASM", result.Artifact.CasmPath},
		)
	}
	rows = append(rows,
		table.Row{"Salt", result.Salt},
		table.Row{"RPC", result.RPCURL},
		table.Row{"Calldata", fmt.Sprintf("%d felts", len(result.Calldata))},
	)
	for i, f := range result.Calldata {
		rows = append(rows, table.Row{fmt.Sprintf("  [%d]", i), formatFelt(f, r.verbose)})
	}

	fmt.Fprintln(r.out, summaryTable(rows))
	return nil
}

func formatFelt(f *felt.Felt, verbose bool) string {
	if f == nil {
		return "-"
	}
	if verbose {
		return f.String()
	}
	return shortenHex(f.String())
}

// summaryTable renders label/value rows without borders
func summaryTable(rows []table.Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, Colors: text.Colors{text.FgCyan}},
		{Number: 2, Align: text.AlignLeft},
	})

	for _, row := range rows {
		for i, cell := range row {
			if f, ok := cell.(*felt.Felt); ok {
				row[i] = formatFelt(f, true)
			}
		}
		t.AppendRow(row)
	}
	return t.Render()
}

var _ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
