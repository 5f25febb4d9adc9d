package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/starkdeploy/internal/app"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	domainconfig "github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// ArtifactLoadMessage is printed when the contract artifacts can't be read
const ArtifactLoadMessage = "Failed to read contract files"

// AppFactory builds the application from resolved configuration
type AppFactory func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.InitApp)
}

func newRootCmd(factory AppFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starkdeploy",
		Short: "Declare and deploy a Cairo contract to Starknet",
		Long: `starkdeploy declares the compiled Scarb artifacts of a contract and deploys
one instance through the Universal Deployer Contract.

The deployer account is read from DEPLOYER_ADDRESS and DEPLOYER_PRIVATE_KEY,
either from the environment or from a .env file at the project root.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, factory)
		},
	}

	flags := rootCmd.Flags()
	flags.String(config.KeyContract, domainconfig.DefaultContractName, "Contract name to deploy")
	flags.String(config.KeyRPCURL, domainconfig.DefaultRPCURL, "Starknet JSON-RPC endpoint")
	flags.String(config.KeyArtifactsDir, domainconfig.DefaultArtifactsDir, "Directory holding Scarb build artifacts")
	flags.Duration(config.KeyTimeout, domainconfig.DefaultTimeout, "Overall deadline for the run (0 means none)")
	flags.Bool(config.KeyDryRun, false, "Load and encode everything but don't submit")
	flags.Bool(config.KeyDebug, false, "Enable debug output")
	flags.StringP(config.KeyOutput, "o", domainconfig.DefaultOutput, "Output format (table, json, yaml)")

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func runDeploy(cmd *cobra.Command, factory AppFactory) error {
	v := config.SetupViper(config.FindProjectRoot(), cmd)

	spinner := progress.NewSpinnerProgressReporter(cmd.ErrOrStderr())
	defer spinner.Stop()

	// Structured output stays machine-readable
	var sink usecase.ProgressSink = spinner
	switch strings.ToLower(v.GetString(config.KeyOutput)) {
	case render.FormatJSON, render.FormatYAML:
		sink = progress.NewNopSink()
	}

	appInstance, err := factory(v, sink)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer appInstance.Close()

	switch appInstance.Config.Output {
	case "", render.FormatTable, render.FormatJSON, render.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", appInstance.Config.Output)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if appInstance.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
		defer cancel()
	}

	result, err := appInstance.DeployContract.Run(ctx, usecase.DeployContractParams{
		DryRun: appInstance.Config.DryRun,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	return newRenderer(cmd.OutOrStdout(), appInstance.Config).Render(result)
}

func newRenderer(out io.Writer, cfg *domainconfig.RuntimeConfig) render.Renderer[*usecase.DeployContractResult] {
	switch cfg.Output {
	case "", render.FormatTable:
		return render.NewDeployRenderer(out, cfg.Debug)
	default:
		return render.NewStructuredDeployRenderer(out, cfg.Output)
	}
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	return execute(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrArtifactLoad) {
			fmt.Fprintln(stderr, ArtifactLoadMessage)
			fmt.Fprintf(stderr, "  %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
