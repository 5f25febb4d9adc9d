package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

// Environment variables holding the deployer account
const (
	EnvDeployerAddress    = "DEPLOYER_ADDRESS"
	EnvDeployerPrivateKey = "DEPLOYER_PRIVATE_KEY"
)

// Viper keys; flags share the same names
const (
	KeyProjectRoot        = "project-root"
	KeyRPCURL             = "rpc-url"
	KeyContract           = "contract"
	KeyArtifactsDir       = "artifacts-dir"
	KeyDryRun             = "dry-run"
	KeyDebug              = "debug"
	KeyTimeout            = "timeout"
	KeyFeeMultiplier      = "fee-multiplier"
	KeyPollInterval       = "poll-interval"
	KeyOutput             = "output"
	KeyDeployerAddress    = "deployer-address"
	KeyDeployerPrivateKey = "deployer-private-key"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString(KeyProjectRoot)
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	artifactsDir := v.GetString(KeyArtifactsDir)
	if !filepath.IsAbs(artifactsDir) {
		artifactsDir = filepath.Join(projectRoot, artifactsDir)
	}

	rpcURL, err := ExpandRPCURL(v.GetString(KeyRPCURL))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:  projectRoot,
		ArtifactsDir: artifactsDir,
		RPCURL:       rpcURL,
		ContractName: v.GetString(KeyContract),
		Credentials: domain.Credentials{
			Address:    v.GetString(KeyDeployerAddress),
			PrivateKey: v.GetString(KeyDeployerPrivateKey),
		},
		Debug:         v.GetBool(KeyDebug),
		DryRun:        v.GetBool(KeyDryRun),
		Timeout:       v.GetDuration(KeyTimeout),
		FeeMultiplier: v.GetFloat64(KeyFeeMultiplier),
		PollInterval:  v.GetDuration(KeyPollInterval),
		Output:        strings.ToLower(v.GetString(KeyOutput)),
	}

	scarb, err := loadScarbConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load Scarb.toml: %w", err)
	}
	cfg.Scarb = scarb

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find Scarb.toml.
// Falls back to the working directory.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, scarbManifest)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. The project .env files
// are loaded into the process environment first.
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	loadEnvFiles(projectRoot)

	v := viper.New()

	// Optional starkdeploy.toml next to Scarb.toml
	v.SetConfigName("starkdeploy")
	v.SetConfigType("toml")
	v.AddConfigPath(projectRoot)

	// Set up environment variables
	v.SetEnvPrefix("STARKDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Credentials keep their unprefixed names
	_ = v.BindEnv(KeyDeployerAddress, EnvDeployerAddress)
	_ = v.BindEnv(KeyDeployerPrivateKey, EnvDeployerPrivateKey)

	// Set defaults
	v.SetDefault(KeyProjectRoot, projectRoot)
	v.SetDefault(KeyRPCURL, config.DefaultRPCURL)
	v.SetDefault(KeyContract, config.DefaultContractName)
	v.SetDefault(KeyArtifactsDir, config.DefaultArtifactsDir)
	v.SetDefault(KeyTimeout, config.DefaultTimeout)
	v.SetDefault(KeyFeeMultiplier, config.DefaultFeeMultiplier)
	v.SetDefault(KeyPollInterval, config.DefaultPollInterval)
	v.SetDefault(KeyOutput, config.DefaultOutput)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyDeployerAddress, "")
	v.SetDefault(KeyDeployerPrivateKey, "")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bindFlags(v, cmd.Flags())
	}

	return v
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})
}
