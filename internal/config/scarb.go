package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

const scarbManifest = "Scarb.toml"

// loadScarbConfig reads Scarb.toml from the project root. A missing manifest
// is not an error.
func loadScarbConfig(projectRoot string) (*config.ScarbConfig, error) {
	var cfg config.ScarbConfig
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, scarbManifest), &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}
