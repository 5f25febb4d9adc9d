package main

import (
	"os"

	"github.com/trebuchet-org/starkdeploy/internal/cli"
	"github.com/trebuchet-org/starkdeploy/internal/config"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)
	os.Exit(cli.Execute())
}
