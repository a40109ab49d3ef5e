package main

import (
	"github.com/swipemart/syncengine/internal/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.SetBuildInfo(Version, BuildDate, GitCommit)
	cli.Execute()
}
