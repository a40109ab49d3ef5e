package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildDate    = "unknown"
	buildCommit  = "unknown"
)

// SetBuildInfo принимает сведения о сборке, зашитые через ldflags в main
func SetBuildInfo(version, date, commit string) {
	if version != "" {
		buildVersion = version
	}
	if date != "" {
		buildDate = date
	}
	if commit != "" {
		buildCommit = commit
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию сборки",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("SwipeMart Sync Engine Client\n")
		fmt.Printf("Version:    %s\n", buildVersion)
		fmt.Printf("Build Date: %s\n", buildDate)
		fmt.Printf("Git Commit: %s\n", buildCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
