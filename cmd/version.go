package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// buildInfo is what the binary knows about its own build.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
	Runtime string
}

func currentBuildInfo() buildInfo {
	return buildInfo{Version: version, Commit: commit, Date: date, Runtime: runtime.Version()}
}

// versionCmd prints build details. CI scripts pinning a release use --short.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qualitygate.",
	Long: `Display the release, commit, build date and Go runtime of this binary.

Use --short to print only the release, e.g. to compare it against the version
a workflow expects before gating on its report.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		info := currentBuildInfo()
		if short, _ := cmd.Flags().GetBool("short"); short {
			cmd.Println(info.Version)
			return
		}
		cmd.Printf("qualitygate CLI %s\n", info.Version)
		cmd.Printf("  Commit:  %s\n", info.Commit)
		cmd.Printf("  Built:   %s\n", info.Date)
		cmd.Printf("  Runtime: %s\n", info.Runtime)
	},
}
