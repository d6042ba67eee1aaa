package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the notfoundgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "notfoundgen %s (%s, %s/%s)\n",
			version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// version falls back to the module version for `go install` builds.
func version() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
