package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "notfoundgen",
	Short: "Generate static 404 fallback pages carrying the live site's head metadata",
	Long: `notfoundgen scrapes the title, meta tags and favicon of each configured
page, inserts them into an HTML template and writes the minified result to
<output>/<page>/404.html, so a reverse proxy can serve a fallback that still
previews like the real page when the backend is down.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
