package cmd

import (
	"fmt"

	"github.com/dragsbruh/notfoundgen/internal/config"
	"github.com/dragsbruh/notfoundgen/internal/output"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective generate settings and manage config profiles",
	Long: `Without a subcommand, prints the settings generate would use: the active
profile (or the built-in defaults) with --debug applied, whether they pass
validation, and where the first page would be written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Loaded config from:\n  %s\n\n", used)
		cfg.Print(out)
		fmt.Fprintln(out)

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "Not ready to generate: %v\n", err)
			return nil
		}

		first, err := output.Path(cfg.Output, cfg.Pages[0], cfg.Filename)
		if err != nil {
			fmt.Fprintf(out, "Not ready to generate: page %s: %v\n", cfg.Pages[0], err)
			return nil
		}

		fmt.Fprintf(out, "Ready: %d pages, first written to %s\n", len(cfg.Pages), first)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
