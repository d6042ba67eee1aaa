package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dragsbruh/notfoundgen/internal/config"
	"github.com/dragsbruh/notfoundgen/internal/render"

	"github.com/spf13/cobra"
)

var flagForceTemplate bool

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the page template",
}

var templateInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the starter template (defaults to the template path of the active config)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, _, err := config.LoadMerged(config.Options{IgnoreConfig: flagIgnoreConfig})
			if err != nil {
				return err
			}
			path = cfg.Template
		}

		if _, err := os.Stat(path); err == nil && !flagForceTemplate {
			if !confirm(fmt.Sprintf("%s exists. Overwrite", path)) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create template directory: %w", err)
			}
		}

		if err := os.WriteFile(path, []byte(render.DefaultTemplate), 0644); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}

		fmt.Println("Template written to:", path)
		fmt.Printf("Head tags are inserted at %s.\n", render.DefaultMarker)
		return nil
	},
}

func init() {
	templateInitCmd.Flags().BoolVar(&flagForceTemplate, "force", false, "overwrite without asking")
	templateCmd.AddCommand(templateInitCmd)
	rootCmd.AddCommand(templateCmd)
}
