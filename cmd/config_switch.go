package cmd

import (
	"fmt"

	"github.com/dragsbruh/notfoundgen/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Make another profile the one generate uses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListConfigs()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no configs available, run `notfoundgen config init`")
			}

			items := make([]string, 0, len(list))
			for _, c := range list {
				items = append(items, profileItem(c))
			}

			prompt := promptui.Select{
				Label: "Select config",
				Items: items,
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}

			label = list[idx].Label
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Switched to:", label)
		return nil
	},
}

// profileItem names the site and page count a profile generates for, so
// profiles for different sites are easy to tell apart.
func profileItem(c config.ConfigInfo) string {
	item := c.Label

	if cfg, err := config.LoadProfile(c.Label); err != nil {
		item += "  (unreadable)"
	} else {
		item += fmt.Sprintf("  %s, %d pages -> %s", cfg.BaseURL, len(cfg.Pages), cfg.Output)
	}

	if c.Active {
		item += "  (active)"
	}

	return item
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
