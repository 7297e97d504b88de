package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile/cmd/vaultctl/internal/recents"
)

var listRecentCmd = &cobra.Command{
	Use:   "list-recent",
	Short: "List the most recently opened vaults",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := recents.Open(cfg.RecentDBPath)
		if err != nil {
			return err
		}
		defer reg.Close()

		entries, err := reg.List(20)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n", e.LastOpened.Format("2006-01-02 15:04:05"), e.DisplayName, e.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listRecentCmd)
}
