package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile"
	"github.com/vaultfile/vaultfile/cmd/vaultctl/internal/recents"
)

var openCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "Open a vault and print its entity tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sources, err := resolveKeySources(cfg.KeyFilePath)
		if err != nil {
			return err
		}

		db, err := vaultfile.OpenFile(args[0], sources, slogStatusCallback())
		if err != nil {
			return err
		}

		printTree(db.Root, 0)
		recordRecent(cfg, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func printTree(g *vaultfile.Group, depth int) {
	fmt.Printf("%s[%s]\n", strings.Repeat("  ", depth), g.Name)
	for _, e := range g.Entries {
		title, _ := e.Strings.Get(vaultfile.FieldTitle)
		fmt.Printf("%s- %s\n", strings.Repeat("  ", depth+1), title.String())
	}
	for _, sub := range g.Groups {
		printTree(sub, depth+1)
	}
}

func recordRecent(cfg Config, path string) {
	reg, err := recents.Open(cfg.RecentDBPath)
	if err != nil {
		return
	}
	defer reg.Close()
	_ = reg.Touch(path)
}
