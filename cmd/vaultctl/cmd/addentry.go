package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile"
)

var (
	addTitle    string
	addUserName string
	addURL      string
	addGroup    string
)

var addEntryCmd = &cobra.Command{
	Use:   "add-entry <file>",
	Short: "Add a new entry to a vault, prompting for its password",
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

		parent := db.Root
		if addGroup != "" {
			if g, _ := vaultfile.FindByUUID(db.Root, findGroupUUIDByName(db.Root, addGroup)); g != nil {
				parent = g
			}
		}

		password, err := promptPassphrase("Password: ")
		if err != nil {
			return err
		}

		e := db.NewEntryIn(parent)
		e.SetString(vaultfile.FieldTitle, []byte(addTitle), false)
		e.SetString(vaultfile.FieldUserName, []byte(addUserName), false)
		e.SetString(vaultfile.FieldURL, []byte(addURL), false)
		e.SetString(vaultfile.FieldPassword, []byte(password), true)

		if err := vaultfile.SaveFileAs(db, args[0], sources, slogStatusCallback()); err != nil {
			return err
		}
		fmt.Printf("added entry %s\n", e.UUID.Hex())
		return nil
	},
}

func findGroupUUIDByName(root *vaultfile.Group, name string) vaultfile.UUID {
	var found vaultfile.UUID
	vaultfile.Walk(root, func(g *vaultfile.Group, e *vaultfile.Entry) vaultfile.WalkAction {
		if e == nil && g.Name == name {
			found = g.UUID
			return vaultfile.WalkStop
		}
		return vaultfile.WalkContinue
	})
	return found
}

func init() {
	addEntryCmd.Flags().StringVar(&addTitle, "title", "", "entry title")
	addEntryCmd.Flags().StringVar(&addUserName, "username", "", "entry username")
	addEntryCmd.Flags().StringVar(&addURL, "url", "", "entry URL")
	addEntryCmd.Flags().StringVar(&addGroup, "group", "", "name of the group to add the entry under (default: root)")
	rootCmd.AddCommand(addEntryCmd)
}
