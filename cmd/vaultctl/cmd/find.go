package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile"
)

var (
	findFields string
	findRegex  bool
)

var findCmd = &cobra.Command{
	Use:   "find <file> <substring>",
	Short: "Search a vault's entries for a substring or regular expression",
	Args:  cobra.ExactArgs(2),
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

		matches, err := vaultfile.Search(db.Root, args[1], vaultfile.SearchOptions{
			Fields: parseFieldMask(findFields),
			Regex:  findRegex,
		})
		if err != nil {
			return err
		}
		for _, e := range matches {
			title, _ := e.Strings.Get(vaultfile.FieldTitle)
			fmt.Printf("%s\t%s\n", e.UUID.Hex(), title.String())
		}
		return nil
	},
}

func parseFieldMask(spec string) vaultfile.FieldMask {
	if spec == "" {
		return vaultfile.FieldAll
	}
	var mask vaultfile.FieldMask
	for _, name := range strings.Split(spec, ",") {
		switch strings.TrimSpace(name) {
		case "title":
			mask |= vaultfile.FieldTitles
		case "username":
			mask |= vaultfile.FieldUserNames
		case "url":
			mask |= vaultfile.FieldURLs
		case "password":
			mask |= vaultfile.FieldPasswords
		case "notes":
			mask |= vaultfile.FieldNotes
		case "other":
			mask |= vaultfile.FieldOther
		case "uuid":
			mask |= vaultfile.FieldUUIDs
		case "tags":
			mask |= vaultfile.FieldTags
		}
	}
	if mask == 0 {
		return vaultfile.FieldAll
	}
	return mask
}

func init() {
	findCmd.Flags().StringVar(&findFields, "fields", "", "comma-separated: title,username,url,password,notes,other,uuid,tags")
	findCmd.Flags().BoolVar(&findRegex, "regex", false, "treat the search term as a regular expression")
	rootCmd.AddCommand(findCmd)
}
