package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile"
)

var mergePolicyFlag string

var mergeCmd = &cobra.Command{
	Use:   "merge <local> <source>",
	Short: "Merge a source vault into a local one under the given --policy",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		policy, err := parseMergePolicy(mergePolicyFlag)
		if err != nil {
			return err
		}

		sources, err := resolveKeySources(cfg.KeyFilePath)
		if err != nil {
			return err
		}

		local, err := vaultfile.OpenFile(args[0], sources, slogStatusCallback())
		if err != nil {
			return err
		}
		src, err := vaultfile.OpenFile(args[1], sources, slogStatusCallback())
		if err != nil {
			return err
		}

		if err := vaultfile.MergeIn(local, src, policy); err != nil {
			return err
		}
		return vaultfile.SaveFileAs(local, args[0], sources, slogStatusCallback())
	},
}

func parseMergePolicy(name string) (vaultfile.MergePolicy, error) {
	switch name {
	case "overwrite":
		return vaultfile.OverwriteExisting, nil
	case "overwrite-if-newer":
		return vaultfile.OverwriteIfNewer, nil
	case "keep-existing":
		return vaultfile.KeepExisting, nil
	case "create-new-uuids":
		return vaultfile.CreateNewUuids, nil
	case "synchronize", "":
		return vaultfile.Synchronize, nil
	default:
		return 0, fmt.Errorf("unknown merge policy %q", name)
	}
}

func init() {
	mergeCmd.Flags().StringVar(&mergePolicyFlag, "policy", "synchronize",
		"one of: overwrite, overwrite-if-newer, keep-existing, create-new-uuids, synchronize")
	rootCmd.AddCommand(mergeCmd)
}
