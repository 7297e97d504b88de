package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vaultfile/vaultfile"
)

var saveAsPath string

var saveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Open a vault, then re-save it (optionally to a new path)",
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
		if cfg.Rounds != 0 {
			db.KeyTransformRounds = cfg.Rounds
		}
		db.Compression = cfg.compression()

		dest := args[0]
		if saveAsPath != "" {
			dest = saveAsPath
		}
		return vaultfile.SaveFileAs(db, dest, sources, slogStatusCallback())
	},
}

func init() {
	saveCmd.Flags().StringVar(&saveAsPath, "as", "", "Save to a different path instead of overwriting the source")
	rootCmd.AddCommand(saveCmd)
}
