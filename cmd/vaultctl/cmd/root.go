package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "vaultctl",
	Short: "Command-line front end for an encrypted hierarchical secret store",
	Long: `vaultctl opens, saves, merges and searches vaultfile-format secret
databases. It is a thin adapter over the vaultfile library; no
file-format or crypto logic lives here.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "Print debug contents")
	rootCmd.PersistentFlags().String("config", "", "Path to vaultctl config file (default $HOME/.vaultctl.toml)")
	rootCmd.PersistentFlags().Uint64("rounds", 0, "Override key-transform rounds for save/merge operations")
	rootCmd.PersistentFlags().String("keyfile", "", "Path to a key-file to combine with the passphrase")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("rounds", rootCmd.PersistentFlags().Lookup("rounds"))
	viper.BindPFlag("keyfile", rootCmd.PersistentFlags().Lookup("keyfile"))

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".vaultctl")
		viper.SetConfigType("toml")
	}
	viper.SetEnvPrefix("VAULTCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("reading vaultctl config", "error", err)
		}
	}

	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug || viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
}
