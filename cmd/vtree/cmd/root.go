package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "vtree",
	Short: "In-memory virtual filesystem CLI",
	Long:  "CLI for exploring vtree trees and moving snapshot archives around.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/vtree/config.yaml)")
	rootCmd.PersistentFlags().String("policy", "", "duplicate-name policy: reject or overwrite")

	viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
}

func initConfig() {
	cobra.CheckErr(readConfig())
}

func readConfig() error {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VTREE")
	viper.AutomaticEnv()
	viper.SetDefault("policy", "reject")

	if err := viper.ReadInConfig(); err != nil {
		// a missing config in the default search path is fine, anything
		// else (unreadable file, bad YAML, typoed --config path) is not
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vtree")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "vtree")
	}
	return ".vtree"
}

func getPolicy() string {
	return viper.GetString("policy")
}
