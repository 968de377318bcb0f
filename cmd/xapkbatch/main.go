// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the xapkbatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Invoked with a root path it runs the batch
// driver directly; subcommands cover history and version.
var rootCmd = &cobra.Command{
	Use:   "xapkbatch <root>",
	Short: "Convert leaf directories of APK/OBB bundles into XAPK archives",
	Long: `xapkbatch walks the tree under <root>, finds leaf directories (directories
with no subdirectories), and runs the external conversion tool on each one
that does not already contain a .xapk artifact. One status line is printed
per leaf directory:

    === <dir> = SKIP      already converted
    === <dir> = <code>    converter exit status

Conversion failures never stop the batch; the run simply moves on to the
next directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./xapkbatch.yaml or ~/.config/xapkbatch/config.yaml)")

	rootCmd.Flags().String("converter", "", "converter executable (default: xapktool.py)")
	rootCmd.Flags().StringSlice("converter-arg", nil, "extra argument passed to the converter before the directory")
	rootCmd.Flags().String("marker-ext", "", "file extension marking a directory as converted (default: .xapk)")
	rootCmd.Flags().String("ledger", "", "SQLite file recording run history (default: disabled)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xapkbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xapkbatch"))
		}
	}

	viper.SetEnvPrefix("XAPKBATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
