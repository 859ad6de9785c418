// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pricelist-engine CLI.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pricelist-engine/internal/config"
	"github.com/pdiddy/pricelist-engine/internal/logging"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, available to every subcommand.
	cfg types.PipelineConfig

	// logger writes to stderr; extract redirects it to stdout.
	logger = logrus.StandardLogger()
)

// rootCmd is the base command for the pricelist-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "pricelist-engine",
	Short: "Extract product records from ruled tables in PDF price lists",
	Long: `pricelist-engine reads PDF price lists, finds the ruled tables on each
page, classifies their columns by header keywords, and writes one
<name>_data.json file of product records per PDF.

The extract subcommand runs the conversion. classify and vocab inspect the
column vocabulary; catalog indexes the JSON output in SQLite for search,
statistics and export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		envKeys, err := config.LoadEnvFile(envFile)
		if err != nil {
			return err
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(cfg.Logging, cmd.ErrOrStderr())

		if used := viper.ConfigFileUsed(); used != "" {
			logger.WithField("config", used).Debug("using config file")
		}
		if len(envKeys) > 0 {
			logger.WithField("keys", envKeys).Debug("loaded environment file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pricelist-engine.yaml or ~/.config/pricelist-engine/pricelist-engine.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before configuration is resolved")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("output-dir", "Data/Extracted_Data", "directory holding <name>_data.json files")
	rootCmd.PersistentFlags().String("vocabulary", "", "YAML file overriding the column vocabulary")

	bindFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	bindFlag("vocabulary_file", rootCmd.PersistentFlags().Lookup("vocabulary"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
