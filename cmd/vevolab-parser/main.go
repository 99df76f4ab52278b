// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vevolab-parser CLI, which converts
// VisualSonics Vevo LAB CSV exports into measurement and calculation tables.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the export files named on the command line.
var rootCmd = &cobra.Command{
	Use:   "vevolab-parser [flags] CSV_FILE...",
	Short: "Extract measurement and calculation tables from Vevo LAB CSV exports",
	Long: `vevolab-parser reads a VisualSonics Vevo LAB CSV export and writes two
tables: one row per measurement and one row per calculation, each stamped with
the series id and protocol it was recorded under.

For data/run1.csv the default outputs are data/run1_measurements.csv and
data/run1_calculations.csv. Several files may be given; each is converted
independently.

Rows that look like data but match no known layout are skipped and reported.
Data rows before any "Series Name" and "Protocol Name" header abort the file.`,
	Example: `  vevolab-parser data/run1.csv
  vevolab-parser --format xlsx --output-dir out data/*.csv
  vevolab-parser --sqlite vevolab.db --report report.yaml data/*.csv`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: vevolab-parser.yaml in . or ~/.config/vevolab-parser/)")

	defaults := types.DefaultConvertConfig()
	flags := rootCmd.Flags()
	flags.StringP("output-dir", "o", defaults.OutputDir, "directory for output tables (default: next to each input)")
	flags.StringP("format", "f", string(defaults.Format), "output format: csv, tsv, or xlsx")
	flags.String("naming", string(defaults.Naming), "output names: suffix (<stem>_measurements) or prefix (measurements_<stem>)")
	flags.String("on-unrecognized", string(defaults.Unrecognized), "rows matching no layout: skip or abort")
	flags.String("on-missing-context", string(defaults.MissingContext), "data rows before a series/protocol header: abort or skip")
	flags.String("sqlite", "", "also append the tables to this SQLite database")
	flags.String("report", "", "write a diagnostics report (.yaml or .json)")
	flags.IntP("jobs", "j", defaults.Jobs, "number of files converted concurrently")
	flags.Bool("strict", false, "exit non-zero when any row was skipped")

	bindFlags(map[string]string{
		"output_dir":      "output-dir",
		"format":          "format",
		"naming":          "naming",
		"unrecognized":    "on-unrecognized",
		"missing_context": "on-missing-context",
		"sqlite":          "sqlite",
		"report":          "report",
		"jobs":            "jobs",
		"strict":          "strict",
	})
}

// bindFlags binds config keys to root command flags so that a flag overrides
// the environment and the config file.
func bindFlags(keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, rootCmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vevolab-parser")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vevolab-parser"))
		}
	}

	viper.SetEnvPrefix("VEVOLAB_PARSER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
