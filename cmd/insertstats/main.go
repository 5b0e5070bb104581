// Package main provides the insertstats command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "insertstats",
		Short: "Per-gene transposon insertion statistics",
		Long: `insertstats converts per-base transposon insertion counts (plot files)
plus a genome annotation into per-gene insertion statistics for
downstream essentiality analysis.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)

	root.AddCommand(newAnalyseCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig loads ~/.insertstats.yaml if present. A missing config
// file is not an error; flags provide every default.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".insertstats")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig()
}
