package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tnseq/insertstats/internal/run"
)

func newAnalyseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyse <annotation.gff> <plot-file>...",
		Short: "Compute per-gene insertion statistics from plot files",
		Long: `Compute read coverage, insertion counts and insertion density for every
annotated gene, CDS and polypeptide feature. Genes fully contained in a
CDS are dropped to avoid duplicate rows for the same element.

One tab-delimited output file is written per plot input, or a single
joined output when --joined is set.`,
		Example: `  insertstats analyse ref.gff sample1.insert_site_plot.gz
  insertstats analyse --trim5 0.1 --trim3 0.1 ref.gff sample*.plot
  insertstats analyse --joined --duckdb results.duckdb ref.gff lane1.plot lane2.plot`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := run.Config{
				Annotation: args[0],
				Plots:      args[1:],
				Suffix:     viper.GetString("suffix"),
				Trim5:      viper.GetFloat64("trim5"),
				Trim3:      viper.GetFloat64("trim3"),
				Joined:     viper.GetBool("joined"),
				OutputDir:  viper.GetString("output-dir"),
				DuckDBPath: viper.GetString("duckdb"),
			}

			if cfg.Trim5 < 0 || cfg.Trim5 >= 1 {
				return fmt.Errorf("--trim5 must be in [0,1), got %g", cfg.Trim5)
			}
			if cfg.Trim3 < 0 || cfg.Trim3 >= 1 {
				return fmt.Errorf("--trim3 must be in [0,1), got %g", cfg.Trim3)
			}

			// Past flag validation: failures from here are runtime
			// errors, not usage errors.
			cmd.SilenceUsage = true

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			coord := run.New(cfg)
			coord.SetLogger(logger)
			return coord.Run()
		},
	}

	cmd.Flags().String("suffix", "gene_insert_sites.tsv", "Output file name suffix")
	cmd.Flags().Float64("trim5", 0, "Fraction of feature length trimmed from the 5' end, in [0,1)")
	cmd.Flags().Float64("trim3", 0, "Fraction of feature length trimmed from the 3' end, in [0,1)")
	cmd.Flags().Bool("joined", false, "Merge all plot inputs into one joined output")
	cmd.Flags().String("output-dir", ".", "Directory for output files")
	cmd.Flags().String("duckdb", "", "Also store rows in a DuckDB database at this path")

	for _, key := range []string{"suffix", "trim5", "trim3", "joined", "output-dir", "duckdb"} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(key))
	}

	return cmd
}
