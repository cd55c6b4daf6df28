/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/alignment"
	"github.com/spf13/cobra"
)

// coverageCmd represents the coverage command
var coverageCmd = &cobra.Command{
	Use:   "coverage <reference.fa> <targets> <output-prefix> <input.bam>...",
	Short: "Computes coverage over target regions with GATK DepthOfCoverage",
	Long: `Runs GATK DepthOfCoverage on all BAMs together. GATK writes its tables
as <output-prefix>.sample_summary and friends; the log is
<output-prefix>.depthofcoverage.log. Previous results are overwritten.

Requires gatk_jar in the config.`,
	Args: MinArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := alignment.DepthOfCoverage(cfg, args[0], args[1], args[2], args[3:])
		if err != nil {
			return err
		}
		return wrapper.Run(cmd.Context(), task)
	},
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}
