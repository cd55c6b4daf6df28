/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/variants"
	"github.com/spf13/cobra"
)

var processSomaticCmd = &cobra.Command{
	Use:   "processsomatic <calls.vcf>...",
	Short: "Splits VarScan somatic calls by status and confidence",
	Long: `Runs VarScan processSomatic on each VCF. sample.snp.vcf produces
sample.snp.Somatic.hc.vcf among others (log: sample.snp.processsomatic.log).
Skipped when the high confidence file already has content, unless --force.`,
	Args: MinArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEach(cmd, args, func(input string) (runner.Task, error) {
			return variants.ProcessSomatic(cfg, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(processSomaticCmd)
}
