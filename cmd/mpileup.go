/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/alignment"
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/spf13/cobra"
)

// mpileupCmd represents the mpileup command
var mpileupCmd = &cobra.Command{
	Use:   "mpileup <reference.fa> <targets.bed> <input.bam>...",
	Short: "Creates per-sample mpileup files over target regions",
	Long: `Runs samtools mpileup -B -q 1 restricted to the target BED for each BAM:

	sample.bam -> sample.mpileup (log: sample.mpileup.log)

The output feeds the somatic command. Existing non-empty mpileups are kept
unless --force is given.`,
	Args: MinArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, targets := args[0], args[1]
		return runEach(cmd, args[2:], func(input string) (runner.Task, error) {
			return alignment.Mpileup(cfg, reference, targets, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(mpileupCmd)
}
