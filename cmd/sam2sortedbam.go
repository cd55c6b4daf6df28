/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/alignment"
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/spf13/cobra"
)

// sam2sortedbamCmd represents the sam2sortedbam command
var sam2sortedbamCmd = &cobra.Command{
	Use:   "sam2sortedbam <input.sam.gz>...",
	Short: "Converts SAM files to coordinate sorted BAM files",
	Long: `Pipes samtools view into samtools sort for each input:

	sample.sam.gz -> sample.sort.bam (log: sample.sort.bam.log)

Inputs may be .sam, .sam.gz or .bam. A non-empty sorted BAM that already
exists is left alone unless --force is given.`,
	Args: MinArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEach(cmd, args, func(input string) (runner.Task, error) {
			return alignment.SamToSortedBam(cfg, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(sam2sortedbamCmd)
}
