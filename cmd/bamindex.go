/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/alignment"
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/spf13/cobra"
)

var bamindexCmd = &cobra.Command{
	Use:   "bamindex <input.bam>...",
	Short: "Indexes sorted BAM files with samtools index",
	Long: `Writes input.bam.bai (log: input.bam.bai.log). An existing non-empty index
is kept unless --force is given.`,
	Args: MinArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEach(cmd, args, func(input string) (runner.Task, error) {
			return alignment.BamIndex(cfg, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(bamindexCmd)
}
