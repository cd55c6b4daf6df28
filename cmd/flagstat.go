/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/alignment"
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/spf13/cobra"
)

var flagstatCmd = &cobra.Command{
	Use:   "flagstat <input.bam>...",
	Short: "Writes samtools flagstat reports",
	Long:  `Runs samtools flagstat; sample.bam -> sample.flagstat (log: sample.flagstat.log).`,
	Args:  MinArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEach(cmd, args, func(input string) (runner.Task, error) {
			return alignment.Flagstat(cfg, input)
		})
	},
}

func init() {
	rootCmd.AddCommand(flagstatCmd)
}
