/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var statusCheck bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [program]... | status --check <program> <sample>",
	Short: "Shows the latest journal record of every stage",
	Long: `Reads the journal (--journal or the journal config key) and prints the last
status recorded for every program and output, optionally limited to the
named programs.

With --check, exits 0 when the last record for <program> and <sample> (the
output file name, e.g. tumor.sort.bam) is COMPLETED or SKIPPED and 1
otherwise, so a pipeline can decide whether to resume a stage.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if statusCheck && len(args) != 2 {
			_ = cmd.Usage()
			return runner.Usagef("status --check requires <program> <sample>, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Journal == "" {
			return errors.New("status: no journal configured, use --journal or the journal config key")
		}
		entries, err := utils.ParseLogFile(cfg.Journal)
		if err != nil {
			return err
		}

		if statusCheck {
			program, sample := args[0], args[1]
			if !utils.StageHasCompleted(entries, program, sample) {
				return errors.Errorf("%s %s has not completed", program, sample)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", program, sample, utils.StatusCompleted)
			return nil
		}

		latest := utils.LatestByStage(entries)
		if len(args) > 0 {
			latest = lo.Filter(latest, func(e utils.LogEntry, _ int) bool {
				return lo.Contains(args, e.Program)
			})
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROGRAM\tSAMPLE\tSTATUS\tTIME")
		for _, e := range latest {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Program, e.Sample, e.Status, e.Timestamp.Format(time.DateTime))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusCheck, "check", false, "exit 0 if <program> <sample> has completed, 1 otherwise")
}
