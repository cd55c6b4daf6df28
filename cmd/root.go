/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ngs-wrap",
	Short: "Wrappers around samtools, GATK and VarScan for pipeline stages",
	Long: `Runs one external tool per pipeline stage with a fixed argument set:

1.	SAM to sorted BAM, BAM index, flagstat and mpileup (samtools)
2.	Coverage over target regions (GATK DepthOfCoverage)
3.	Somatic variant calling (VarScan somatic, processSomatic)
4.	VCF to MAF conversion

Every stage checks its inputs, derives output names from them and writes the
tool's output to a log file next to the result. Tool locations come from the
config file named by --config or $` + utils.ConfigEnv + `.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Args:              unknownCommand,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// unknownCommand rejects positional arguments on the root command, which
// cobra otherwise reports as a plain error.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		_ = cmd.Usage()
		return runner.Usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

var (
	cfgFile     string
	journalPath string
	force       bool
	dryRun      bool

	cfg         utils.Config
	wrapper     *runner.Runner
	journalFile *os.File
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeJournal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(runner.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default $"+utils.ConfigEnv+")")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "append JSON status records to this file (overrides the journal config key)")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "re-run stages whose output already exists")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "print the tool command instead of running it")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return runner.Usagef("%v", err)
	})
}

// setup loads the configuration and builds the runner every subcommand uses.
func setup(cmd *cobra.Command, args []string) error {
	if !cmd.HasParent() {
		return nil
	}
	var err error
	cfg, err = utils.ReadConfig(cfgFile)
	if err != nil {
		return err
	}
	if journalPath != "" {
		cfg.Journal = journalPath
	}

	closeJournal()
	if cfg.Journal != "" {
		journalFile, err = utils.OpenJournal(cfg.Journal)
		if err != nil {
			return err
		}
	}

	// a nil *os.File must not reach NewLogger as a non-nil io.Writer
	var journal io.Writer
	if journalFile != nil {
		journal = journalFile
	}
	logger := utils.NewLogger(cmd.ErrOrStderr(), journal, uuid.NewString())

	wrapper = &runner.Runner{
		Logger: logger,
		Force:  force,
		DryRun: dryRun,
		Out:    cmd.OutOrStdout(),
	}
	return nil
}

func closeJournal() {
	if journalFile != nil {
		journalFile.Close()
		journalFile = nil
	}
}

// MinArgs prints usage and fails with a usage error when fewer than n
// positional arguments are given.
func MinArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			_ = cmd.Usage()
			return runner.Usagef("%s requires at least %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// runEach builds and runs one task per input, stopping at the first failure.
func runEach(cmd *cobra.Command, inputs []string, build func(input string) (runner.Task, error)) error {
	for _, input := range inputs {
		task, err := build(input)
		if err != nil {
			return err
		}
		if err := wrapper.Run(cmd.Context(), task); err != nil {
			return err
		}
	}
	return nil
}
