/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strings"

	"github.com/gmaffy/ngs-wrap/annotation"
	"github.com/spf13/cobra"
)

var mafOpts annotation.MafOptions

// vcf2mafCmd represents the vcf2maf command
var vcf2mafCmd = &cobra.Command{
	Use:   "vcf2maf <snpeff.vcf> <sample-id> <gene2entrez.tsv>",
	Short: "Converts a SnpEff annotated VCF to a MAF table",
	Long: `Runs the converter script named by the vcf2maf config key with python:

	sample.vcf -> sample.maf (log: sample.maf.log)

The MAF is overwritten on every run.`,
	Args: MinArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := annotation.Vcf2Maf(cfg, args[0], args[1], args[2], mafOpts)
		if err != nil {
			return err
		}
		return wrapper.Run(cmd.Context(), task)
	},
}

func init() {
	rootCmd.AddCommand(vcf2mafCmd)

	vcf2mafCmd.Flags().BoolVarP(&mafOpts.HighestPriority, "highest-priority-effect", "e", false, "keep only the highest priority effect per variant")
	vcf2mafCmd.Flags().StringVarP(&mafOpts.SingleTranscript, "single-transcript", "s", "", "pickle file with one selected transcript per gene")
	vcf2mafCmd.Flags().StringVar(&mafOpts.Normal, "normal", "", "normal sample column name in the VCF (converter default NORMAL)")
	vcf2mafCmd.Flags().StringVar(&mafOpts.Tumor, "tumor", "", "tumor sample column name in the VCF (converter default TUMOR)")
	vcf2mafCmd.Flags().StringVarP(&mafOpts.SomaticCaller, "somatic-caller", "t", "", "caller that produced the VCF: "+strings.Join(annotation.SomaticCallers, " or "))
}
