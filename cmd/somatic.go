/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gmaffy/ngs-wrap/variants"
	"github.com/spf13/cobra"
)

var somaticOpts = variants.DefaultSomaticOptions()

// somaticCmd represents the somatic command
var somaticCmd = &cobra.Command{
	Use:   "somatic <normal.mpileup> <tumor.mpileup> <output-prefix>",
	Short: "Calls somatic variants from a normal/tumor mpileup pair with VarScan",
	Long: `Runs VarScan somatic with VCF output:

	<output-prefix>.snp.vcf, <output-prefix>.indel.vcf
	log: <output-prefix>.varscan.somatic.log

Previous calls are overwritten. Requires varscan_jar in the config.`,
	Args: MinArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := variants.VarScanSomatic(cfg, args[0], args[1], args[2], somaticOpts)
		if err != nil {
			return err
		}
		return wrapper.Run(cmd.Context(), task)
	},
}

func init() {
	rootCmd.AddCommand(somaticCmd)

	somaticCmd.Flags().IntVar(&somaticOpts.MinCoverage, "min-coverage", somaticOpts.MinCoverage, "minimum read depth in normal and tumor")
	somaticCmd.Flags().Float64Var(&somaticOpts.MinVarFreq, "min-var-freq", somaticOpts.MinVarFreq, "minimum variant allele frequency")
	somaticCmd.Flags().Float64Var(&somaticOpts.SomaticPValue, "somatic-p-value", somaticOpts.SomaticPValue, "p-value threshold for somatic calls")
}
