package annotation

import (
	"strings"

	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type MafOptions struct {
	// HighestPriority keeps only the highest priority SnpEff effect per variant.
	HighestPriority bool
	// SingleTranscript is a pickle of selected transcripts per gene.
	SingleTranscript string
	// Normal and Tumor name the VCF sample columns when they are not
	// NORMAL and TUMOR.
	Normal string
	Tumor  string
	// SomaticCaller is the tool that produced the calls, one of
	// SomaticCallers. Empty leaves the converter's default (varscan).
	SomaticCaller string
}

// SomaticCallers are the callers whose VCF layout the converter understands.
var SomaticCallers = []string{"varscan", "gatk_somatic_indel_detector"}

func (o MafOptions) args() ([]string, error) {
	var options []string
	if o.HighestPriority {
		options = append(options, "-e")
	}
	if o.SingleTranscript != "" {
		options = append(options, "-s", o.SingleTranscript)
	}
	if o.Normal != "" {
		options = append(options, "--normal", o.Normal)
	}
	if o.Tumor != "" {
		options = append(options, "--tumor", o.Tumor)
	}
	if o.SomaticCaller != "" {
		if !lo.Contains(SomaticCallers, o.SomaticCaller) {
			return nil, runner.Usagef("vcf2maf: --somatic-caller must be one of %s, got %q",
				strings.Join(SomaticCallers, ", "), o.SomaticCaller)
		}
		options = append(options, "-t", o.SomaticCaller)
	}
	return options, nil
}

var vcf2mafArgs = []string{"{{python}}", "{{vcf2maf}}", "{{input}}", "{{sample}}", "{{gene2entrez}}", "{{options}}"}

func MafPath(vcf string) string {
	return runner.Stem(vcf, ".vcf", ".vcf.gz") + ".maf"
}

// Vcf2Maf runs the configured converter on a SnpEff annotated VCF. The MAF
// table is the converter's stdout.
func Vcf2Maf(cfg utils.Config, vcf, sampleID, gene2entrez string, opts MafOptions) (runner.Task, error) {
	if sampleID == "" {
		return runner.Task{}, runner.Usagef("vcf2maf: sample id must not be empty")
	}
	options, err := opts.args()
	if err != nil {
		return runner.Task{}, err
	}
	if err := runner.RequireConfigured("vcf2maf", cfg.Vcf2Maf); err != nil {
		return runner.Task{}, err
	}

	inputs := []string{vcf, gene2entrez}
	if opts.SingleTranscript != "" {
		inputs = append(inputs, opts.SingleTranscript)
	}

	argv, err := runner.Render(vcf2mafArgs, runner.Vars(lo.Assign(cfg.Vars(), map[string]interface{}{
		"input":       vcf,
		"sample":      sampleID,
		"gene2entrez": gene2entrez,
		"options":     options,
	})))
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "vcf2maf")
	}

	output := MafPath(vcf)
	return runner.Task{
		Name:   "vcf2maf",
		Argv:   argv,
		Inputs: inputs,
		Output: output,
		Log:    runner.LogPath(output),
		Stdout: output,
	}, nil
}
