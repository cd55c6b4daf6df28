package variants

import (
	"strconv"

	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type SomaticOptions struct {
	MinCoverage   int
	MinVarFreq    float64
	SomaticPValue float64
}

func DefaultSomaticOptions() SomaticOptions {
	return SomaticOptions{MinCoverage: 8, MinVarFreq: 0.10, SomaticPValue: 0.05}
}

var varscanSomaticArgs = []string{
	"{{java}}", "-Xmx{{java_mem}}", "-jar", "{{varscan_jar}}",
	"somatic", "{{normal}}", "{{tumor}}", "{{prefix}}",
	"--min-coverage", "{{min_coverage}}",
	"--min-var-freq", "{{min_var_freq}}",
	"--somatic-p-value", "{{somatic_p_value}}",
	"--output-vcf", "1",
}

var processSomaticArgs = []string{
	"{{java}}", "-Xmx{{java_mem}}", "-jar", "{{varscan_jar}}",
	"processSomatic", "{{input}}",
}

func SomaticSnpPath(prefix string) string {
	return prefix + ".snp.vcf"
}

func SomaticLogPath(prefix string) string {
	return prefix + ".varscan.somatic.log"
}

func HighConfidencePath(vcf string) string {
	return runner.Stem(vcf, ".vcf") + ".Somatic.hc.vcf"
}

func ProcessSomaticLogPath(vcf string) string {
	return runner.Stem(vcf, ".vcf") + ".processsomatic.log"
}

func render(argv []string, cfg utils.Config, vars map[string]interface{}) ([]string, error) {
	return runner.Render(argv, runner.Vars(lo.Assign(cfg.Vars(), vars)))
}

func (o SomaticOptions) validate() error {
	if o.MinCoverage < 0 {
		return runner.Usagef("--min-coverage must not be negative, got %d", o.MinCoverage)
	}
	if o.MinVarFreq < 0 || o.MinVarFreq > 1 {
		return runner.Usagef("--min-var-freq must be within [0, 1], got %g", o.MinVarFreq)
	}
	if o.SomaticPValue <= 0 || o.SomaticPValue > 1 {
		return runner.Usagef("--somatic-p-value must be within (0, 1], got %g", o.SomaticPValue)
	}
	return nil
}

// VarScanSomatic calls somatic SNVs and indels from a normal/tumor mpileup
// pair. VarScan writes prefix.snp.vcf and prefix.indel.vcf and overwrites
// whatever is there.
func VarScanSomatic(cfg utils.Config, normal, tumor, prefix string, opts SomaticOptions) (runner.Task, error) {
	if err := opts.validate(); err != nil {
		return runner.Task{}, err
	}
	if err := runner.RequireConfigured("varscan_jar", cfg.VarScanJar); err != nil {
		return runner.Task{}, err
	}

	argv, err := render(varscanSomaticArgs, cfg, map[string]interface{}{
		"normal":          normal,
		"tumor":           tumor,
		"prefix":          prefix,
		"min_coverage":    strconv.Itoa(opts.MinCoverage),
		"min_var_freq":    strconv.FormatFloat(opts.MinVarFreq, 'f', -1, 64),
		"somatic_p_value": strconv.FormatFloat(opts.SomaticPValue, 'f', -1, 64),
	})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "somatic")
	}

	return runner.Task{
		Name:   "somatic",
		Argv:   argv,
		Inputs: []string{normal, tumor},
		Output: SomaticSnpPath(prefix),
		Log:    SomaticLogPath(prefix),
	}, nil
}

// ProcessSomatic splits VarScan calls by somatic status and confidence.
// It is skipped when the high confidence somatic file already exists.
func ProcessSomatic(cfg utils.Config, vcf string) (runner.Task, error) {
	if err := runner.RequireConfigured("varscan_jar", cfg.VarScanJar); err != nil {
		return runner.Task{}, err
	}
	argv, err := render(processSomaticArgs, cfg, map[string]interface{}{"input": vcf})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "processsomatic")
	}
	return runner.Task{
		Name:         "processsomatic",
		Argv:         argv,
		Inputs:       []string{vcf},
		Output:       HighConfidencePath(vcf),
		Log:          ProcessSomaticLogPath(vcf),
		SkipIfExists: true,
	}, nil
}
