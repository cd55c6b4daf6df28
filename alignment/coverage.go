package alignment

import (
	"os"
	"regexp"

	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
)

var depthOfCoverageArgs = []string{
	"{{java}}", "-Xmx{{java_mem}}", "-jar", "{{gatk_jar}}",
	"-T", "DepthOfCoverage",
	"-R", "{{reference}}",
	"-L", "{{targets}}",
	"-o", "{{prefix}}",
	"{{bams}}",
	"-ct", "1", "-ct", "10", "-ct", "20", "-ct", "30", "-ct", "50", "-ct", "100",
	"--omitDepthOutputAtEachBase",
}

// intervalPattern matches a literal GATK interval such as chr1:1000-2000.
var intervalPattern = regexp.MustCompile(`^[^\s:/]+:[0-9]+(-[0-9]+)?$`)

// isInterval reports whether targets is an interval rather than a file. A
// file of that name takes precedence.
func isInterval(targets string) bool {
	if !intervalPattern.MatchString(targets) {
		return false
	}
	_, err := os.Stat(targets)
	return os.IsNotExist(err)
}

func CoverageSummaryPath(prefix string) string {
	return prefix + ".sample_summary"
}

func CoverageLogPath(prefix string) string {
	return prefix + ".depthofcoverage.log"
}

// DepthOfCoverage runs GATK DepthOfCoverage over the targets for every BAM.
// targets is an interval list file or a single chr:start-end interval. GATK
// names its tables after prefix; earlier results are overwritten.
func DepthOfCoverage(cfg utils.Config, reference, targets, prefix string, bams []string) (runner.Task, error) {
	if err := runner.RequireConfigured("gatk_jar", cfg.GatkJar); err != nil {
		return runner.Task{}, err
	}

	argv, err := render(depthOfCoverageArgs, cfg, map[string]interface{}{
		"reference": reference,
		"targets":   targets,
		"prefix":    prefix,
		"bams":      runner.Repeat("-I", bams),
	})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "coverage")
	}

	inputs := []string{reference}
	if !isInterval(targets) {
		inputs = append(inputs, targets)
	}
	inputs = append(inputs, bams...)
	return runner.Task{
		Name:   "coverage",
		Argv:   argv,
		Inputs: inputs,
		Output: CoverageSummaryPath(prefix),
		Log:    CoverageLogPath(prefix),
	}, nil
}
