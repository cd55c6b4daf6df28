package alignment

import (
	"github.com/gmaffy/ngs-wrap/runner"
	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var alignmentExts = []string{".sam", ".sam.gz", ".bam"}

var (
	samViewArgs  = []string{"{{samtools}}", "view", "-b", "-h", "-@", "{{threads}}", "{{input}}"}
	samSortArgs  = []string{"{{samtools}}", "sort", "-@", "{{threads}}", "-m", "{{sort_mem}}", "-o", "{{output}}", "-"}
	bamIndexArgs = []string{"{{samtools}}", "index", "{{input}}"}
	flagstatArgs = []string{"{{samtools}}", "flagstat", "{{input}}"}
	mpileupArgs  = []string{"{{samtools}}", "mpileup", "-B", "-q", "1", "-f", "{{reference}}", "-l", "{{targets}}", "{{input}}"}
)

func SortedBamPath(input string) string {
	return runner.Stem(input, alignmentExts...) + ".sort.bam"
}

func BamIndexPath(input string) string {
	return input + ".bai"
}

func FlagstatPath(input string) string {
	return runner.Stem(input, alignmentExts...) + ".flagstat"
}

func MpileupPath(input string) string {
	return runner.Stem(input, alignmentExts...) + ".mpileup"
}

func render(argv []string, cfg utils.Config, vars map[string]interface{}) ([]string, error) {
	return runner.Render(argv, runner.Vars(lo.Assign(cfg.Vars(), vars)))
}

// SamToSortedBam converts sample.sam[.gz] into sample.sort.bam by piping
// samtools view into samtools sort. Existing output is kept.
func SamToSortedBam(cfg utils.Config, input string) (runner.Task, error) {
	output := SortedBamPath(input)
	vars := map[string]interface{}{"input": input, "output": output}

	view, err := render(samViewArgs, cfg, vars)
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "sam2sortedbam")
	}
	sort, err := render(samSortArgs, cfg, vars)
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "sam2sortedbam")
	}

	return runner.Task{
		Name:         "sam2sortedbam",
		Argv:         view,
		PipeTo:       sort,
		Inputs:       []string{input},
		Output:       output,
		Log:          runner.LogPath(output),
		SkipIfExists: true,
	}, nil
}

// BamIndex writes input.bai next to the BAM unless it is already there.
func BamIndex(cfg utils.Config, input string) (runner.Task, error) {
	output := BamIndexPath(input)
	argv, err := render(bamIndexArgs, cfg, map[string]interface{}{"input": input})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "bamindex")
	}
	return runner.Task{
		Name:         "bamindex",
		Argv:         argv,
		Inputs:       []string{input},
		Output:       output,
		Log:          runner.LogPath(output),
		SkipIfExists: true,
	}, nil
}

func Flagstat(cfg utils.Config, input string) (runner.Task, error) {
	output := FlagstatPath(input)
	argv, err := render(flagstatArgs, cfg, map[string]interface{}{"input": input})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "flagstat")
	}
	return runner.Task{
		Name:   "flagstat",
		Argv:   argv,
		Inputs: []string{input},
		Output: output,
		Log:    runner.LogPath(output),
		Stdout: output,
	}, nil
}

// Mpileup restricts the pileup to the target BED and writes sample.mpileup,
// the input VarScan somatic expects.
func Mpileup(cfg utils.Config, reference, targets, input string) (runner.Task, error) {
	output := MpileupPath(input)
	argv, err := render(mpileupArgs, cfg, map[string]interface{}{
		"reference": reference,
		"targets":   targets,
		"input":     input,
	})
	if err != nil {
		return runner.Task{}, errors.Wrap(err, "mpileup")
	}
	return runner.Task{
		Name:         "mpileup",
		Argv:         argv,
		Inputs:       []string{reference, targets, input},
		Output:       output,
		Log:          runner.LogPath(output),
		Stdout:       output,
		SkipIfExists: true,
	}, nil
}
