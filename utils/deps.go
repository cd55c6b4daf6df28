package utils

import (
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type Dep struct {
	Name     string
	Path     string
	Resolved string
	Found    bool
}

// CheckDeps resolves every tool the wrappers may call. Binaries are looked up
// on PATH, jars and scripts must be non-empty files. The error names the
// missing ones; the slice is always complete.
func CheckDeps(cfg Config) ([]Dep, error) {
	deps := []Dep{
		lookBinary("samtools", cfg.Samtools),
		lookBinary("java", cfg.Java),
		lookFile("gatk_jar", cfg.GatkJar),
		lookFile("varscan_jar", cfg.VarScanJar),
		lookBinary("python", cfg.Python),
		lookFile("vcf2maf", cfg.Vcf2Maf),
	}

	missing := lo.FilterMap(deps, func(d Dep, _ int) (string, bool) {
		return d.Name, !d.Found
	})
	if len(missing) > 0 {
		return deps, errors.Errorf("not found: %s", strings.Join(missing, ", "))
	}
	return deps, nil
}

func lookBinary(name, path string) Dep {
	d := Dep{Name: name, Path: path}
	if resolved, err := exec.LookPath(path); err == nil {
		d.Resolved, d.Found = resolved, true
	}
	return d
}

func lookFile(name, path string) Dep {
	d := Dep{Name: name, Path: path}
	if path == "" {
		return d
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
		d.Resolved, d.Found = path, true
	}
	return d
}
