package runner

import (
	"strings"
)

// Stem strips the longest of exts that path ends with. Paths without any of
// the extensions are returned unchanged.
func Stem(path string, exts ...string) string {
	best := ""
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return strings.TrimSuffix(path, best)
}

// LogPath is the log file written next to an output artifact.
func LogPath(output string) string {
	return output + ".log"
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./:=@+,%", r):
		default:
			safe = false
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// CommandLine renders argv the way a shell user would type it.
func CommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}
