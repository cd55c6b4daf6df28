package runner

import (
	"fmt"

	"github.com/pkg/errors"
)

// UsageError reports a malformed command line. No tool has been run.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func Usagef(format string, args ...interface{}) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a required input that is missing or empty.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("missing or empty input: %s (%s)", e.Path, e.Reason)
}

// ExitError carries the exit status of a failed external tool.
type ExitError struct {
	Program string
	Code    int
	Log     string
}

func (e *ExitError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d, see %s", e.Program, e.Code, e.Log)
}

// ExitCode maps an error returned by a wrapper onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}
