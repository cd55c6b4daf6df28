package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Task is one wrapper invocation: a rendered command line, the files it
// needs, and where its output and log go.
type Task struct {
	Name string
	Argv []string
	// PipeTo, when set, is a second process reading Argv's stdout.
	PipeTo []string

	Inputs []string
	Output string
	Log    string
	// Stdout receives the last process's stdout instead of the log, for
	// tools that write their results there.
	Stdout string

	SkipIfExists bool
}

func (t Task) CommandLine() string {
	line := CommandLine(t.Argv)
	if len(t.PipeTo) > 0 {
		line += " | " + CommandLine(t.PipeTo)
	}
	if t.Stdout != "" {
		line += " > " + shellQuote(t.Stdout)
	}
	return line
}

type Runner struct {
	Logger *slog.Logger
	// Force disables skip-on-existing-output.
	Force bool
	// DryRun prints the command line to Out instead of running it.
	DryRun bool
	Out    io.Writer
}

// HasContent reports whether path is a regular file with non-zero size.
func HasContent(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// CheckInputs fails on the first path that does not exist, is a directory or
// is empty.
func CheckInputs(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case os.IsNotExist(err):
			return &PreconditionError{Path: p, Reason: "does not exist"}
		case err != nil:
			return &PreconditionError{Path: p, Reason: err.Error()}
		case info.IsDir():
			return &PreconditionError{Path: p, Reason: "is a directory"}
		case info.Size() == 0:
			return &PreconditionError{Path: p, Reason: "is empty"}
		}
	}
	return nil
}

// RequireConfigured checks a jar or script named by a config key.
func RequireConfigured(key, path string) error {
	if path == "" {
		return &PreconditionError{Path: key, Reason: "not set in the configuration"}
	}
	return CheckInputs(path)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) Run(ctx context.Context, t Task) error {
	if len(t.Argv) == 0 {
		return errors.Errorf("%s: empty command", t.Name)
	}
	if err := CheckInputs(t.Inputs...); err != nil {
		return err
	}

	logger := r.logger()
	sample := filepath.Base(t.Output)
	cmdLine := t.CommandLine()

	if t.SkipIfExists && !r.Force && HasContent(t.Output) {
		logger.Info(utils.JournalMsg, "PROGRAM", t.Name, "SAMPLE", sample, "STATUS", utils.StatusSkipped, "CMD", cmdLine)
		return nil
	}

	if r.DryRun {
		out := r.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintln(out, cmdLine)
		return err
	}

	logger.Info(utils.JournalMsg, "PROGRAM", t.Name, "SAMPLE", sample, "STATUS", utils.StatusStarted, "CMD", cmdLine)
	err := r.execute(ctx, t)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			discardPartial(t)
		}
		logger.Error(utils.JournalMsg, "PROGRAM", t.Name, "SAMPLE", sample, "STATUS", utils.StatusFailed, "CMD", cmdLine, "ERROR", err.Error())
		return err
	}
	logger.Info(utils.JournalMsg, "PROGRAM", t.Name, "SAMPLE", sample, "STATUS", utils.StatusCompleted, "CMD", cmdLine)
	return nil
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return f, nil
}

// partialSuffix marks captured stdout until the tool has exited cleanly.
const partialSuffix = ".tmp"

func (r *Runner) execute(ctx context.Context, t Task) (err error) {
	logFile, err := createFile(t.Log)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := logFile.Close(); cErr != nil && err == nil {
			err = errors.Wrapf(cErr, "closing %s", t.Log)
		}
	}()

	if t.Stdout == "" {
		return r.start(ctx, t, logFile, logFile)
	}

	partial := t.Stdout + partialSuffix
	outFile, err := createFile(partial)
	if err != nil {
		return err
	}
	err = r.start(ctx, t, logFile, outFile)
	if cErr := outFile.Close(); cErr != nil && err == nil {
		err = errors.Wrapf(cErr, "closing %s", partial)
	}
	if err != nil {
		os.Remove(partial)
		return err
	}
	return errors.Wrapf(os.Rename(partial, t.Stdout), "moving %s into place", t.Stdout)
}

func (r *Runner) start(ctx context.Context, t Task, logFile *os.File, stdout io.Writer) error {
	if len(t.PipeTo) == 0 {
		cmd := exec.CommandContext(ctx, t.Argv[0], t.Argv[1:]...)
		cmd.Stdout = stdout
		cmd.Stderr = logFile
		return toolError(t.Name, t.Log, cmd.Run())
	}
	return runPipe(ctx, t, logFile, stdout)
}

// discardPartial removes what a failed tool left at a skip-eligible output.
func discardPartial(t Task) {
	if !t.SkipIfExists || t.Output == "" {
		return
	}
	for _, in := range t.Inputs {
		if in == t.Output {
			return
		}
	}
	os.Remove(t.Output)
}

// runPipe connects two processes through an OS pipe. Both share the log for
// stderr. The status is that of the right-most stage that failed.
func runPipe(ctx context.Context, t Task, logFile *os.File, stdout io.Writer) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "creating pipe")
	}

	upstream := exec.CommandContext(ctx, t.Argv[0], t.Argv[1:]...)
	upstream.Stdout = pw
	upstream.Stderr = logFile

	downstream := exec.CommandContext(ctx, t.PipeTo[0], t.PipeTo[1:]...)
	downstream.Stdin = pr
	downstream.Stdout = stdout
	downstream.Stderr = logFile

	if err := upstream.Start(); err != nil {
		pr.Close()
		pw.Close()
		return toolError(t.Name, t.Log, err)
	}
	if err := downstream.Start(); err != nil {
		pw.Close()
		pr.Close()
		_ = upstream.Process.Kill()
		_ = upstream.Wait()
		return toolError(t.Name, t.Log, err)
	}
	// The children hold their own copies; closing ours lets EOF and SIGPIPE
	// propagate.
	pw.Close()
	pr.Close()

	var stageErrs [2]error
	var g errgroup.Group
	g.Go(func() error {
		stageErrs[0] = upstream.Wait()
		return nil
	})
	g.Go(func() error {
		stageErrs[1] = downstream.Wait()
		return nil
	})
	_ = g.Wait()

	if stageErrs[1] != nil {
		return toolError(t.Name, t.Log, stageErrs[1])
	}
	return toolError(t.Name, t.Log, stageErrs[0])
}

// toolError turns an exec error into an ExitError with the status a shell
// would report: the tool's own code, 128+signal, 127 for a missing binary and
// 126 for one that cannot be executed.
func toolError(program, log string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		}
		return &ExitError{Program: program, Code: code, Log: log}
	}
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return &ExitError{Program: program, Code: 127, Log: log}
	case errors.Is(err, fs.ErrPermission):
		return &ExitError{Program: program, Code: 126, Log: log}
	}
	return errors.Wrapf(err, "running %s", program)
}
