package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRunner(buf *bytes.Buffer) *Runner {
	return &Runner{Logger: slog.New(slog.NewTextHandler(buf, nil)), Out: buf}
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	full := writeFile(t, filepath.Join(dir, "full.bam"), "data")
	empty := writeFile(t, filepath.Join(dir, "empty.bam"), "")

	require.NoError(t, CheckInputs(full))
	require.NoError(t, CheckInputs())

	for _, tc := range []struct {
		path   string
		reason string
	}{
		{filepath.Join(dir, "nope.bam"), "does not exist"},
		{empty, "is empty"},
		{dir, "is a directory"},
	} {
		err := CheckInputs(full, tc.path)
		var pErr *PreconditionError
		require.True(t, errors.As(err, &pErr), "%s: %v", tc.path, err)
		assert.Equal(t, tc.path, pErr.Path)
		assert.Equal(t, tc.reason, pErr.Reason)
		assert.Contains(t, err.Error(), "missing or empty input")
		assert.Equal(t, 1, ExitCode(err))
	}
}

func TestRequireConfigured(t *testing.T) {
	err := RequireConfigured("gatk_jar", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gatk_jar")

	jar := writeFile(t, filepath.Join(t.TempDir(), "GenomeAnalysisTK.jar"), "PK")
	assert.NoError(t, RequireConfigured("gatk_jar", jar))
}

func TestRunPropagatesExitStatus(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	tool := fakeTool(t, dir, "tool", `echo "to stdout"; echo "to stderr" >&2; exit 3`)
	output := filepath.Join(dir, "in.out")

	var buf bytes.Buffer
	err := testRunner(&buf).Run(context.Background(), Task{
		Name:   "tool",
		Argv:   []string{tool, input},
		Inputs: []string{input},
		Output: output,
		Log:    LogPath(output),
	})

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "%v", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, ExitCode(err))

	log, rErr := os.ReadFile(LogPath(output))
	require.NoError(t, rErr)
	assert.Contains(t, string(log), "to stdout")
	assert.Contains(t, string(log), "to stderr")
	assert.Contains(t, buf.String(), "STATUS=FAILED")
}

func TestRunStdoutToOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	tool := fakeTool(t, dir, "tool", `cat "$1"; echo "progress" >&2`)
	output := filepath.Join(dir, "in.flagstat")

	var buf bytes.Buffer
	err := testRunner(&buf).Run(context.Background(), Task{
		Name:   "tool",
		Argv:   []string{tool, input},
		Inputs: []string{input},
		Output: output,
		Log:    LogPath(output),
		Stdout: output,
	})
	require.NoError(t, err)

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "reads", string(out))

	log, err := os.ReadFile(LogPath(output))
	require.NoError(t, err)
	assert.Equal(t, "progress\n", string(log))
	assert.Contains(t, buf.String(), "STATUS=COMPLETED")
}

func TestRunMissingInputDoesNotInvoke(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "called")
	tool := fakeTool(t, dir, "tool", `touch "`+marker+`"`)
	output := filepath.Join(dir, "out")

	var buf bytes.Buffer
	err := testRunner(&buf).Run(context.Background(), Task{
		Name:   "tool",
		Argv:   []string{tool},
		Inputs: []string{filepath.Join(dir, "missing.bam")},
		Output: output,
		Log:    LogPath(output),
	})
	require.Error(t, err)
	assert.NoFileExists(t, marker)
	assert.NoFileExists(t, LogPath(output))
}

func TestRunSkipIfExists(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	output := writeFile(t, filepath.Join(dir, "in.bam.bai"), "index")
	marker := filepath.Join(dir, "called")
	tool := fakeTool(t, dir, "tool", `touch "`+marker+`"; exit 5`)

	task := Task{
		Name:         "tool",
		Argv:         []string{tool},
		Inputs:       []string{input},
		Output:       output,
		Log:          LogPath(output),
		SkipIfExists: true,
	}

	var buf bytes.Buffer
	r := testRunner(&buf)
	require.NoError(t, r.Run(context.Background(), task))
	assert.NoFileExists(t, marker)
	assert.Contains(t, buf.String(), "STATUS=SKIPPED")

	r.Force = true
	err := r.Run(context.Background(), task)
	assert.Equal(t, 5, ExitCode(err))
	assert.FileExists(t, marker)
	assert.NoFileExists(t, output)
}

func TestRunFailedStdoutIsNotSkipped(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	output := filepath.Join(dir, "in.mpileup")
	tool := fakeTool(t, dir, "tool", `echo "chr1	1	A	3	...	III"; exit 1`)

	task := Task{
		Name:         "mpileup",
		Argv:         []string{tool},
		Inputs:       []string{input},
		Output:       output,
		Log:          LogPath(output),
		Stdout:       output,
		SkipIfExists: true,
	}

	var buf bytes.Buffer
	r := testRunner(&buf)
	assert.Equal(t, 1, ExitCode(r.Run(context.Background(), task)))
	assert.NoFileExists(t, output)
	assert.NoFileExists(t, output+partialSuffix)

	// a second run must execute the tool, not skip
	task.Argv = []string{fakeTool(t, dir, "good", `echo "chr1	1	A	3	...	III"`)}
	buf.Reset()
	require.NoError(t, r.Run(context.Background(), task))
	assert.NotContains(t, buf.String(), "STATUS=SKIPPED")
	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t1\tA\t3\t...\tIII\n", string(out))
}

func TestRunFailedToolOutputIsRemoved(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.sam"), "reads")
	output := filepath.Join(dir, "in.sort.bam")
	tool := fakeTool(t, dir, "tool", `echo half > "`+output+`"; exit 2`)

	var buf bytes.Buffer
	err := testRunner(&buf).Run(context.Background(), Task{
		Name: "sort", Argv: []string{tool}, Inputs: []string{input},
		Output: output, Log: LogPath(output), SkipIfExists: true,
	})
	assert.Equal(t, 2, ExitCode(err))
	assert.NoFileExists(t, output)
	assert.FileExists(t, LogPath(output))
}

func TestRunEmptyOutputIsNotSkipped(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	output := writeFile(t, filepath.Join(dir, "in.bam.bai"), "")
	tool := fakeTool(t, dir, "tool", `echo index > "`+output+`"`)

	var buf bytes.Buffer
	require.NoError(t, testRunner(&buf).Run(context.Background(), Task{
		Name: "tool", Argv: []string{tool}, Inputs: []string{input},
		Output: output, Log: LogPath(output), SkipIfExists: true,
	}))
	assert.True(t, HasContent(output))
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.bam"), "reads")
	marker := filepath.Join(dir, "called")
	tool := fakeTool(t, dir, "tool", `touch "`+marker+`"`)
	output := filepath.Join(dir, "out")

	var buf bytes.Buffer
	r := testRunner(&buf)
	r.DryRun = true
	require.NoError(t, r.Run(context.Background(), Task{
		Name: "tool", Argv: []string{tool, "a b"}, Inputs: []string{input},
		Output: output, Log: LogPath(output),
	}))
	assert.Contains(t, buf.String(), tool+" 'a b'")
	assert.NoFileExists(t, marker)
	assert.NoFileExists(t, LogPath(output))
}

func TestRunPipe(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.sam"), "@HD\tVN:1.6\n")
	upstream := fakeTool(t, dir, "up", `cat "$1"; echo "up done" >&2`)
	downstream := fakeTool(t, dir, "down", `cat > "$1"; echo "down done" >&2`)
	output := filepath.Join(dir, "in.sort.bam")

	var buf bytes.Buffer
	require.NoError(t, testRunner(&buf).Run(context.Background(), Task{
		Name:   "pipe",
		Argv:   []string{upstream, input},
		PipeTo: []string{downstream, output},
		Inputs: []string{input},
		Output: output,
		Log:    LogPath(output),
	}))

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "@HD\tVN:1.6\n", string(out))

	log, err := os.ReadFile(LogPath(output))
	require.NoError(t, err)
	assert.Contains(t, string(log), "up done")
	assert.Contains(t, string(log), "down done")
}

func TestRunPipeStatus(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.sam"), "x")
	ok := fakeTool(t, dir, "ok", `cat >/dev/null; exit 0`)
	failUp := fakeTool(t, dir, "failup", `exit 4`)
	failDown := fakeTool(t, dir, "faildown", `cat >/dev/null; exit 6`)
	output := filepath.Join(dir, "out")

	run := func(up, down string) error {
		var buf bytes.Buffer
		return testRunner(&buf).Run(context.Background(), Task{
			Name: "pipe", Argv: []string{up}, PipeTo: []string{down},
			Inputs: []string{input}, Output: output, Log: LogPath(output),
		})
	}

	assert.Equal(t, 4, ExitCode(run(failUp, ok)))
	assert.Equal(t, 6, ExitCode(run(ok, failDown)))
	assert.Equal(t, 6, ExitCode(run(failUp, failDown)))
	assert.Equal(t, 0, ExitCode(run(ok, ok)))
}

func TestRunCancelKillsTool(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "in.sam"), "x")
	slow := fakeTool(t, dir, "slow", `exec sleep 30`)
	output := filepath.Join(dir, "out")

	for name, task := range map[string]Task{
		"single": {Name: "slow", Argv: []string{slow}},
		"pipe":   {Name: "slow", Argv: []string{slow}, PipeTo: []string{slow}},
	} {
		task.Inputs = []string{input}
		task.Output = output
		task.Log = LogPath(output)

		ctx, cancel := context.WithCancel(context.Background())
		timer := time.AfterFunc(200*time.Millisecond, cancel)
		began := time.Now()

		var buf bytes.Buffer
		err := testRunner(&buf).Run(ctx, task)
		timer.Stop()
		cancel()

		assert.Equal(t, 137, ExitCode(err), name)
		assert.Less(t, time.Since(began), 10*time.Second, name)
		assert.Contains(t, buf.String(), "STATUS=FAILED", name)
	}
}

func TestTaskCommandLine(t *testing.T) {
	task := Task{Argv: []string{"samtools", "flagstat", "in.bam"}}
	assert.Equal(t, "samtools flagstat in.bam", task.CommandLine())

	task.Stdout = "my out.flagstat"
	assert.Equal(t, "samtools flagstat in.bam > 'my out.flagstat'", task.CommandLine())

	task = Task{Argv: []string{"samtools", "view", "in.sam"}, PipeTo: []string{"samtools", "sort", "-o", "in.sort.bam", "-"}}
	assert.Equal(t, "samtools view in.sam | samtools sort -o in.sort.bam -", task.CommandLine())
}

func TestRunMissingBinary(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out")
	var buf bytes.Buffer
	err := testRunner(&buf).Run(context.Background(), Task{
		Name: "ghost", Argv: []string{filepath.Join(dir, "no-such-tool")},
		Output: output, Log: LogPath(output),
	})
	assert.Equal(t, 127, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(Usagef("need %d args", 3)))
	assert.Equal(t, 9, ExitCode(errors.Wrap(&ExitError{Program: "x", Code: 9}, "wrapped")))
	assert.Equal(t, 1, ExitCode(errors.New("other")))
}
