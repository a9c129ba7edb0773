// Package tools wraps execution of the external vendor CLIs. Output from both
// streams is captured on success and on failure: the vendor tools routinely
// print the diagnostics we need to parse even when they exit non-zero.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Output holds the captured streams from one external command.
type Output struct {
	Stdout string
	Stderr string
}

// Combined returns stdout followed by stderr, the form most parsers scan.
func (o Output) Combined() string {
	return o.Stdout + o.Stderr
}

// RunError is returned when a command exits non-zero. It still carries the
// captured output so callers can parse or surface it.
type RunError struct {
	Cmd    string
	Output Output
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner executes external commands. The exec-backed implementation is the
// only one outside tests.
type Runner interface {
	// Run executes name with args, overlaying env on the process environment.
	// The returned Output is populated on both success and failure.
	Run(ctx context.Context, env map[string]string, name string, args ...string) (Output, error)
	// LookPath reports whether name resolves to an executable.
	LookPath(name string) error
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner { return &ExecRunner{} }

func (r *ExecRunner) Run(ctx context.Context, env map[string]string, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = mergedEnv(env)
	var out bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	captured := Output{Stdout: out.String(), Stderr: errBuf.String()}
	if err != nil {
		return captured, &RunError{
			Cmd:    strings.Join(append([]string{name}, args...), " "),
			Output: captured,
			Err:    err,
		}
	}
	return captured, nil
}

func (r *ExecRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return os.Environ()
	}
	m := map[string]string{}
	for _, item := range os.Environ() {
		if i := strings.IndexByte(item, '='); i > 0 {
			m[item[:i]] = item[i+1:]
		}
	}
	for k, v := range extra {
		if strings.TrimSpace(k) == "" {
			continue
		}
		m[k] = v
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
