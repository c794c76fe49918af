package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/JayPatil165/TestGen-AI/internal/command"
	"github.com/JayPatil165/TestGen-AI/internal/debug"
)

// DefaultMaxOutputBytes caps each captured stream. Pathological test output
// (endless log loops) must not grow memory without bound.
const DefaultMaxOutputBytes = 8 << 20 // 8 MiB

// DefaultTimeout bounds a run when the invocation carries no timeout.
const DefaultTimeout = 5 * time.Minute

// RawResult is the raw outcome of one supervised execution. It is owned by
// the supervisor until handed to a parser and is never retained long-term.
type RawResult struct {
	// Standard output from the command
	Stdout string
	// Standard error from the command
	Stderr string
	// Exit code of the command
	ExitCode int
	// Wall-clock duration in seconds
	Duration float64
	// Whether the command hit the timeout or the caller's cancellation
	TimedOut bool
	// Whether either stream was cut at the output cap
	Truncated bool
}

// Supervisor executes test command invocations safely.
type Supervisor struct {
	defaultTimeout time.Duration
	maxOutputBytes int
}

// NewSupervisor creates a supervisor. Non-positive arguments select the
// package defaults.
func NewSupervisor(defaultTimeout time.Duration, maxOutputBytes int) *Supervisor {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}
	return &Supervisor{
		defaultTimeout: defaultTimeout,
		maxOutputBytes: maxOutputBytes,
	}
}

// Execute runs the invocation and captures its output. It returns an error
// only for infrastructure failures (binary missing, permission denied,
// invalid working directory, spawn failure); test failures come back as a
// normal RawResult with a nonzero exit code. On timeout or caller
// cancellation the process tree is killed, partial output is kept and
// TimedOut is set.
func (s *Supervisor) Execute(ctx context.Context, inv command.Invocation) (*RawResult, error) {
	if inv.Program == "" {
		return nil, &InfraError{Kind: InfraSpawn, Err: errors.New("empty program")}
	}

	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, inv.Program, inv.Args...)

	if inv.Dir != "" {
		absPath, err := filepath.Abs(inv.Dir)
		if err != nil {
			return nil, &InfraError{Kind: InfraWorkingDirectory, Program: inv.Program, Err: err, Details: err.Error()}
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, &InfraError{Kind: InfraWorkingDirectory, Program: inv.Program, Err: err,
				Details: absPath + " does not exist"}
		}
		cmd.Dir = absPath
	}

	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	stdout := newCappedBuffer(s.maxOutputBytes)
	stderr := newCappedBuffer(s.maxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Run the child in its own process group so a timeout kill also reaps
	// any test-runner descendants (browsers, build daemons).
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = 5 * time.Second

	debug.LogCommand(inv.Program, inv.Args, cmd.Dir)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, classifyStartError(err, inv.Program, inv.Args)
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	debug.LogTiming("test command", elapsed)

	res := &RawResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  elapsed.Seconds(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}

	if runCtx.Err() != nil {
		// Deadline or caller cancellation; partial output is still parsed
		// best-effort by the caller.
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, &InfraError{Kind: InfraSpawn, Program: inv.Program, Args: inv.Args, Err: waitErr}
	}

	return res, nil
}

// cappedBuffer captures a stream up to a byte limit; writes past the limit
// are counted as truncation rather than growing the buffer.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	max       int
	truncated bool
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.max - c.buf.Len()
	if remaining <= 0 {
		c.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
		c.truncated = true
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *cappedBuffer) Truncated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.truncated
}
