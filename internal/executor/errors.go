// Package executor runs framework test commands as supervised child
// processes.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel values for infrastructure failures. Test failures are never
// errors; they surface as a normal RawResult with a nonzero exit code.
var (
	// ErrBinaryNotFound indicates the test program was not found in PATH
	ErrBinaryNotFound = errors.New("binary not found")

	// ErrPermissionDenied indicates the program cannot be executed due to permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidWorkingDirectory indicates the working directory is invalid
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")

	// ErrSpawn indicates the process could not be started
	ErrSpawn = errors.New("spawn failure")
)

// InfraErrorKind classifies an infrastructure failure.
type InfraErrorKind int

// Infrastructure failure kinds.
const (
	// InfraUnknown indicates an unclassified failure
	InfraUnknown InfraErrorKind = iota
	// InfraBinaryNotFound indicates the program was not found
	InfraBinaryNotFound
	// InfraPermissionDenied indicates permission was denied
	InfraPermissionDenied
	// InfraWorkingDirectory indicates a working directory problem
	InfraWorkingDirectory
	// InfraSpawn indicates a general spawn failure
	InfraSpawn
)

// InfraError is a detailed infrastructure failure: the run could not take
// place at all, as opposed to tests failing.
type InfraError struct {
	Kind    InfraErrorKind
	Program string
	Args    []string
	Err     error
	Details string
}

// Error implements the error interface
func (e *InfraError) Error() string {
	cmd := e.Program
	if len(e.Args) > 0 {
		cmd = fmt.Sprintf("%s %s", e.Program, strings.Join(e.Args, " "))
	}

	switch e.Kind {
	case InfraBinaryNotFound:
		return fmt.Sprintf("binary not found: %s", e.Program)
	case InfraPermissionDenied:
		return fmt.Sprintf("permission denied: %s", cmd)
	case InfraWorkingDirectory:
		return fmt.Sprintf("working directory error: %s", e.Details)
	case InfraSpawn:
		return fmt.Sprintf("spawn failure for %s: %v", cmd, e.Err)
	default:
		return fmt.Sprintf("unknown execution failure for %s: %v", cmd, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *InfraError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InfraError) Is(target error) bool {
	switch target {
	case ErrBinaryNotFound:
		return e.Kind == InfraBinaryNotFound
	case ErrPermissionDenied:
		return e.Kind == InfraPermissionDenied
	case ErrInvalidWorkingDirectory:
		return e.Kind == InfraWorkingDirectory
	case ErrSpawn:
		return e.Kind == InfraSpawn
	}
	return false
}

// classifyStartError turns a cmd.Start failure into a typed InfraError.
func classifyStartError(err error, program string, args []string) *InfraError {
	if err == nil {
		return nil
	}

	infraErr := &InfraError{
		Kind:    InfraSpawn,
		Program: program,
		Args:    args,
		Err:     err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		// Context expired before the process even started.
		return infraErr
	}

	var execError *exec.Error
	if errors.As(err, &execError) {
		errStr := strings.ToLower(execError.Error())
		switch {
		case strings.Contains(errStr, "executable file not found"),
			strings.Contains(errStr, "no such file or directory"):
			infraErr.Kind = InfraBinaryNotFound
		case strings.Contains(errStr, "permission denied"),
			strings.Contains(errStr, "operation not permitted"):
			infraErr.Kind = InfraPermissionDenied
		}
		return infraErr
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "permission denied"):
		infraErr.Kind = InfraPermissionDenied
	case strings.Contains(errStr, "not found"):
		infraErr.Kind = InfraBinaryNotFound
	case strings.Contains(errStr, "chdir"), strings.Contains(errStr, "working directory"):
		infraErr.Kind = InfraWorkingDirectory
		infraErr.Details = err.Error()
	}

	return infraErr
}
