package session

import (
	"context"
	"os"
	"os/exec"

	"github.com/g960059/cch/internal/model"
)

// LaunchSpec describes one host program invocation: the command, its
// arguments, and the working directory it must start in.
type LaunchSpec struct {
	Command string
	Args    []string
	Dir     string
}

// Launcher hands control to the session host program. A nil error means the
// host ran to completion and the returned code is its exit code; a
// *model.HandoffError means it never started. There is no state to recover
// either way, the caller only forwards the outcome.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec) (int, error)
}

// OSLauncher runs the host as a child process with inherited stdio, the
// portable stand-in for replacing the process image. The working directory
// is set on the child, so a failed start never leaves this process moved.
type OSLauncher struct{}

func (OSLauncher) Launch(ctx context.Context, spec LaunchSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return 0, &model.HandoffError{Command: spec.Command, Err: err}
	}
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 1, &model.HandoffError{Command: spec.Command, Err: err}
}
