// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package process runs external programs, such as the AWS CLI, on behalf of
// the commands.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/hashicorp/aws-ssm-tools/logging"
)

// ExecutableNotFoundError is returned when the program is not on the PATH.
type ExecutableNotFoundError struct {
	Name string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found", e.Name)
}

// ExitError is returned when the program exits with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed with status %d", e.Command, e.Code)
}

// Runner runs programs with the given standard streams. A nil stream is
// connected to the null device.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs the program to completion.
func (r Runner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	return run(ctx, cmd)
}

// Output runs the program and returns its standard output with surrounding
// whitespace removed.
func (r Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr

	if err := run(ctx, cmd); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func run(ctx context.Context, cmd *exec.Cmd) error {
	logger := logging.RetrieveLogger(ctx)

	// Arguments may carry credentials, only the program name is logged.
	logger.Debug(ctx, "Running external command", map[string]any{
		"process.executable": cmd.Path,
	})

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return &ExecutableNotFoundError{Name: commandName(cmd)}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command: commandName(cmd),
			Code:    exitErr.ExitCode(),
		}
	}

	return fmt.Errorf("running %s: %w", commandName(cmd), err)
}

func commandName(cmd *exec.Cmd) string {
	if len(cmd.Args) > 0 {
		return cmd.Args[0]
	}
	return cmd.Path
}
