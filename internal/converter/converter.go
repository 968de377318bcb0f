// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package converter invokes the external conversion tool. The tool is an
// opaque collaborator: it receives a leaf directory path as its single
// positional argument, may write artifacts into that directory, and
// reports success or failure through its exit status. Its stderr is
// discarded; its stdout passes through to the writer supplied at
// construction time.
package converter

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/pdiddy/xapkbatch/pkg/types"
)

// DefaultCommand is the converter executable used when none is configured.
const DefaultCommand = "xapktool.py"

// Tool runs the external conversion program against a directory.
type Tool interface {
	// Name returns the converter executable name.
	Name() string

	// Available reports whether the executable can be found on PATH.
	Available() bool

	// Convert invokes the converter on dir and returns its exit status.
	// The error is non-nil only for spawn-level failures, where no exit
	// status exists; nonzero exit codes are not errors.
	Convert(dir string) (int, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunStatus(name string, args []string, stdout io.Writer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunStatus runs the command with stderr connected to the null device and
// stdout connected to the given writer. It returns the process exit code,
// or an error when the process could not be started at all.
func (o *osExecutor) RunStatus(name string, args []string, stdout io.Writer) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

var defaultExec executor = &osExecutor{}

// tool implements Tool for a configured converter command.
type tool struct {
	command string
	args    []string
	stdout  io.Writer
	exec    executor
}

// New creates a Tool from the given configuration. Converter stdout is
// forwarded to stdout; an empty command falls back to DefaultCommand.
func New(cfg types.ConverterConfig, stdout io.Writer) Tool {
	return newTool(cfg, stdout, defaultExec)
}

func newTool(cfg types.ConverterConfig, stdout io.Writer, exec executor) *tool {
	command := cfg.Command
	if command == "" {
		command = DefaultCommand
	}
	return &tool{
		command: command,
		args:    cfg.Args,
		stdout:  stdout,
		exec:    exec,
	}
}

func (t *tool) Name() string { return t.command }

func (t *tool) Available() bool {
	_, err := t.exec.LookPath(t.command)
	return err == nil
}

func (t *tool) Convert(dir string) (int, error) {
	args := make([]string, 0, len(t.args)+1)
	args = append(args, t.args...)
	args = append(args, dir)

	code, err := t.exec.RunStatus(t.command, args, t.stdout)
	if err != nil {
		return 0, fmt.Errorf("running %s on %s: %w", t.command, dir, err)
	}
	return code, nil
}
