// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// SpawnOptions configures a child started by Spawn.
type SpawnOptions struct {
	// Env holds extra NAME=value entries appended to the inherited
	// environment. A later entry for the same name wins, so these
	// override anything inherited.
	Env []string

	// Dir is the working directory. Empty means the caller's.
	Dir string

	// Stdout and Stderr receive the child's output. Nil means the
	// caller's own stdout and stderr. Stdin is always /dev/null: the
	// child runs detached from any terminal in its own process group.
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a running or exited child started by Spawn.
type Process struct {
	command *exec.Cmd
	done    chan struct{}

	// waitErr is written by the wait goroutine before done is closed
	// and only read after.
	waitErr error
}

// Spawn starts argv[0] with argv[1:] as arguments. argv[0] is resolved
// through PATH when it contains no slash. A non-nil error means no
// child was started.
func Spawn(argv []string, options SpawnOptions) (*Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("spawn: empty argv")
	}

	command := exec.Command(argv[0], argv[1:]...)
	command.Env = append(os.Environ(), options.Env...)
	command.Dir = options.Dir
	command.Stdout = options.Stdout
	if command.Stdout == nil {
		command.Stdout = os.Stdout
	}
	command.Stderr = options.Stderr
	if command.Stderr == nil {
		command.Stderr = os.Stderr
	}

	// Own process group, so Terminate reaches the program and
	// everything it launched (including menuers still waiting on us).
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := command.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", argv[0], err)
	}

	process := &Process{
		command: command,
		done:    make(chan struct{}),
	}
	go func() {
		process.waitErr = command.Wait()
		close(process.done)
	}()
	return process, nil
}

// Pid returns the child's process ID.
func (process *Process) Pid() int {
	return process.command.Process.Pid
}

// Alive reports whether the child is still running. It never blocks.
// It returns false only after the child has exited and been reaped.
func (process *Process) Alive() bool {
	select {
	case <-process.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed once the child has exited and been
// reaped.
func (process *Process) Done() <-chan struct{} {
	return process.done
}

// ExitErr returns the result of waiting for the child: nil for a clean
// exit, an *exec.ExitError otherwise. It is only meaningful after Done
// is closed and returns nil before then.
func (process *Process) ExitErr() error {
	select {
	case <-process.done:
		return process.waitErr
	default:
		return nil
	}
}

// Terminate sends SIGTERM to the child's process group. Signalling a
// group that has already gone away is not an error.
func (process *Process) Terminate() error {
	if !process.Alive() {
		return nil
	}
	err := unix.Kill(-process.Pid(), unix.SIGTERM)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("terminate process group %d: %w", process.Pid(), err)
	}
	return nil
}

// IsResourceExhaustion reports whether a Spawn error came from the
// system running out of processes, memory, or descriptors, as opposed
// to a problem with the program itself (missing, not executable, bad
// format).
func IsResourceExhaustion(err error) bool {
	for _, errno := range []unix.Errno{unix.EAGAIN, unix.ENOMEM, unix.EMFILE, unix.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
