// Package execx runs the external programs swaycap delegates to. Every
// collaborator goes through the Runner interface so that callers can be
// exercised without the real tools installed.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/bryanchriswhite/swaycap/internal/logger"
	"golang.org/x/sys/unix"
)

// Cmd describes one invocation of an external program.
type Cmd struct {
	Name  string
	Args  []string
	Stdin io.Reader
}

// Command is a shorthand for building a Cmd.
func Command(name string, args ...string) Cmd {
	return Cmd{Name: name, Args: args}
}

// WithStdin returns a copy of c reading standard input from r.
func (c Cmd) WithStdin(r io.Reader) Cmd {
	c.Stdin = r
	return c
}

func (c Cmd) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Process is a started program that can be waited on.
type Process interface {
	Pid() int
	Wait() error
}

// Runner executes external programs.
type Runner interface {
	// Run executes c, waits for it and returns its standard output.
	// A non-zero exit is reported as *ExitError.
	Run(ctx context.Context, c Cmd) ([]byte, error)

	// Start launches c without waiting for it.
	Start(ctx context.Context, c Cmd) (Process, error)
}

// ExitError reports a program that exited unsuccessfully.
type ExitError struct {
	Name   string
	Code   int
	Signal syscall.Signal
	Stderr string
	// Canceled is set when the program was stopped through its context
	// and exited successfully in response
	Canceled bool
}

func (e *ExitError) Error() string {
	var msg string
	if e.Canceled {
		msg = fmt.Sprintf("%s stopped by cancellation", e.Name)
	} else if e.Signal != 0 {
		msg = fmt.Sprintf("%s killed by signal %s", e.Name, unix.SignalName(e.Signal))
	} else {
		msg = fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// IsExit reports whether err is or wraps an *ExitError.
func IsExit(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// Interrupted reports whether err is a program ending because of SIGINT or
// SIGTERM, either as a signal death or the conventional 128+n status.
func Interrupted(err error) bool {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	if exitErr.Canceled {
		return true
	}
	switch exitErr.Signal {
	case unix.SIGINT, unix.SIGTERM:
		return true
	}
	return exitErr.Code == 128+int(unix.SIGINT) || exitErr.Code == 128+int(unix.SIGTERM)
}

// System runs programs with os/exec.
type System struct{}

// NewSystem returns a Runner backed by real processes.
func NewSystem() *System {
	return &System{}
}

func (s *System) command(ctx context.Context, c Cmd) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	// let collaborators shut down cleanly when we are interrupted
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	return cmd
}

func (s *System) Run(ctx context.Context, c Cmd) ([]byte, error) {
	logger.WithComponent("exec").Debug().Strs("argv", append([]string{c.Name}, c.Args...)).Msg("Running")

	var stdout, stderr bytes.Buffer
	cmd := s.command(ctx, c)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), wrapExit(c.Name, cmd, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (s *System) Start(ctx context.Context, c Cmd) (Process, error) {
	log := logger.WithComponent("exec")
	log.Debug().Strs("argv", append([]string{c.Name}, c.Args...)).Msg("Starting")

	cmd := s.command(ctx, c)
	stderr := &tailBuffer{limit: 4096}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	log.Info().Str("program", c.Name).Int("pid", cmd.Process.Pid).Msg("Process started")
	return &process{name: c.Name, cmd: cmd, stderr: stderr}, nil
}

type process struct {
	name   string
	cmd    *exec.Cmd
	stderr *tailBuffer
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		return wrapExit(p.name, p.cmd, err, p.stderr.String())
	}
	return nil
}

func wrapExit(name string, cmd *exec.Cmd, err error, stderr string) error {
	// os/exec reports the context error even when the program handled
	// the interrupt and exited 0
	if cmd.ProcessState != nil && cmd.ProcessState.Success() &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return &ExitError{Name: name, Canceled: true, Stderr: strings.TrimSpace(stderr)}
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%s: %w", name, err)
	}
	e := &ExitError{
		Name:   name,
		Code:   exitErr.ExitCode(),
		Stderr: strings.TrimSpace(stderr),
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		e.Signal = status.Signal()
	}
	return e
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
