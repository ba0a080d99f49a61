package execx

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSystem_RunCapturesStdout(t *testing.T) {
	out, err := NewSystem().Run(context.Background(),
		Command("sh", "-c", "cat").WithStdin(strings.NewReader("hello")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestSystem_RunNonZeroExit(t *testing.T) {
	_, err := NewSystem().Run(context.Background(), Command("sh", "-c", "echo boom >&2; exit 3"))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "boom", exitErr.Stderr)
	assert.Equal(t, "sh exited with status 3: boom", err.Error())
	assert.True(t, IsExit(err))
}

func TestSystem_RunMissingProgram(t *testing.T) {
	_, err := NewSystem().Run(context.Background(), Command("swaycap-definitely-missing"))
	require.Error(t, err)
	assert.False(t, IsExit(err))
}

func TestSystem_StartAndWait(t *testing.T) {
	proc, err := NewSystem().Start(context.Background(), Command("sh", "-c", "kill -INT $$"))
	require.NoError(t, err)
	assert.Greater(t, proc.Pid(), 0)

	err = proc.Wait()
	require.Error(t, err)
	assert.True(t, Interrupted(err))
}

func TestSystem_StartCanceledCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc, err := NewSystem().Start(ctx, Command("sh", "-c", "trap 'exit 0' INT; while :; do sleep 0.05; done"))
	require.NoError(t, err)
	// give the shell time to install its trap
	time.Sleep(200 * time.Millisecond)
	cancel()

	err = proc.Wait()
	require.Error(t, err)
	assert.True(t, Interrupted(err))
	assert.True(t, IsExit(err))
	assert.Equal(t, "sh stopped by cancellation", err.Error())
}

func TestInterrupted(t *testing.T) {
	assert.True(t, Interrupted(&ExitError{Name: "x", Signal: unix.SIGTERM}))
	assert.True(t, Interrupted(fmt.Errorf("wrapped: %w", &ExitError{Name: "x", Code: 130})))
	assert.False(t, Interrupted(&ExitError{Name: "x", Code: 1}))
	assert.False(t, Interrupted(fmt.Errorf("plain")))
	assert.True(t, Interrupted(&ExitError{Name: "x", Canceled: true}))
}
