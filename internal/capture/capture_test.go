package capture_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryanchriswhite/swaycap/internal/capture"
	"github.com/bryanchriswhite/swaycap/internal/clipboard"
	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/execx/execxtest"
	"github.com/bryanchriswhite/swaycap/internal/notify/notifytest"
	"github.com/bryanchriswhite/swaycap/internal/picker"
	"github.com/bryanchriswhite/swaycap/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type signal struct {
	pid int
	sig unix.Signal
}

type harness struct {
	runner   *execxtest.Fake
	notifier *notifytest.Recorder
	signals  []signal
	signalFn func(pid int) error
	deps     capture.Deps
}

func newHarness(t *testing.T, tree map[string]any) *harness {
	t.Helper()
	cfg, err := config.New(tree)
	require.NoError(t, err)

	h := &harness{runner: execxtest.New(), notifier: &notifytest.Recorder{}}
	menu, err := picker.NewMenu(h.runner, cfg.Section("picker"))
	require.NoError(t, err)

	h.deps = capture.Deps{
		Config:    cfg,
		Runner:    h.runner,
		Picker:    menu,
		Clipboard: clipboard.New(h.runner),
		Notifier:  h.notifier,
		Placeholders: config.Placeholders{
			RuntimeDir:     t.TempDir(),
			WaylandDisplay: "wayland-1",
			UID:            1000,
		},
		Signal: func(pid int, sig unix.Signal) error {
			h.signals = append(h.signals, signal{pid, sig})
			if h.signalFn != nil {
				return h.signalFn(pid)
			}
			return nil
		},
	}
	return h
}

func TestScreenshot_GrimArgs(t *testing.T) {
	h := newHarness(t, map[string]any{
		"screenshot": map[string]any{"type": "jpeg", "quality": 80, "cursor": true},
	})
	path := filepath.Join(t.TempDir(), "a.jpg")
	h.runner.On("grim", writesLastArg(t, "JPEG"))

	err := capture.NewScreenshot(h.deps).Capture(context.Background(),
		target.Area{Output: "DP-1", Geometry: "10,20 300x200"}, path)
	require.NoError(t, err)

	grim := h.runner.CallsTo("grim")
	require.Len(t, grim, 1)
	assert.Equal(t, []string{"-o", "DP-1", "-g", "10,20 300x200", "-c", "-t", "jpeg", "-q", "80", path}, grim[0].Args)

	copies := h.runner.CallsTo("wl-copy")
	require.Len(t, copies, 1)
	assert.Equal(t, []string{"--type", "image/jpeg"}, copies[0].Args)
	assert.Equal(t, "JPEG", copies[0].Stdin)
}

// writesLastArg makes a fake grim create its output file.
func writesLastArg(t *testing.T, content string) func(execxtest.Call) execxtest.Response {
	return func(c execxtest.Call) execxtest.Response {
		require.NoError(t, os.WriteFile(c.Args[len(c.Args)-1], []byte(content), 0o644))
		return execxtest.Response{}
	}
}

func TestScreenshot_DefaultsAndNoCopy(t *testing.T) {
	h := newHarness(t, map[string]any{"screenshot": map[string]any{"copy": false}})
	path := filepath.Join(t.TempDir(), "a.png")

	require.NoError(t, capture.NewScreenshot(h.deps).Capture(context.Background(), target.Area{}, path))

	grim := h.runner.CallsTo("grim")
	require.Len(t, grim, 1)
	assert.Equal(t, []string{"-t", "png", path}, grim[0].Args)
	assert.Empty(t, h.runner.CallsTo("wl-copy"))
}

func TestScreenshot_GrimFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.runner.Queue("grim", execxtest.Response{Err: execxtest.Exit("grim", 1)})

	err := capture.NewScreenshot(h.deps).Capture(context.Background(), target.Area{}, "/tmp/x.png")
	assert.ErrorContains(t, err, "grim failed")
	assert.False(t, picker.IsCancel(err))
	assert.Empty(t, h.runner.CallsTo("wl-copy"))
}

func TestScreencast_PidFilePath(t *testing.T) {
	h := newHarness(t, nil)
	s := capture.NewScreencast(h.deps)
	assert.Equal(t, filepath.Join(h.deps.Placeholders.RuntimeDir, "swaycap-wayland-1.pid"), s.PidFile().Path)
}

func TestScreencast_MarkerLifecycle(t *testing.T) {
	for name, waitErr := range map[string]error{
		"clean exit":   nil,
		"interrupted":  &execx.ExitError{Name: "wf-recorder", Signal: unix.SIGINT},
		"canceled":     &execx.ExitError{Name: "wf-recorder", Canceled: true},
		"failure exit": execxtest.Exit("wf-recorder", 1),
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, map[string]any{"screencast": map[string]any{"audio": "no"}})
			h.runner.Queue("fuzzel", execxtest.Response{Stdout: "0\n"})
			s := capture.NewScreencast(h.deps)

			var seen int
			h.runner.StartFunc = func(execxtest.Call) (execx.Process, error) {
				return &execxtest.Proc{PID: 777, WaitFunc: func() error {
					var err error
					seen, err = s.PidFile().Read()
					require.NoError(t, err)
					return waitErr
				}}, nil
			}

			err := s.Capture(context.Background(), target.Area{Output: "DP-1"}, "/tmp/a.mp4")
			if waitErr != nil && !execx.Interrupted(waitErr) {
				assert.ErrorContains(t, err, "wf-recorder failed")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 777, seen)
			assert.False(t, s.PidFile().Exists())
		})
	}
}

func TestScreencast_RecorderArgs(t *testing.T) {
	h := newHarness(t, map[string]any{
		"screencast": map[string]any{"codec": "libx264", "args": []any{"--framerate", "30"}},
	})
	// audio prompt, then confirmation
	h.runner.Queue("fuzzel", execxtest.Response{Stdout: "0\n"}, execxtest.Response{Stdout: "0\n"})

	err := capture.NewScreencast(h.deps).Capture(context.Background(),
		target.Area{Geometry: "0,0 640x480"}, "/tmp/a.mp4")
	require.NoError(t, err)

	prompts := h.runner.CallsTo("fuzzel")
	require.Len(t, prompts, 2)
	assert.Equal(t, "Yes\nNo\n", prompts[0].Stdin)
	assert.Equal(t, "Start recording\nCancel\n", prompts[1].Stdin)

	rec := h.runner.CallsTo("wf-recorder")
	require.Len(t, rec, 1)
	assert.Equal(t, []string{
		"-g", "0,0 640x480", "-c", "libx264", "--audio", "--framerate", "30", "-f", "/tmp/a.mp4",
	}, rec[0].Args)
}

func TestScreencast_DeclinedConfirmation(t *testing.T) {
	h := newHarness(t, map[string]any{"screencast": map[string]any{"audio": "yes"}})
	h.runner.Queue("fuzzel", execxtest.Response{Stdout: "1\n"})

	err := capture.NewScreencast(h.deps).Capture(context.Background(), target.Area{}, "/tmp/a.mp4")
	assert.True(t, picker.IsCancel(err))
	assert.Empty(t, h.runner.CallsTo("wf-recorder"))
}

func TestScreencast_EarlyExit(t *testing.T) {
	t.Run("no marker", func(t *testing.T) {
		h := newHarness(t, nil)
		done, err := capture.NewScreencast(h.deps).EarlyExit(context.Background())
		require.NoError(t, err)
		assert.False(t, done)
		assert.Empty(t, h.signals)
	})

	t.Run("running recording is stopped", func(t *testing.T) {
		h := newHarness(t, nil)
		s := capture.NewScreencast(h.deps)
		require.NoError(t, s.PidFile().Write(31337))

		done, err := s.EarlyExit(context.Background())
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, []signal{{31337, unix.SIGINT}}, h.signals)
		assert.Equal(t, []string{"Stopping screencast"}, h.notifier.Titles())
		assert.Empty(t, h.runner.Calls())
	})

	t.Run("stale marker is removed", func(t *testing.T) {
		h := newHarness(t, nil)
		h.signalFn = func(int) error { return unix.ESRCH }
		s := capture.NewScreencast(h.deps)
		require.NoError(t, s.PidFile().Write(31337))

		done, err := s.EarlyExit(context.Background())
		require.NoError(t, err)
		assert.False(t, done)
		assert.False(t, s.PidFile().Exists())
		assert.Empty(t, h.notifier.Titles())
	})

	t.Run("permission denied", func(t *testing.T) {
		h := newHarness(t, nil)
		h.signalFn = func(int) error { return unix.EPERM }
		s := capture.NewScreencast(h.deps)
		require.NoError(t, s.PidFile().Write(1))

		_, err := s.EarlyExit(context.Background())
		assert.ErrorIs(t, err, unix.EPERM)
		assert.True(t, s.PidFile().Exists())
	})

	t.Run("garbage marker is removed", func(t *testing.T) {
		h := newHarness(t, nil)
		s := capture.NewScreencast(h.deps)
		require.NoError(t, os.WriteFile(s.PidFile().Path, []byte("not a pid"), 0o644))

		done, err := s.EarlyExit(context.Background())
		require.NoError(t, err)
		assert.False(t, done)
		assert.False(t, s.PidFile().Exists())
	})
}

func TestScreenshot_HasNoEarlyExit(t *testing.T) {
	h := newHarness(t, nil)
	done, err := capture.NewScreenshot(h.deps).EarlyExit(context.Background())
	require.NoError(t, err)
	assert.False(t, done)
}

func TestModeActions(t *testing.T) {
	h := newHarness(t, nil)
	shot := capture.New(h.deps, false)
	cast := capture.New(h.deps, true)

	assert.False(t, shot.Video())
	assert.True(t, cast.Video())
	assert.Len(t, shot.Actions(), 4)
	assert.Len(t, cast.Actions(), 3)
	assert.Equal(t, "/tmp/a.png", shot.Icon("/tmp/a.png"))
	assert.Equal(t, ".screencast", cast.Section().Name())
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	name, err := capture.Filename("%Y-%m-%d_%H-%M-%S.png", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09_07-05-01.png", name)
}

func TestDestination_DirectoryPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(capture.LegacySaveDirEnv, "")
	now := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)

	configured := filepath.Join(t.TempDir(), "configured")
	withDir, err := config.New(map[string]any{"screenshot": map[string]any{"directory": configured}})
	require.NoError(t, err)
	withoutDir, err := config.New(nil)
	require.NoError(t, err)

	override := filepath.Join(t.TempDir(), "override")
	path, err := capture.Destination{SaveDir: override}.Path(withDir.Section("screenshot"), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(override, "2024-03-09_07-05-01.png"), path)
	assert.DirExists(t, override)

	path, err = capture.Destination{}.Path(withDir.Section("screenshot"), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configured, "2024-03-09_07-05-01.png"), path)

	legacy := t.TempDir()
	t.Setenv(capture.LegacySaveDirEnv, legacy)
	dir, err := capture.Destination{}.Directory(withDir.Section("screenshot"))
	require.NoError(t, err)
	assert.Equal(t, configured, dir)
	dir, err = capture.Destination{}.Directory(withoutDir.Section("screenshot"))
	require.NoError(t, err)
	assert.Equal(t, legacy, dir)

	t.Setenv(capture.LegacySaveDirEnv, "")
	dir, err = capture.Destination{}.Directory(withoutDir.Section("screencast"))
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	dir, err = capture.Destination{SaveDir: "~/shots"}.Directory(withoutDir.Section("screenshot"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shots"), dir)
}

func TestDestination_OutputOverride(t *testing.T) {
	cfg, err := config.New(nil)
	require.NoError(t, err)

	path, err := capture.Destination{Output: "/tmp/exact.png", SaveDir: "/ignored"}.
		Path(cfg.Section("screenshot"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/exact.png", path)
}
