// Package capture produces still images and videos of a resolved target.
package capture

import (
	"context"

	"github.com/bryanchriswhite/swaycap/internal/clipboard"
	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/notify"
	"github.com/bryanchriswhite/swaycap/internal/picker"
	"github.com/bryanchriswhite/swaycap/internal/target"
	"golang.org/x/sys/unix"
)

// Mode defines the interface for the capture kinds
type Mode interface {
	// Name is the config section of the mode, e.g. "screenshot"
	Name() string

	// DisplayName is used in notification titles, e.g. "Screenshot"
	DisplayName() string

	// Video reports whether the mode records video. Video modes are not
	// offered the all-outputs target.
	Video() bool

	// Section returns the mode's configuration
	Section() config.Section

	// EarlyExit runs before any target selection. It returns true when the
	// invocation is finished, e.g. because a running recording was stopped.
	EarlyExit(ctx context.Context) (bool, error)

	// Capture writes the capture of area to path
	Capture(ctx context.Context, area target.Area, path string) error

	// Actions are offered in the notification shown after a capture
	Actions() []notify.Action

	// Icon returns the notification icon for a capture stored at path
	Icon(path string) string
}

// Signaler delivers a signal to a process.
type Signaler func(pid int, sig unix.Signal) error

// Deps are the collaborators shared by the modes.
type Deps struct {
	Config       *config.Config
	Runner       execx.Runner
	Picker       picker.Picker
	Clipboard    *clipboard.Writer
	Notifier     notify.Notifier
	Placeholders config.Placeholders
	// Signal defaults to unix.Kill
	Signal Signaler
}

func (d Deps) tools() notify.Tools {
	return notify.Tools{Runner: d.Runner, Clipboard: d.Clipboard, Notifier: d.Notifier}
}

func (d Deps) signal(pid int, sig unix.Signal) error {
	if d.Signal != nil {
		return d.Signal(pid, sig)
	}
	return unix.Kill(pid, sig)
}

// New returns the screencast mode when video is set, the screenshot mode
// otherwise.
func New(deps Deps, video bool) Mode {
	if video {
		return NewScreencast(deps)
	}
	return NewScreenshot(deps)
}
