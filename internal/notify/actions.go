package notify

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"

	"github.com/bryanchriswhite/swaycap/internal/clipboard"
	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
)

// Action is a post-capture operation offered as a notification button.
type Action interface {
	// Name keys the action's settings under notification_actions
	Name() string
	// ID is the action key sent to the notification daemon
	ID() string
	Label() string
	Run(ctx context.Context, path string, section config.Section) error
}

// Tools are the collaborators actions run against.
type Tools struct {
	Runner    execx.Runner
	Clipboard *clipboard.Writer
	Notifier  Notifier
}

// StillActions are offered after a screenshot.
func StillActions(t Tools) []Action {
	return []Action{Edit{t}, Delete{t}, DragAndDrop{t}, Open{t}}
}

// VideoActions are offered after a screencast.
func VideoActions(t Tools) []Action {
	return []Action{Delete{t}, DragAndDrop{t}, Open{t}}
}

// Edit opens the file in an editor and copies the result again. It is the
// default action, invoked by clicking the notification itself.
type Edit struct{ Tools }

func (Edit) Name() string  { return "edit" }
func (Edit) ID() string    { return "default" }
func (Edit) Label() string { return "Edit" }

func (e Edit) Run(ctx context.Context, path string, section config.Section) error {
	if err := runWith(ctx, e.Runner, section, path); err != nil {
		return err
	}
	return e.Clipboard.CopyFile(ctx, path, mime.TypeByExtension(filepath.Ext(path)))
}

// Delete removes the file.
type Delete struct{ Tools }

func (Delete) Name() string  { return "delete" }
func (Delete) ID() string    { return "delete" }
func (Delete) Label() string { return "Delete" }

func (d Delete) Run(ctx context.Context, path string, _ config.Section) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	Send(ctx, d.Notifier, Notification{Title: "Deleted", Body: path, Urgency: UrgencyLow})
	return nil
}

// DragAndDrop hands the file to a drag source program.
type DragAndDrop struct{ Tools }

func (DragAndDrop) Name() string  { return "drag_and_drop" }
func (DragAndDrop) ID() string    { return "drag_and_drop" }
func (DragAndDrop) Label() string { return "Drag and drop" }

func (d DragAndDrop) Run(ctx context.Context, path string, section config.Section) error {
	return runWith(ctx, d.Runner, section, path)
}

// Open opens the file with the default application.
type Open struct{ Tools }

func (Open) Name() string  { return "open" }
func (Open) ID() string    { return "open" }
func (Open) Label() string { return "Open" }

func (o Open) Run(ctx context.Context, path string, section config.Section) error {
	return runWith(ctx, o.Runner, section, path)
}

// runWith runs the section's command with path appended.
func runWith(ctx context.Context, runner execx.Runner, section config.Section, path string) error {
	argv := section.StringSlice("command")
	if len(argv) == 0 {
		return fmt.Errorf("%s.command is empty", section.Name())
	}
	args := append(slices.Clone(argv[1:]), path)
	if _, err := runner.Run(ctx, execx.Command(argv[0], args...)); err != nil {
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	return nil
}
