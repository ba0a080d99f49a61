// Package app runs one capture invocation: stop a running recording or
// select a target, capture it and offer the post-capture actions.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bryanchriswhite/swaycap/internal/capture"
	"github.com/bryanchriswhite/swaycap/internal/clipboard"
	"github.com/bryanchriswhite/swaycap/internal/compositor"
	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/bryanchriswhite/swaycap/internal/notify"
	"github.com/bryanchriswhite/swaycap/internal/picker"
	"github.com/bryanchriswhite/swaycap/internal/target"
)

// Options are the per-invocation choices made on the command line.
type Options struct {
	// Selection skips the capture menu when set to one of target.BaseIDs
	Selection   string
	Video       bool
	Destination capture.Destination
}

// Deps are the process-level collaborators. Zero fields get the system
// implementations.
type Deps struct {
	Runner       execx.Runner
	Notifier     notify.Notifier
	Signal       capture.Signaler
	Placeholders *config.Placeholders
	Now          func() time.Time
}

// App wires a capture mode to its collaborators.
type App struct {
	cfg      *config.Config
	opts     Options
	mode     capture.Mode
	picker   picker.Picker
	env      target.Env
	notifier notify.Notifier
	now      func() time.Time
	closer   io.Closer
}

// New builds the App for cfg. The notifier is created from the notification
// section unless deps provides one.
func New(cfg *config.Config, opts Options, deps Deps) (*App, error) {
	runner := deps.Runner
	if runner == nil {
		runner = execx.NewSystem()
	}
	notifier := deps.Notifier
	var closer io.Closer
	if notifier == nil {
		var err error
		notifier, err = notify.New(runner, cfg.Section("notification"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize notifications: %w", err)
		}
		closer, _ = notifier.(io.Closer)
	}
	placeholders := config.CurrentPlaceholders()
	if deps.Placeholders != nil {
		placeholders = *deps.Placeholders
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	menu, err := picker.NewMenu(runner, cfg.Section("picker"))
	if err != nil {
		return nil, err
	}

	mode := capture.New(capture.Deps{
		Config:       cfg,
		Runner:       runner,
		Picker:       menu,
		Clipboard:    clipboard.New(runner),
		Notifier:     notifier,
		Placeholders: placeholders,
		Signal:       deps.Signal,
	}, opts.Video)

	return &App{
		cfg:    cfg,
		opts:   opts,
		mode:   mode,
		picker: menu,
		env: target.Env{
			Compositor: compositor.NewSway(runner),
			Area:       picker.NewSlurp(runner, cfg.Section("slurp")),
		},
		notifier: notifier,
		now:      now,
		closer:   closer,
	}, nil
}

// Close releases the notifier connection New opened, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Mode returns the capture mode of the invocation
func (a *App) Mode() capture.Mode {
	return a.mode
}

// Run performs the invocation. A cancellation is reported to the user and
// yields nil; any other failure is reported and returned.
func (a *App) Run(ctx context.Context) error {
	log := logger.WithComponent("app")

	err := a.run(ctx)
	switch {
	case err == nil:
		return nil
	case picker.IsCancel(err):
		log.Info().Str("reason", err.Error()).Msgf("%s canceled", a.mode.DisplayName())
		notify.Send(ctx, a.notifier, notify.Notification{
			Title:   a.mode.DisplayName() + " canceled",
			Body:    err.Error(),
			Icon:    "dialog-information",
			Urgency: notify.UrgencyLow,
		})
		return nil
	default:
		log.Error().Err(err).Msgf("%s failed", a.mode.DisplayName())
		notify.Send(ctx, a.notifier, notify.Notification{
			Title:   a.mode.DisplayName() + " error",
			Body:    err.Error(),
			Icon:    "dialog-error",
			Urgency: notify.UrgencyCritical,
		})
		return err
	}
}

func (a *App) run(ctx context.Context) error {
	log := logger.WithComponent("app")

	done, err := a.mode.EarlyExit(ctx)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	selection, err := a.selection(ctx)
	if err != nil {
		return err
	}
	area, err := selection.Resolve(ctx)
	if err != nil {
		return err
	}
	log.Debug().Str("selection", selection.ID()).Str("area", area.String()).Msg("Target resolved")

	path, err := a.opts.Destination.Path(a.mode.Section(), a.now())
	if err != nil {
		return err
	}
	if err := a.mode.Capture(ctx, area, path); err != nil {
		return err
	}

	notify.Dispatch(ctx, a.notifier, notify.Notification{
		Title:   a.mode.DisplayName(),
		Body:    path,
		Icon:    a.mode.Icon(path),
		Urgency: notify.UrgencyNormal,
		Actions: a.mode.Actions(),
	}, path, a.cfg)
	return nil
}

// selection returns the selection named on the command line, or asks the
// user to pick one from the capture menu.
func (a *App) selection(ctx context.Context) (target.Selection, error) {
	allOutputs := !a.mode.Video()
	if a.opts.Selection != "" {
		return target.Base(a.opts.Selection, a.env, allOutputs)
	}

	choices, err := target.Choices(ctx, a.env, allOutputs)
	if err != nil {
		return nil, err
	}
	idx, err := a.picker.Pick(ctx, a.mode.DisplayName(), target.Labels(choices))
	if err != nil {
		return nil, err
	}
	return choices[idx], nil
}
