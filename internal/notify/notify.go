// Package notify raises desktop notifications and runs the post-capture
// action the user picks from them.
package notify

import (
	"context"
	"fmt"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
)

// Urgency follows the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Notification is one message shown to the user.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Urgency Urgency
	Actions []Action
}

// Notifier delivers notifications. When the notification carries actions,
// Notify blocks until the user responds and returns the invoked action id,
// or "" when the notification was dismissed.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (string, error)
}

// New builds the notifier selected by the notification section.
func New(runner execx.Runner, section config.Section) (Notifier, error) {
	timeout := section.Int("timeout")
	switch backend := section.String("backend"); backend {
	case "dbus":
		return NewDBus(timeout), nil
	case "notify-send":
		return NewSend(runner, timeout), nil
	default:
		return nil, fmt.Errorf("unknown notification backend %q", backend)
	}
}

// Send delivers n and logs delivery failures instead of returning them.
func Send(ctx context.Context, notifier Notifier, n Notification) string {
	choice, err := notifier.Notify(ctx, n)
	if err != nil {
		logger.WithComponent("notify").Error().Err(err).Str("title", n.Title).Msg("Failed to send notification")
		return ""
	}
	return choice
}

// Dispatch shows n and runs the action the user picks, if any, against
// path. Failures are logged and never abort the caller.
func Dispatch(ctx context.Context, notifier Notifier, n Notification, path string, cfg *config.Config) {
	log := logger.WithComponent("notify")

	choice := Send(ctx, notifier, n)
	if choice == "" {
		return
	}

	for _, action := range n.Actions {
		if action.ID() != choice {
			continue
		}
		log.Info().Str("action", action.Name()).Str("path", path).Msg("Running notification action")
		if err := action.Run(ctx, path, cfg.Section("notification_actions", action.Name())); err != nil {
			log.Error().Err(err).Str("action", action.Name()).Msg("Notification action failed")
		}
		return
	}
	log.Debug().Str("response", choice).Msg("Notification response matches no action")
}
