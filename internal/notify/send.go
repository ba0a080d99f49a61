package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
)

// SendNotifier delivers notifications through notify-send.
type SendNotifier struct {
	runner  execx.Runner
	timeout int
}

// NewSend creates a notify-send backed Notifier. A negative timeout leaves
// the expiry to the daemon.
func NewSend(runner execx.Runner, timeout int) *SendNotifier {
	return &SendNotifier{runner: runner, timeout: timeout}
}

func (s *SendNotifier) Notify(ctx context.Context, n Notification) (string, error) {
	out, err := s.runner.Run(ctx, execx.Command("notify-send", s.args(n)...))
	if err != nil {
		return "", fmt.Errorf("notify-send failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *SendNotifier) args(n Notification) []string {
	args := []string{"--app-name", config.AppName, "--urgency", n.Urgency.String()}
	if n.Icon != "" {
		args = append(args, "--icon", n.Icon)
	}
	if s.timeout >= 0 {
		args = append(args, "--expire-time", strconv.Itoa(s.timeout))
	}
	for _, a := range n.Actions {
		args = append(args, "--action", a.ID()+"="+a.Label())
	}
	if len(n.Actions) > 0 {
		args = append(args, "--wait")
	}
	args = append(args, n.Title)
	if n.Body != "" {
		args = append(args, n.Body)
	}
	return args
}
