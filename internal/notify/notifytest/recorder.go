// Package notifytest provides an in-memory notify.Notifier for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/bryanchriswhite/swaycap/internal/notify"
)

// Recorder remembers every notification and answers the ones carrying
// actions with Response.
type Recorder struct {
	mu       sync.Mutex
	sent     []notify.Notification
	Response string
	Err      error
}

func (r *Recorder) Notify(_ context.Context, n notify.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if r.Err != nil {
		return "", r.Err
	}
	if len(n.Actions) == 0 {
		return "", nil
	}
	return r.Response, nil
}

// Sent returns the notifications delivered so far.
func (r *Recorder) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Titles returns the titles of the delivered notifications.
func (r *Recorder) Titles() []string {
	var titles []string
	for _, n := range r.Sent() {
		titles = append(titles, n.Title)
	}
	return titles
}

// Labels returns the action labels of n.
func Labels(n notify.Notification) []string {
	labels := make([]string, len(n.Actions))
	for i, a := range n.Actions {
		labels[i] = a.Label()
	}
	return labels
}
