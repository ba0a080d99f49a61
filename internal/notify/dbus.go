package notify

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/godbus/dbus/v5"
)

// Notification daemon D-Bus constants
const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notificationsIface   = "org.freedesktop.Notifications"
)

// DBus talks to the notification daemon over the session bus. The bus is
// dialed on the first notification, so an unreachable bus surfaces as a
// delivery failure.
type DBus struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	timeout int32
}

// NewDBus creates a session bus notifier. timeout is in milliseconds; a
// negative value leaves the expiry to the daemon.
func NewDBus(timeout int) *DBus {
	return &DBus{timeout: expireTimeout(timeout)}
}

// expireTimeout fits timeout into the int32 the Notify call takes.
func expireTimeout(timeout int) int32 {
	switch {
	case timeout < 0:
		return -1
	case timeout > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(timeout)
	}
}

func (d *DBus) connect() (*dbus.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	d.conn = conn
	return conn, nil
}

// Close closes the bus connection if one was opened
func (d *DBus) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *DBus) Notify(ctx context.Context, n Notification) (string, error) {
	log := logger.WithComponent("notify-dbus")
	conn, err := d.connect()
	if err != nil {
		return "", err
	}
	obj := conn.Object(notificationsService, notificationsPath)

	actions := make([]string, 0, 2*len(n.Actions))
	for _, a := range n.Actions {
		actions = append(actions, a.ID(), a.Label())
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}

	// Set up signal channel BEFORE making the call
	var signals chan *dbus.Signal
	if len(actions) > 0 {
		if err := conn.AddMatchSignal(
			dbus.WithMatchObjectPath(notificationsPath),
			dbus.WithMatchInterface(notificationsIface),
		); err != nil {
			log.Warn().Err(err).Msg("Failed to add match rule")
		}
		signals = make(chan *dbus.Signal, 10)
		conn.Signal(signals)
		defer conn.RemoveSignal(signals)
	}

	var id uint32
	err = obj.CallWithContext(ctx, notificationsIface+".Notify", 0,
		config.AppName, uint32(0), n.Icon, n.Title, n.Body, actions, hints, d.timeout,
	).Store(&id)
	if err != nil {
		return "", fmt.Errorf("Notify call failed: %w", err)
	}
	log.Debug().Uint32("id", id).Str("title", n.Title).Msg("Notification sent")

	if signals == nil {
		return "", nil
	}
	return awaitResponse(ctx, signals, id)
}

// awaitResponse waits for the daemon to report an invoked action or the
// closing of notification id.
func awaitResponse(ctx context.Context, signals <-chan *dbus.Signal, id uint32) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return "", nil
			}
			if len(sig.Body) < 2 {
				continue
			}
			if sigID, ok := sig.Body[0].(uint32); !ok || sigID != id {
				continue
			}
			switch sig.Name {
			case notificationsIface + ".ActionInvoked":
				key, _ := sig.Body[1].(string)
				return key, nil
			case notificationsIface + ".NotificationClosed":
				return "", nil
			}
		}
	}
}
