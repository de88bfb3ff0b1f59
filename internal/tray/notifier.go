package tray

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	NotificationsInterface = "org.freedesktop.Notifications"
	NotificationsPath      = "/org/freedesktop/Notifications"
)

// urgencyNormal is the "normal" urgency level of the notifications spec
const urgencyNormal byte = 1

// notifier sends desktop notifications, replacing its previous one so that
// repeated empties do not pile up
type notifier struct {
	conn    *dbus.Conn
	appName string
	timeout time.Duration
	lastID  uint32
}

func (n *notifier) notify(icon, title, message string) error {
	obj := n.conn.Object(NotificationsInterface, NotificationsPath)
	call := obj.Call(
		NotificationsInterface+".Notify",
		0,
		n.appName,
		n.lastID,
		icon,
		title,
		message,
		[]string{},
		notificationHints(n.appName),
		int32(n.timeout/time.Millisecond),
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify: invalid reply: %w", err)
	}
	n.lastID = id
	return nil
}

func notificationHints(appName string) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgencyNormal),
		"transient":     dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant(appName),
	}
}
