// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/porthole-sh/porthole/internal/logger"
)

// notifyFunc matches beeep.Notify; swappable for tests.
type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. For tests.
func SetNotifier(f func(title, message string, icon any) error) {
	notifier = f
}

// ResetNotifier restores the default beeep backend.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	logger.Debug("Notification: Sending notification - title=%q, message=%q", title, message)
	// Use empty string for icon - beeep handles platform defaults
	err := notifier(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send notification: %v", err)
	}
	return err
}

// SessionDisappeared sends a notification that the focused session
// vanished from the server's directory.
func SessionDisappeared(sessionTitle string) error {
	return Send("Porthole", sessionTitle+" has ended")
}
