package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=marketpulse", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, appleScriptSafe(message), appleScriptSafe(title))
	return exec.Command("osascript", "-e", script).Run()
}

// osascript literals cannot span lines
func appleScriptSafe(s string) string {
	return strings.NewReplacer("\n", " ", "\t", " ").Replace(s)
}

// Notifier prints a message to the terminal and, where supported, raises a
// desktop notification. Desktop delivery is best-effort.
type Notifier struct {
	sender NotificationSender
	out    io.Writer
}

// NewNotifier creates a new Notifier based on the current platform
func NewNotifier() *Notifier {
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}
	return &Notifier{sender: sender, out: os.Stdout}
}

// NewNotifierWithSender creates a Notifier with an explicit sender and output
func NewNotifierWithSender(sender NotificationSender, out io.Writer) *Notifier {
	return &Notifier{sender: sender, out: out}
}

// Notify prints and sends a notification
func (n *Notifier) Notify(title, message string) {
	fmt.Fprintf(n.out, "\n%s %s\n", LabelStyle.Render(title+":"), ValueStyle.Render(message))
	n.send(title, message)
}

// NotifyError prints and sends an error notification
func (n *Notifier) NotifyError(title, message string) {
	fmt.Fprintf(n.out, "\n%s %s\n", ErrorStyle.Render(title+":"), ErrorStyle.Render(message))
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}
