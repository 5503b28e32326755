// Package notify raises desktop notifications for warning suggestions.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appName = "Time Analyzer"

// Notifier delivers a short message to the user outside the dashboard.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop shows native desktop notifications.
type Desktop struct {
	logger *slog.Logger
}

func NewDesktop(logger *slog.Logger) *Desktop {
	beeep.AppName = appName
	return &Desktop{logger: logger}
}

func (d *Desktop) Notify(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		d.logger.Warn("desktop notification failed", "title", title, "error", err)
		return err
	}
	return nil
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }
