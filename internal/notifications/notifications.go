// Package notifications implements the notification collaborator. Delivery
// is best effort and currently backed by structured logging; workflow
// progress never blocks on a notification.
package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Notification is a single message for a recipient about a document.
type Notification struct {
	Recipient  string
	Subject    string
	Body       string
	DocumentID uuid.UUID
}

// Notifier delivers workflow notifications.
type Notifier struct {
	logger *slog.Logger
}

// New creates a Notifier backed by the given logger.
func New(logger *slog.Logger) *Notifier {
	return &Notifier{
		logger: logger.With("system", "notifications"),
	}
}

// Send delivers a notification. Errors are never returned; failed delivery
// only surfaces in the log.
func (n *Notifier) Send(ctx context.Context, note Notification) {
	n.logger.InfoContext(ctx, "notification sent",
		"recipient", note.Recipient,
		"subject", note.Subject,
		"document_id", note.DocumentID,
		"body", note.Body,
	)
}
