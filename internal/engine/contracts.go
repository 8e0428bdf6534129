package engine

import (
	"context"
	"encoding/json"

	"github.com/chancerylabs/chancery/internal/integrations"
	"github.com/chancerylabs/chancery/internal/notifications"
)

// Dispatcher delivers integration step payloads to external systems.
// Implemented by integrations.Dispatcher.
type Dispatcher interface {
	Dispatch(
		ctx context.Context,
		system string,
		config json.RawMessage,
		payload any,
	) (*integrations.Result, error)
}

// Notifier delivers workflow notifications. Implemented by
// notifications.Notifier. Delivery is best effort.
type Notifier interface {
	Send(ctx context.Context, note notifications.Notification)
}
