package services

import (
	"context"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/sse"
)

// Notifier delivers out-of-band user notifications (events that belong to no
// particular streaming response, like a title landing for a thread that is
// open in another tab).
type Notifier interface {
	Notify(ctx context.Context, userID, event string, data any)
}

// HubNotifier delivers to clients connected to this instance only. Used when
// no redis address is configured.
type HubNotifier struct {
	Hub *sse.Hub
}

func (n *HubNotifier) Notify(_ context.Context, userID, event string, data any) {
	n.Hub.Broadcast(sse.Message{UserID: userID, Event: event, Data: data})
}

// BusNotifier publishes through redis so every instance's hub sees the
// message, including this one via its own forwarder.
type BusNotifier struct {
	Bus sse.Bus
	Log *logger.Logger
}

func (n *BusNotifier) Notify(ctx context.Context, userID, event string, data any) {
	if err := n.Bus.Publish(ctx, sse.Message{UserID: userID, Event: event, Data: data}); err != nil {
		n.Log.Warn("Failed to publish notification", "event", event, "error", err)
	}
}
