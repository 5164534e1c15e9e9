package notifications

import (
	"context"

	"github.com/freshkart/freshkart-backend/pkg/logger"
)

// LogDispatcher writes dispatched events to the structured log. It stands
// in for the WhatsApp/email gateway in environments without one.
type LogDispatcher struct {
	logg *logger.Logger
}

// NewLogDispatcher builds the logging dispatcher.
func NewLogDispatcher(logg *logger.Logger) *LogDispatcher {
	return &LogDispatcher{logg: logg}
}

// Dispatch logs the event and reports success.
func (d *LogDispatcher) Dispatch(ctx context.Context, event Event) error {
	if d.logg == nil {
		return nil
	}
	ctx = d.logg.WithFields(ctx, map[string]any{
		"notification_type": string(event.Type),
		"order_id":          event.OrderID.String(),
	})
	d.logg.Info(ctx, "notification.dispatched")
	return nil
}
