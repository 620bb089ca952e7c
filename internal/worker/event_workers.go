package worker

import (
	"context"

	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/observability"
	"github.com/campus-kit/helpdesk/internal/service"
)

// Dependencies lists the event consumers started at boot.
type Dependencies struct {
	Dispatcher    events.Dispatcher
	Notifications *service.NotificationService
	Metrics       *observability.Metrics
}

// Start subscribes every consumer to the dispatcher.
func Start(deps Dependencies) {
	if deps.Notifications != nil {
		deps.Notifications.RegisterHandlers()
	}
	startMetrics(deps.Dispatcher, deps.Metrics)
}

// startMetrics feeds domain events into the Prometheus collectors.
func startMetrics(dispatcher events.Dispatcher, metrics *observability.Metrics) {
	if dispatcher == nil || metrics == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			metrics.RecordEvent(string(event.Type))
			switch payload := event.Payload.(type) {
			case events.RequestStatusChangedPayload:
				metrics.RecordTransition(string(payload.NewStatus))
			case events.FeedbackSubmittedPayload:
				metrics.RecordRating(payload.Rating)
			}
			return nil
		})
	}
}
