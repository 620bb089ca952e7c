package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/config"
	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
)

// NotificationService turns lifecycle events into requester notifications.
// Delivery is stubbed: each send is logged.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventChatMessagePosted, n.handleMessagePosted)
	n.dispatcher.Subscribe(events.EventAnnouncementCreated, n.handleAnnouncementCreated)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestCreated", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestStatusChanged", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestAssigned", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMessagePosted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ChatMessagePostedPayload)
	if ok && payload.SenderRole == domain.SenderRoleStudent {
		// staff are reached through the webhook, students by email
		n.sendWebhookNotificationStub(ctx, event)
		return nil
	}
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAnnouncementCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AnnouncementPayload)
	if !ok || !payload.Important {
		return nil
	}
	n.logger.Info("ImportantAnnouncement", zap.String("announcement_id", payload.AnnouncementID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}
