package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/config"
	"github.com/citisolve/complaint-service/internal/events"
)

// NotificationService turns domain events into outbound mail and audit
// logs. Handler errors stay inside the dispatcher; a failed mail never
// rolls back the operation that triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     Mailer
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer Mailer, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintAllocated, n.handleComplaintAllocated)
	n.dispatcher.Subscribe(events.EventComplaintDeleted, n.handleComplaintDeleted)
	n.dispatcher.Subscribe(events.EventSupportMessageReceived, n.handleSupportMessage)
}

// SendLoginCode delivers the one-time confirmation code during login.
func (n *NotificationService) SendLoginCode(email, code string) error {
	body := fmt.Sprintf("<p>Your CitiSolve confirmation code is <b>%s</b>.</p><p>It expires in a few minutes.</p>", code)
	return n.mailer.Send(email, "Your CitiSolve confirmation code", body)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated",
		zap.String("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged",
		zap.String("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintAllocated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintAllocated",
		zap.String("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintDeleted",
		zap.String("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))
	return nil
}

// handleSupportMessage relays the stored message to the operations inbox.
func (n *NotificationService) handleSupportMessage(ctx context.Context, event events.Event) error {
	n.logger.Info("SupportMessageReceived", zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.SupportMessageReceivedPayload)
	if !ok || n.cfg.AdminEmail == "" {
		return nil
	}
	body := fmt.Sprintf("<p>From: %s (%s)</p><p>%s</p>", payload.Name, payload.Email, payload.Body)
	return n.mailer.Send(n.cfg.AdminEmail, payload.Subject, body)
}
