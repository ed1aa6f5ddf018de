package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/events"
	"github.com/citisolve/complaint-service/internal/repository"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// SupportService records messages from signed-in users to the
// administrators and raises the event that relays them by mail.
type SupportService struct {
	messages   repository.SupportMessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSupportService constructs the service.
func NewSupportService(messages repository.SupportMessageRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SupportService {
	return &SupportService{messages: messages, dispatcher: dispatcher, logger: logger}
}

// SupportInput is the support form.
type SupportInput struct {
	Category string
	Subject  string
	Message  string
}

// Submit validates and stores a support message. The category travels as an
// upper-cased prefix on the subject line so the relayed mail is filterable.
func (s *SupportService) Submit(ctx context.Context, principal *session.Principal, input SupportInput) (*domain.SupportMessage, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	details := map[string]any{}
	if input.Subject == "" {
		details["subject"] = "required"
	}
	if input.Message == "" {
		details["message"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("support message validation failed", details)
	}

	subject := input.Subject
	if category := strings.TrimSpace(input.Category); category != "" {
		subject = "[" + strings.ToUpper(category) + "] " + subject
	}

	msg := &domain.SupportMessage{
		UserID:    principal.UserID,
		UserEmail: principal.Email,
		UserName:  principal.FullName,
		Subject:   subject,
		Body:      input.Message,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSupportMessageReceived,
			Actor:     actorFrom(principal),
			Timestamp: time.Now().UTC(),
			Payload: events.SupportMessageReceivedPayload{
				MessageID: msg.ID,
				Email:     msg.UserEmail,
				Name:      msg.UserName,
				Subject:   msg.Subject,
				Body:      msg.Body,
			},
		}); err != nil {
			s.logger.Warn("support event publish failed", zap.Error(err))
		}
	}
	return msg, nil
}
