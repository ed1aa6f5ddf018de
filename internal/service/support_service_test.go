package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/events"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

type fakeSupportRepo struct {
	created []*domain.SupportMessage
}

func (f *fakeSupportRepo) Create(ctx context.Context, msg *domain.SupportMessage) error {
	msg.ID = "m-1"
	f.created = append(f.created, msg)
	return nil
}

func TestSupportSubmitPrefixesCategory(t *testing.T) {
	repo := &fakeSupportRepo{}
	dispatcher := &fakeDispatcher{}
	svc := NewSupportService(repo, dispatcher, zap.NewNop())

	msg, err := svc.Submit(context.Background(), citizenPrincipal("u-1"), SupportInput{
		Category: "water",
		Subject:  "Leaking main",
		Message:  "Still no response after two weeks",
	})
	require.NoError(t, err)

	assert.Equal(t, "[WATER] Leaking main", msg.Subject)
	assert.Equal(t, "u-1@example.com", msg.UserEmail)
	require.Len(t, repo.created, 1)
	assert.Equal(t, events.EventSupportMessageReceived, dispatcher.lastType())
}

func TestSupportSubmitRequiresSubjectAndMessage(t *testing.T) {
	repo := &fakeSupportRepo{}
	svc := NewSupportService(repo, &fakeDispatcher{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), citizenPrincipal("u-1"), SupportInput{Category: "water"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "subject")
	assert.Contains(t, domainErr.Details, "message")
	assert.Empty(t, repo.created)
}
