package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// UserHandler manages self-service account edits.
type UserHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewUserHandler constructs handler.
func NewUserHandler(auth *service.AuthService, sessions *session.Manager, logger *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, sessions: sessions, logger: logger}
}

// UpdateProfile POST /user/edit applies the caller's own account edits and
// refreshes the session snapshot so the new name/email take effect
// immediately.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), principal.UserID, service.ProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Ward:     req.Ward,
	})
	if err != nil {
		return err
	}

	if err := h.sessions.Refresh(c.UserContext(), c, recordFrom(user)); err != nil {
		h.logger.Warn("session snapshot refresh failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
