package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// SupportHandler accepts messages to the administrators.
type SupportHandler struct {
	support *service.SupportService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// Submit POST /support.
func (h *SupportHandler) Submit(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.SupportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.support.Submit(c.UserContext(), principal, service.SupportInput{
		Category: req.Category,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "support message received",
		"id":      msg.ID,
	})
}
