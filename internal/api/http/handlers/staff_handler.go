package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// StaffHandler manages the department queue endpoints.
type StaffHandler struct {
	complaints *service.ComplaintService
	stats      *service.StatsService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(complaints *service.ComplaintService, stats *service.StatsService) *StaffHandler {
	return &StaffHandler{complaints: complaints, stats: stats}
}

// Queue GET /staff/complaints returns the caller's department queue.
func (h *StaffHandler) Queue(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}
	if principal.Department == nil {
		return apperrors.NewForbidden("no department attached to this account")
	}

	view, err := h.stats.DepartmentQueue(c.UserContext(), *principal.Department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DepartmentQueueResponse{
		Department:      string(*principal.Department),
		TotalComplaints: view.Counts.Total,
		Pending:         view.Counts.Pending,
		InProgress:      view.Counts.InProgress,
		Resolved:        view.Counts.Resolved,
		Complaints:      complaintList(view.Complaints),
	}})
}

// UpdateStatus PUT /staff/complaints/:id applies a status transition.
func (h *StaffHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}
