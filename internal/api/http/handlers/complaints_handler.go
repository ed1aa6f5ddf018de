package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// ComplaintsHandler manages citizen complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	stats      *service.StatsService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, stats *service.StatsService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, stats: stats}
}

// Submit POST /submit accepts the multipart complaint form with its photo.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	input := service.ComplaintCreateInput{
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Location:    c.FormValue("location"),
		Description: c.FormValue("description"),
		Priority:    c.FormValue("priority"),
	}

	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			return apperrors.NewValidationError("could not read uploaded image", nil)
		}
		defer file.Close()
		input.Image = &service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	complaint, err := h.complaints.Create(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Dashboard GET /complaints returns the citizen's tallies and list.
func (h *ComplaintsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	view, err := h.stats.UserDashboard(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserDashboardResponse{
		TotalComplaints: view.Stats.Total,
		Pending:         view.Stats.Pending,
		InProgress:      view.Stats.InProgress,
		Resolved:        view.Stats.Resolved,
		Roads:           view.Stats.Roads,
		Water:           view.Stats.Water,
		Power:           view.Stats.Power,
		Sanitation:      view.Stats.Sanitation,
		Other:           view.Stats.Other,
		Complaints:      complaintList(view.Complaints),
	}})
}

// List GET /complaints/data returns the citizen's complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	complaints, err := h.complaints.ListForUser(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintList(complaints)})
}

// Delete POST /complaints/delete removes one of the caller's complaints
// (admins may remove any).
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.ComplaintDeleteRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return apperrors.NewValidationError("complaint id required", nil)
	}

	if err := h.complaints.Delete(c.UserContext(), principal, req.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "complaint deleted"})
}
