package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// AdminHandler manages oversight endpoints: the dashboard, allocation,
// complaint edits, department stats and account management.
type AdminHandler struct {
	complaints *service.ComplaintService
	stats      *service.StatsService
	auth       *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *service.ComplaintService, stats *service.StatsService, auth *service.AuthService) *AdminHandler {
	return &AdminHandler{complaints: complaints, stats: stats, auth: auth}
}

// Overview GET /admin/complaints returns the system-wide dashboard.
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	view, err := h.stats.AdminOverview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminOverviewResponse{
		TotalComplaints:  view.Stats.Total,
		Pending:          view.Stats.Pending,
		InProgress:       view.Stats.InProgress,
		Resolved:         view.Stats.Resolved,
		Roads:            view.Stats.Roads,
		Water:            view.Stats.Water,
		Power:            view.Stats.Power,
		Sanitation:       view.Stats.Sanitation,
		Other:            view.Stats.Other,
		TotalUsers:       view.Users.Total,
		TotalStaff:       view.Users.Staff,
		TotalCitizens:    view.Users.Citizens,
		TotalDepartments: view.TotalDepartments,
		Complaints:       complaintList(view.Complaints),
	}})
}

// AllocationView GET /admin/complaintsallocation lists unassigned
// complaints next to the staff directory, optionally filtered by
// department.
func (h *AdminHandler) AllocationView(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListUnallocated(c.UserContext())
	if err != nil {
		return err
	}
	staff, err := h.stats.StaffDirectory(c.UserContext(), c.Query("department"), "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AllocationViewResponse{
		Complaints: complaintList(complaints),
		Staff:      staffList(staff),
	}})
}

// Allocate POST /admin/complaints/allocate assigns a complaint.
func (h *AdminHandler) Allocate(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.AllocationRequest
	if err := c.BodyParser(&req); err != nil || req.ComplaintID == "" || req.StaffID == "" {
		return apperrors.NewValidationError("complaintid and staffid required", nil)
	}

	complaint, err := h.complaints.Allocate(c.UserContext(), principal, req.ComplaintID, req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// EditComplaint POST /admin/complaints/edit rewrites a complaint.
func (h *AdminHandler) EditComplaint(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.ComplaintEditRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return apperrors.NewValidationError("complaint id required", nil)
	}

	complaint, err := h.complaints.AdminEdit(c.UserContext(), principal, req.ID, service.ComplaintEditInput{
		Title:       req.Title,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Departments GET /admin/departments returns the per-department table.
func (h *AdminHandler) Departments(c *fiber.Ctx) error {
	departments, err := h.stats.Departments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			Department:      string(dept.Category),
			TotalStaff:      dept.Stats.TotalStaff,
			TotalComplaints: dept.Stats.TotalComplaints,
			Pending:         dept.Stats.Pending,
			InProgress:      dept.Stats.InProgress,
			Resolved:        dept.Stats.Resolved,
			ResolutionRate:  dept.Stats.ResolutionRate,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Staff GET /admin/staff returns the staff directory with workload counts.
func (h *AdminHandler) Staff(c *fiber.Ctx) error {
	staff, err := h.stats.StaffDirectory(c.UserContext(), c.Query("department"), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffList(staff)})
}

// EditUser POST /admin/users/edit rewrites an account.
func (h *AdminHandler) EditUser(c *fiber.Ctx) error {
	var req dto.AdminUserEditRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return apperrors.NewValidationError("user id required", nil)
	}

	user, err := h.auth.AdminEditUser(c.UserContext(), req.ID, service.AdminUserInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Ward:       req.Ward,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser POST /admin/users/delete removes an account.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	principal, ok := session.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated, please login")
	}

	var req dto.AdminUserDeleteRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return apperrors.NewValidationError("user id required", nil)
	}

	if err := h.auth.AdminDeleteUser(c.UserContext(), principal.UserID, req.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
