package service

import (
	"context"
	"strings"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/repository"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// StatsService produces the dashboard aggregates. All counting happens in
// SQL; this layer only assembles results and derives percentages.
type StatsService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
}

// NewStatsService constructs the service.
func NewStatsService(complaints repository.ComplaintRepository, users repository.UserRepository) *StatsService {
	return &StatsService{complaints: complaints, users: users}
}

// UserDashboard is the citizen landing view: their own complaint tallies
// plus the full list.
type UserDashboard struct {
	Stats      domain.ComplaintStats
	Complaints []domain.Complaint
}

// UserDashboard builds the citizen view for one user.
func (s *StatsService) UserDashboard(ctx context.Context, userID string) (*UserDashboard, error) {
	stats, err := s.complaints.StatsForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	list, err := s.complaints.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return &UserDashboard{Stats: stats, Complaints: list}, nil
}

// DepartmentQueue is the staff landing view: the department's queue plus
// status tallies for that department.
type DepartmentQueue struct {
	Counts     domain.StatusCounts
	Complaints []domain.Complaint
}

// DepartmentQueue builds the staff view for one department.
func (s *StatsService) DepartmentQueue(ctx context.Context, category domain.Category) (*DepartmentQueue, error) {
	counts, err := s.complaints.StatsForCategory(ctx, category)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	list, err := s.complaints.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return &DepartmentQueue{Counts: counts, Complaints: list}, nil
}

// AdminOverview is the admin dashboard: system-wide complaint tallies, the
// account breakdown, department count and the full complaint list.
type AdminOverview struct {
	Stats            domain.ComplaintStats
	Users            domain.UserCounts
	TotalDepartments int
	Complaints       []domain.Complaint
}

// AdminOverview builds the admin dashboard.
func (s *StatsService) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	stats, err := s.complaints.GlobalStats(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	userCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	list, err := s.complaints.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return &AdminOverview{
		Stats:            stats,
		Users:            userCounts,
		TotalDepartments: len(domain.Categories()),
		Complaints:       list,
	}, nil
}

// DepartmentOverview is one department row of the admin departments view.
type DepartmentOverview struct {
	Category domain.Category
	Stats    domain.DepartmentStats
}

// Departments builds the per-department table in display order. Departments
// with no complaints or staff still appear with zero rows.
func (s *StatsService) Departments(ctx context.Context) ([]DepartmentOverview, error) {
	byCategory, err := s.complaints.StatusCountsByCategory(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	staffCounts, err := s.users.CountStaffByDepartment(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	result := make([]DepartmentOverview, 0, len(domain.Categories()))
	for _, category := range domain.Categories() {
		counts := byCategory[category]
		result = append(result, DepartmentOverview{
			Category: category,
			Stats: domain.DepartmentStats{
				TotalStaff:      staffCounts[category],
				TotalComplaints: counts.Total,
				Pending:         counts.Pending,
				InProgress:      counts.InProgress,
				Resolved:        counts.Resolved,
				ResolutionRate:  domain.ResolutionRate(counts.Resolved, counts.Total),
			},
		})
	}
	return result, nil
}

// StaffMember is one row of the admin staff directory.
type StaffMember struct {
	User              domain.User
	ActiveAssignments int
}

// StaffDirectory lists staff members, optionally filtered to one department
// ("" or "all" means every department) and by a case-insensitive search
// over name and email. Each row carries the member's open assignment count.
func (s *StatsService) StaffDirectory(ctx context.Context, department, search string) ([]StaffMember, error) {
	staff, err := s.users.ListStaff(ctx, department)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	assigned, err := s.complaints.AssignedOpenCounts(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	result := make([]StaffMember, 0, len(staff))
	for _, member := range staff {
		if search != "" &&
			!strings.Contains(strings.ToLower(member.FullName), search) &&
			!strings.Contains(strings.ToLower(member.Email), search) {
			continue
		}
		result = append(result, StaffMember{
			User:              member,
			ActiveAssignments: assigned[member.ID],
		})
	}
	return result, nil
}
