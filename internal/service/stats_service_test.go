package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citisolve/complaint-service/internal/domain"
)

func seedStatsData(complaints *fakeComplaintRepo, users *fakeUserRepo) {
	waterDept := domain.CategoryWater
	roadsDept := domain.CategoryRoads
	staffA := "s-water"
	staffB := "s-roads"
	users.add(domain.User{ID: staffA, FullName: "Dana Fields", Email: "dana@example.com", Role: domain.RoleStaff, Department: &waterDept})
	users.add(domain.User{ID: staffB, FullName: "Omar Reyes", Email: "omar@example.com", Role: domain.RoleStaff, Department: &roadsDept})
	users.add(domain.User{ID: "u-1", FullName: "Asha Rao", Email: "asha@example.com", Role: domain.RoleCitizen})

	now := time.Now()
	complaints.complaints["c-1"] = &domain.Complaint{
		ID: "c-1", UserID: "u-1", Category: domain.CategoryWater, Status: domain.StatusResolved,
		ResolvedByID: &staffA, CreatedAt: now,
	}
	complaints.complaints["c-2"] = &domain.Complaint{
		ID: "c-2", UserID: "u-1", Category: domain.CategoryWater, Status: domain.StatusProgress,
		AssignedToID: &staffA, CreatedAt: now,
	}
	complaints.complaints["c-3"] = &domain.Complaint{
		ID: "c-3", UserID: "u-1", Category: domain.CategoryWater, Status: domain.StatusPending, CreatedAt: now,
	}
	complaints.complaints["c-4"] = &domain.Complaint{
		ID: "c-4", UserID: "u-2", Category: domain.CategoryRoads, Status: domain.StatusPending, CreatedAt: now,
	}
}

func TestUserDashboardCountsOnlyOwnComplaints(t *testing.T) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	seedStatsData(complaints, users)
	svc := NewStatsService(complaints, users)

	view, err := svc.UserDashboard(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, 3, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Pending)
	assert.Equal(t, 1, view.Stats.InProgress)
	assert.Equal(t, 1, view.Stats.Resolved)
	assert.Equal(t, 3, view.Stats.Water)
	assert.Len(t, view.Complaints, 3)
}

func TestAdminOverviewAggregates(t *testing.T) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	seedStatsData(complaints, users)
	svc := NewStatsService(complaints, users)

	view, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, view.Stats.Total)
	assert.Equal(t, 3, view.Users.Total)
	assert.Equal(t, 2, view.Users.Staff)
	assert.Equal(t, 1, view.Users.Citizens)
	assert.Equal(t, len(domain.Categories()), view.TotalDepartments)
	assert.Len(t, view.Complaints, 4)
}

func TestDepartmentsIncludeEmptyOnesWithZeroRate(t *testing.T) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	seedStatsData(complaints, users)
	svc := NewStatsService(complaints, users)

	departments, err := svc.Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, len(domain.Categories()))

	byCategory := make(map[domain.Category]domain.DepartmentStats)
	for _, dept := range departments {
		byCategory[dept.Category] = dept.Stats
	}

	water := byCategory[domain.CategoryWater]
	assert.Equal(t, 1, water.TotalStaff)
	assert.Equal(t, 3, water.TotalComplaints)
	assert.Equal(t, 33, water.ResolutionRate)

	power := byCategory[domain.CategoryPower]
	assert.Zero(t, power.TotalComplaints)
	assert.Zero(t, power.ResolutionRate)
}

func TestStaffDirectoryFiltersAndCountsAssignments(t *testing.T) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	seedStatsData(complaints, users)
	svc := NewStatsService(complaints, users)

	all, err := svc.StaffDirectory(context.Background(), "all", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	water, err := svc.StaffDirectory(context.Background(), "water", "")
	require.NoError(t, err)
	require.Len(t, water, 1)
	assert.Equal(t, "s-water", water[0].User.ID)
	assert.Equal(t, 1, water[0].ActiveAssignments)

	matched, err := svc.StaffDirectory(context.Background(), "", "omar")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "s-roads", matched[0].User.ID)
}

func TestDepartmentQueue(t *testing.T) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	seedStatsData(complaints, users)
	svc := NewStatsService(complaints, users)

	queue, err := svc.DepartmentQueue(context.Background(), domain.CategoryWater)
	require.NoError(t, err)

	assert.Equal(t, 3, queue.Counts.Total)
	assert.Equal(t, 1, queue.Counts.Resolved)
	assert.Len(t, queue.Complaints, 3)
}
