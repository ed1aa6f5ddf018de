package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/events"
)

// fakeComplaintRepo is an in-memory ComplaintRepository that mirrors the
// transactional counter semantics of the real implementation: Resolve,
// Unresolve and Delete adjust resolvedCounts together with complaint state.
type fakeComplaintRepo struct {
	complaints     map[string]*domain.Complaint
	resolvedCounts map[string]int
	nextID         int

	resolveCalls   int
	unresolveCalls int
	setStatusCalls int
	allocateCalls  int
	deleteCalls    int

	failWith error
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints:     make(map[string]*domain.Complaint),
		resolvedCounts: make(map[string]int),
	}
}

func (f *fakeComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	complaint.ID = "c-" + strconv.Itoa(f.nextID)
	complaint.CreatedAt = time.Now()
	clone := *complaint
	f.complaints[complaint.ID] = &clone
	return nil
}

func (f *fakeComplaintRepo) Update(ctx context.Context, complaint *domain.Complaint) error {
	stored, ok := f.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = complaint.Title
	stored.Category = complaint.Category
	stored.Location = complaint.Location
	stored.Description = complaint.Description
	stored.Priority = complaint.Priority
	return nil
}

func (f *fakeComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	stored, ok := f.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeComplaintRepo) List(ctx context.Context) ([]domain.Complaint, error) {
	return f.filter(func(*domain.Complaint) bool { return true }), nil
}

func (f *fakeComplaintRepo) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return f.filter(func(c *domain.Complaint) bool { return c.UserID == userID }), nil
}

func (f *fakeComplaintRepo) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Complaint, error) {
	return f.filter(func(c *domain.Complaint) bool { return c.Category == category }), nil
}

func (f *fakeComplaintRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Complaint, error) {
	return f.filter(func(c *domain.Complaint) bool { return c.Status == status }), nil
}

func (f *fakeComplaintRepo) filter(keep func(*domain.Complaint) bool) []domain.Complaint {
	var result []domain.Complaint
	for _, c := range f.complaints {
		if keep(c) {
			result = append(result, *c)
		}
	}
	return result
}

func (f *fakeComplaintRepo) SetStatus(ctx context.Context, id string, status domain.Status) error {
	f.setStatusCalls++
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (f *fakeComplaintRepo) Resolve(ctx context.Context, id, resolverID, resolverName string, at time.Time) error {
	f.resolveCalls++
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = domain.StatusResolved
	stored.ResolvedByID = &resolverID
	stored.ResolvedByName = &resolverName
	stored.ResolvedAt = &at
	f.resolvedCounts[resolverID]++
	return nil
}

func (f *fakeComplaintRepo) Unresolve(ctx context.Context, id string, newStatus domain.Status, priorResolverID string) error {
	f.unresolveCalls++
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = newStatus
	stored.ResolvedByID = nil
	stored.ResolvedByName = nil
	stored.ResolvedAt = nil
	if priorResolverID != "" && f.resolvedCounts[priorResolverID] > 0 {
		f.resolvedCounts[priorResolverID]--
	}
	return nil
}

func (f *fakeComplaintRepo) Allocate(ctx context.Context, id, staffID, staffName string) error {
	f.allocateCalls++
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.AssignedToID = &staffID
	stored.AssignedToName = &staffName
	stored.Status = domain.StatusProgress
	return nil
}

func (f *fakeComplaintRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Status == domain.StatusResolved && stored.ResolvedByID != nil {
		if f.resolvedCounts[*stored.ResolvedByID] > 0 {
			f.resolvedCounts[*stored.ResolvedByID]--
		}
	}
	delete(f.complaints, id)
	return nil
}

func (f *fakeComplaintRepo) AssignedOpenCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, c := range f.complaints {
		if c.AssignedToID != nil && c.Status != domain.StatusResolved {
			counts[*c.AssignedToID]++
		}
	}
	return counts, nil
}

func (f *fakeComplaintRepo) StatsForUser(ctx context.Context, userID string) (domain.ComplaintStats, error) {
	return f.stats(func(c *domain.Complaint) bool { return c.UserID == userID }), nil
}

func (f *fakeComplaintRepo) GlobalStats(ctx context.Context) (domain.ComplaintStats, error) {
	return f.stats(func(*domain.Complaint) bool { return true }), nil
}

func (f *fakeComplaintRepo) stats(keep func(*domain.Complaint) bool) domain.ComplaintStats {
	var stats domain.ComplaintStats
	for _, c := range f.complaints {
		if !keep(c) {
			continue
		}
		stats.Total++
		switch c.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusProgress:
			stats.InProgress++
		case domain.StatusResolved:
			stats.Resolved++
		}
		switch c.Category {
		case domain.CategoryRoads:
			stats.Roads++
		case domain.CategoryWater:
			stats.Water++
		case domain.CategoryPower:
			stats.Power++
		case domain.CategorySanitation:
			stats.Sanitation++
		case domain.CategoryOther:
			stats.Other++
		}
	}
	return stats
}

func (f *fakeComplaintRepo) StatsForCategory(ctx context.Context, category domain.Category) (domain.StatusCounts, error) {
	stats := f.stats(func(c *domain.Complaint) bool { return c.Category == category })
	return stats.StatusCounts, nil
}

func (f *fakeComplaintRepo) StatusCountsByCategory(ctx context.Context) (map[domain.Category]domain.StatusCounts, error) {
	result := make(map[domain.Category]domain.StatusCounts)
	for _, category := range domain.Categories() {
		stats := f.stats(func(c *domain.Complaint) bool { return c.Category == category })
		if stats.Total > 0 {
			result[category] = stats.StatusCounts
		}
	}
	return result, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int

	reconcileCalls  int
	reconcileResult int64
	reconcileErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) add(user domain.User) *domain.User {
	if user.ID == "" {
		f.nextID++
		user.ID = "u-" + strconv.Itoa(f.nextID)
	}
	clone := user
	f.users[user.ID] = &clone
	return &clone
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.nextID++
	user.ID = "u-" + strconv.Itoa(f.nextID)
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, u := range f.users {
		result = append(result, *u)
	}
	return result, nil
}

func (f *fakeUserRepo) ListStaff(ctx context.Context, department string) ([]domain.User, error) {
	dept := strings.TrimSpace(department)
	var result []domain.User
	for _, u := range f.users {
		if u.Role != domain.RoleStaff {
			continue
		}
		if dept != "" && dept != "all" {
			if u.Department == nil || string(*u.Department) != dept {
				continue
			}
		}
		result = append(result, *u)
	}
	return result, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context) (domain.UserCounts, error) {
	var counts domain.UserCounts
	for _, u := range f.users {
		counts.Total++
		switch u.Role {
		case domain.RoleStaff:
			counts.Staff++
		case domain.RoleCitizen:
			counts.Citizens++
		}
	}
	return counts, nil
}

func (f *fakeUserRepo) CountStaffByDepartment(ctx context.Context) (map[domain.Category]int, error) {
	counts := make(map[domain.Category]int)
	for _, u := range f.users {
		if u.Role == domain.RoleStaff && u.Department != nil {
			counts[*u.Department]++
		}
	}
	return counts, nil
}

func (f *fakeUserRepo) ReconcileResolvedCounts(ctx context.Context) (int64, error) {
	f.reconcileCalls++
	return f.reconcileResult, f.reconcileErr
}

// fakeObjectStore records uploads without touching the network.
type fakeObjectStore struct {
	uploads  []string
	failWith error
}

func (f *fakeObjectStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploads = append(f.uploads, key)
	return fmt.Sprintf("https://storage.googleapis.com/test-bucket/%s", key), nil
}

func (f *fakeObjectStore) Close() error { return nil }

// fakeDispatcher records published events.
type fakeDispatcher struct {
	published []events.Event
}

func (f *fakeDispatcher) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (f *fakeDispatcher) lastType() events.EventType {
	if len(f.published) == 0 {
		return ""
	}
	return f.published[len(f.published)-1].Type
}
