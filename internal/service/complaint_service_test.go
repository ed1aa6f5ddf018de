package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/events"
	"github.com/citisolve/complaint-service/internal/session"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

func newComplaintFixture() (*ComplaintService, *fakeComplaintRepo, *fakeUserRepo, *fakeObjectStore, *fakeDispatcher) {
	complaints := newFakeComplaintRepo()
	users := newFakeUserRepo()
	objects := &fakeObjectStore{}
	dispatcher := &fakeDispatcher{}
	svc := NewComplaintService(complaints, users, objects, dispatcher, zap.NewNop())
	return svc, complaints, users, objects, dispatcher
}

func citizenPrincipal(id string) *session.Principal {
	ward := "ward-7"
	return &session.Principal{
		UserID:   id,
		Role:     domain.RoleCitizen,
		Email:    id + "@example.com",
		FullName: "Citizen " + id,
		Ward:     &ward,
	}
}

func staffPrincipal(id string, dept domain.Category) *session.Principal {
	return &session.Principal{
		UserID:     id,
		Role:       domain.RoleStaff,
		Email:      id + "@example.com",
		FullName:   "Staff " + id,
		Department: &dept,
	}
}

func adminPrincipal(id string) *session.Principal {
	return &session.Principal{
		UserID:   id,
		Role:     domain.RoleAdmin,
		Email:    id + "@example.com",
		FullName: "Admin " + id,
	}
}

func validSubmission() ComplaintCreateInput {
	return ComplaintCreateInput{
		Title:       "Broken streetlight",
		Category:    "power",
		Location:    "5th and Main",
		Description: "The light has been out for a week",
		Image: &ImageUpload{
			Filename:    "light.jpg",
			ContentType: "image/jpeg",
			Body:        strings.NewReader("jpegdata"),
		},
	}
}

func TestCreateDefaultsToPendingAndMediumPriority(t *testing.T) {
	svc, _, _, objects, dispatcher := newComplaintFixture()

	complaint, err := svc.Create(context.Background(), citizenPrincipal("u-1"), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, complaint.Status)
	assert.Equal(t, domain.PriorityMedium, complaint.Priority)
	assert.Contains(t, complaint.ImageURL, "https://storage.googleapis.com/test-bucket/complaints/")
	assert.Len(t, objects.uploads, 1)
	assert.Equal(t, events.EventComplaintCreated, dispatcher.lastType())
}

func TestCreateWithoutImageIsRejectedBeforeUpload(t *testing.T) {
	svc, complaints, _, objects, _ := newComplaintFixture()

	input := validSubmission()
	input.Image = nil
	_, err := svc.Create(context.Background(), citizenPrincipal("u-1"), input)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, objects.uploads)
	assert.Empty(t, complaints.complaints)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _, _, objects, _ := newComplaintFixture()

	input := validSubmission()
	input.Category = "plumbing"
	_, err := svc.Create(context.Background(), citizenPrincipal("u-1"), input)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, objects.uploads)
}

func seedComplaint(t *testing.T, svc *ComplaintService, owner *session.Principal, category string) *domain.Complaint {
	t.Helper()
	input := validSubmission()
	input.Category = category
	complaint, err := svc.Create(context.Background(), owner, input)
	require.NoError(t, err)
	return complaint
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")

	_, err := svc.UpdateStatus(context.Background(), staffPrincipal("s-1", domain.CategoryPower), complaint.ID, "closed")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	assert.Zero(t, complaints.setStatusCalls)
}

func TestUpdateStatusUnknownComplaintIsNotFound(t *testing.T) {
	svc, _, _, _, _ := newComplaintFixture()

	_, err := svc.UpdateStatus(context.Background(), staffPrincipal("s-1", domain.CategoryPower), "missing", "progress")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestStaffCannotTouchOtherDepartment(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "roads")

	_, err := svc.UpdateStatus(context.Background(), staffPrincipal("s-1", domain.CategoryWater), complaint.ID, "resolved")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	stored, getErr := complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Zero(t, complaints.resolveCalls)
	assert.Zero(t, complaints.setStatusCalls)
}

func TestResolveIncrementsResolverCount(t *testing.T) {
	svc, complaints, _, _, dispatcher := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")
	resolver := staffPrincipal("s-1", domain.CategoryPower)

	updated, err := svc.UpdateStatus(context.Background(), resolver, complaint.ID, "resolved")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedByID)
	assert.Equal(t, "s-1", *updated.ResolvedByID)
	assert.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, 1, complaints.resolvedCounts["s-1"])
	assert.Equal(t, 1, complaints.resolveCalls)
	assert.Equal(t, events.EventComplaintStatusChanged, dispatcher.lastType())
}

func TestUnresolveDecrementsPriorResolver(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")
	resolver := staffPrincipal("s-1", domain.CategoryPower)

	_, err := svc.UpdateStatus(context.Background(), resolver, complaint.ID, "resolved")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), resolver, complaint.ID, "progress")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProgress, updated.Status)
	assert.Nil(t, updated.ResolvedByID)
	assert.Nil(t, updated.ResolvedAt)
	assert.Equal(t, 0, complaints.resolvedCounts["s-1"])
	assert.Equal(t, 1, complaints.unresolveCalls)
}

func TestSameStatusIsNoOp(t *testing.T) {
	svc, complaints, _, _, dispatcher := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")
	before := len(dispatcher.published)

	_, err := svc.UpdateStatus(context.Background(), staffPrincipal("s-1", domain.CategoryPower), complaint.ID, "pending")
	require.NoError(t, err)

	assert.Zero(t, complaints.setStatusCalls)
	assert.Len(t, dispatcher.published, before)
}

func TestAllocateMovesToProgress(t *testing.T) {
	svc, _, users, _, dispatcher := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "water")
	dept := domain.CategoryWater
	staff := users.add(domain.User{ID: "s-9", FullName: "Dana Fields", Role: domain.RoleStaff, Department: &dept})

	updated, err := svc.Allocate(context.Background(), adminPrincipal("a-1"), complaint.ID, staff.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProgress, updated.Status)
	require.NotNil(t, updated.AssignedToID)
	assert.Equal(t, "s-9", *updated.AssignedToID)
	assert.Equal(t, "Dana Fields", *updated.AssignedToName)
	assert.Equal(t, events.EventComplaintAllocated, dispatcher.lastType())
}

func TestAllocateResolvedComplaintIsRejected(t *testing.T) {
	svc, complaints, users, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "water")
	dept := domain.CategoryWater
	staff := users.add(domain.User{ID: "s-9", Role: domain.RoleStaff, Department: &dept})

	_, err := svc.UpdateStatus(context.Background(), staffPrincipal("s-1", dept), complaint.ID, "resolved")
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), adminPrincipal("a-1"), complaint.ID, staff.ID)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALLOCATION_INVALID", domainErr.Code)
	assert.Zero(t, complaints.allocateCalls)
}

func TestAllocateAcrossDepartmentsIsRejected(t *testing.T) {
	svc, complaints, users, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "water")
	dept := domain.CategoryRoads
	staff := users.add(domain.User{ID: "s-9", Role: domain.RoleStaff, Department: &dept})

	_, err := svc.Allocate(context.Background(), adminPrincipal("a-1"), complaint.ID, staff.ID)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALLOCATION_INVALID", domainErr.Code)
	assert.Zero(t, complaints.allocateCalls)
}

func TestDeleteResolvedComplaintDecrementsCounter(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	owner := citizenPrincipal("u-1")
	complaint := seedComplaint(t, svc, owner, "power")
	resolver := staffPrincipal("s-1", domain.CategoryPower)

	_, err := svc.UpdateStatus(context.Background(), resolver, complaint.ID, "resolved")
	require.NoError(t, err)
	require.Equal(t, 1, complaints.resolvedCounts["s-1"])

	err = svc.Delete(context.Background(), owner, complaint.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, complaints.resolvedCounts["s-1"])
	assert.Empty(t, complaints.complaints)
}

func TestDeleteByStrangerIsForbidden(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")

	err := svc.Delete(context.Background(), citizenPrincipal("u-2"), complaint.ID)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Len(t, complaints.complaints, 1)
}

func TestAdminCanDeleteAnyComplaint(t *testing.T) {
	svc, complaints, _, _, dispatcher := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")

	err := svc.Delete(context.Background(), adminPrincipal("a-1"), complaint.ID)
	require.NoError(t, err)

	assert.Empty(t, complaints.complaints)
	assert.Equal(t, events.EventComplaintDeleted, dispatcher.lastType())
}

func TestAdminEditAppliesResolveSemantics(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "roads")
	admin := adminPrincipal("a-1")

	updated, err := svc.AdminEdit(context.Background(), admin, complaint.ID, ComplaintEditInput{
		Priority: "high",
		Status:   "resolved",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, domain.StatusResolved, updated.Status)
	assert.Equal(t, 1, complaints.resolvedCounts["a-1"])
}

func TestAdminEditUnknownStatusLeavesComplaintUntouched(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaint := seedComplaint(t, svc, citizenPrincipal("u-1"), "power")

	_, err := svc.AdminEdit(context.Background(), adminPrincipal("a-1"), complaint.ID, ComplaintEditInput{
		Title:    "Edited title",
		Priority: "high",
		Status:   "bogus",
	})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)

	stored, getErr := complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Broken streetlight", stored.Title)
	assert.Equal(t, domain.PriorityMedium, stored.Priority)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestCreateUploadFailureSurfacesAsPersistence(t *testing.T) {
	svc, complaints, _, objects, _ := newComplaintFixture()
	objects.failWith = errors.New("bucket unavailable")

	_, err := svc.Create(context.Background(), citizenPrincipal("u-1"), validSubmission())

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERSISTENCE_ERROR", domainErr.Code)
	assert.Empty(t, complaints.complaints)
}
