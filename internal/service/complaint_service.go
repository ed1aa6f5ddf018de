package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/events"
	"github.com/citisolve/complaint-service/internal/repository"
	"github.com/citisolve/complaint-service/internal/session"
	"github.com/citisolve/complaint-service/internal/storage"
	apperrors "github.com/citisolve/complaint-service/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle: submission with
// photo upload, status transitions with their resolved-count side effects,
// allocation, admin edits and deletion. All status transitions funnel
// through applyStatusChange so the counter rules live in exactly one place.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      UserRepositoryPort
	objects    storage.ObjectStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	users UserRepositoryPort,
	objects storage.ObjectStore,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
		objects:    objects,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ImageUpload is the photo attached to a new complaint.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ComplaintCreateInput is the submission form.
type ComplaintCreateInput struct {
	Title       string
	Category    string
	Location    string
	Description string
	Priority    string
	Image       *ImageUpload
}

// Create validates the submission, uploads the photo, and persists the
// complaint in pending state. The upload happens only after validation
// passes so a rejected form never leaves an orphan object behind.
func (s *ComplaintService) Create(ctx context.Context, principal *session.Principal, input ComplaintCreateInput) (*domain.Complaint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)

	details := map[string]any{}
	if input.Title == "" {
		details["title"] = "required"
	}
	if !domain.ValidCategory(domain.Category(input.Category)) {
		details["category"] = "must be a known category"
	}
	if input.Location == "" {
		details["location"] = "required"
	}
	if input.Description == "" {
		details["description"] = "required"
	}
	if input.Image == nil {
		details["image"] = "a photo of the issue is required"
	}
	priority := domain.Priority(input.Priority)
	if input.Priority == "" {
		priority = domain.PriorityMedium
	} else if !domain.ValidPriority(priority) {
		details["priority"] = "must be low, medium or high"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("complaint validation failed", details)
	}

	key := "complaints/" + uuid.NewString() + strings.ToLower(path.Ext(input.Image.Filename))
	imageURL, err := s.objects.Upload(ctx, key, input.Image.ContentType, input.Image.Body)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	complaint := &domain.Complaint{
		UserID:      principal.UserID,
		UserEmail:   principal.Email,
		Title:       input.Title,
		Category:    domain.Category(input.Category),
		Location:    input.Location,
		Description: input.Description,
		Priority:    priority,
		Status:      domain.StatusPending,
		ImageURL:    imageURL,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorFrom(principal),
		Timestamp:   time.Now().UTC(),
		Payload: events.ComplaintCreatedPayload{
			Category: complaint.Category,
			Priority: complaint.Priority,
			Title:    complaint.Title,
			Location: complaint.Location,
		},
	})
	return complaint, nil
}

// Get loads a single complaint, scoped to the caller: citizens see only
// their own, staff only their department, admins everything.
func (s *ComplaintService) Get(ctx context.Context, principal *session.Principal, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapComplaintLookup(err)
	}
	if err := s.checkScope(principal, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ListForUser returns a citizen's own complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	list, err := s.complaints.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// ListForDepartment returns the queue for one department.
func (s *ComplaintService) ListForDepartment(ctx context.Context, category domain.Category) ([]domain.Complaint, error) {
	list, err := s.complaints.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// ListUnallocated returns complaints still waiting for an assignment.
func (s *ComplaintService) ListUnallocated(ctx context.Context) ([]domain.Complaint, error) {
	list, err := s.complaints.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// ListAll returns every complaint, newest first.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	list, err := s.complaints.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// UpdateStatus applies a staff or admin status transition. Staff may only
// touch complaints in their own department; that check runs before any
// write so a forbidden request leaves no partial mutation.
func (s *ComplaintService) UpdateStatus(ctx context.Context, principal *session.Principal, id, newStatus string) (*domain.Complaint, error) {
	status := domain.Status(newStatus)
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewInvalidStatus(newStatus)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapComplaintLookup(err)
	}
	if err := s.checkScope(principal, complaint); err != nil {
		return nil, err
	}

	if err := s.applyStatusChange(ctx, principal, complaint, status); err != nil {
		return nil, err
	}
	return complaint, nil
}

// applyStatusChange routes a transition to the repository method that
// carries its counter side effect. Entering resolved increments the actor's
// resolved count; leaving resolved decrements the recorded resolver's. Both
// run inside the repository transaction. Same-status requests are no-ops.
func (s *ComplaintService) applyStatusChange(ctx context.Context, principal *session.Principal, complaint *domain.Complaint, newStatus domain.Status) error {
	oldStatus := complaint.Status
	if oldStatus == newStatus {
		return nil
	}

	now := time.Now().UTC()
	switch {
	case newStatus == domain.StatusResolved:
		if err := s.complaints.Resolve(ctx, complaint.ID, principal.UserID, principal.FullName, now); err != nil {
			return mapComplaintLookup(err)
		}
		complaint.ResolvedByID = &principal.UserID
		complaint.ResolvedByName = &principal.FullName
		complaint.ResolvedAt = &now
	case oldStatus == domain.StatusResolved:
		priorResolver := ""
		if complaint.ResolvedByID != nil {
			priorResolver = *complaint.ResolvedByID
		}
		if err := s.complaints.Unresolve(ctx, complaint.ID, newStatus, priorResolver); err != nil {
			return mapComplaintLookup(err)
		}
		complaint.ResolvedByID = nil
		complaint.ResolvedByName = nil
		complaint.ResolvedAt = nil
	default:
		if err := s.complaints.SetStatus(ctx, complaint.ID, newStatus); err != nil {
			return mapComplaintLookup(err)
		}
	}
	complaint.Status = newStatus

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       actorFrom(principal),
		Timestamp:   now,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return nil
}

// Allocate assigns a pending or in-progress complaint to a staff member in
// the matching department and moves it to progress. Resolved complaints can
// no longer be allocated.
func (s *ComplaintService) Allocate(ctx context.Context, principal *session.Principal, complaintID, staffID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintLookup(err)
	}
	if complaint.Resolved() {
		return nil, apperrors.NewAllocationInvalid("complaint is already resolved",
			map[string]any{"complaint_id": complaintID})
	}

	staff, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		return nil, mapUserLookup(err)
	}
	if staff.Role != domain.RoleStaff {
		return nil, apperrors.NewAllocationInvalid("assignee is not a staff member",
			map[string]any{"staff_id": staffID})
	}
	if staff.Department == nil || *staff.Department != complaint.Category {
		return nil, apperrors.NewAllocationInvalid("staff member belongs to a different department",
			map[string]any{"staff_id": staffID, "category": string(complaint.Category)})
	}

	if err := s.complaints.Allocate(ctx, complaintID, staff.ID, staff.FullName); err != nil {
		return nil, mapComplaintLookup(err)
	}
	complaint.AssignedToID = &staff.ID
	complaint.AssignedToName = &staff.FullName
	complaint.Status = domain.StatusProgress

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintAllocated,
		ComplaintID: complaint.ID,
		Actor:       actorFrom(principal),
		Timestamp:   time.Now().UTC(),
		Payload: events.ComplaintAllocatedPayload{
			StaffID:   staff.ID,
			StaffName: staff.FullName,
		},
	})
	return complaint, nil
}

// ComplaintEditInput is an admin edit. Empty fields are left unchanged.
type ComplaintEditInput struct {
	Title       string
	Category    string
	Location    string
	Description string
	Priority    string
	Status      string
}

// AdminEdit rewrites a complaint's descriptive fields and optionally applies
// a status transition, with the same counter semantics as UpdateStatus.
// Every field, status included, is validated before the first write so a
// rejected edit leaves no partial mutation behind.
func (s *ComplaintService) AdminEdit(ctx context.Context, principal *session.Principal, id string, input ComplaintEditInput) (*domain.Complaint, error) {
	status := domain.Status(input.Status)
	if input.Status != "" && !domain.ValidStatus(status) {
		return nil, apperrors.NewInvalidStatus(input.Status)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapComplaintLookup(err)
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		complaint.Title = title
	}
	if input.Category != "" {
		category := domain.Category(input.Category)
		if !domain.ValidCategory(category) {
			return nil, apperrors.NewValidationError("unknown category",
				map[string]any{"category": input.Category})
		}
		complaint.Category = category
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		complaint.Location = location
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		complaint.Description = description
	}
	if input.Priority != "" {
		priority := domain.Priority(input.Priority)
		if !domain.ValidPriority(priority) {
			return nil, apperrors.NewValidationError("unknown priority",
				map[string]any{"priority": input.Priority})
		}
		complaint.Priority = priority
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, mapComplaintLookup(err)
	}

	if input.Status != "" {
		if err := s.applyStatusChange(ctx, principal, complaint, status); err != nil {
			return nil, err
		}
	}
	return complaint, nil
}

// Delete removes a complaint. Citizens may delete only their own; the
// counter adjustment for resolved complaints happens inside the repository
// transaction.
func (s *ComplaintService) Delete(ctx context.Context, principal *session.Principal, id string) error {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return mapComplaintLookup(err)
	}
	if principal.Role != domain.RoleAdmin && complaint.UserID != principal.UserID {
		return apperrors.NewForbidden("you may only delete your own complaints")
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return mapComplaintLookup(err)
	}

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintDeleted,
		ComplaintID: id,
		Actor:       actorFrom(principal),
		Timestamp:   time.Now().UTC(),
		Payload: events.ComplaintDeletedPayload{
			WasResolved: complaint.Resolved(),
		},
	})
	return nil
}

// checkScope verifies a concrete complaint is within the caller's reach.
func (s *ComplaintService) checkScope(principal *session.Principal, complaint *domain.Complaint) error {
	switch principal.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleStaff:
		if principal.Department == nil || *principal.Department != complaint.Category {
			return apperrors.NewForbidden("complaint belongs to another department")
		}
		return nil
	default:
		if complaint.UserID != principal.UserID {
			return apperrors.NewForbidden("complaint belongs to another user")
		}
		return nil
	}
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorFrom(principal *session.Principal) events.Actor {
	return events.Actor{UserID: principal.UserID, Role: principal.Role}
}

func mapComplaintLookup(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("complaint", nil)
	}
	return apperrors.NewPersistenceError(err)
}
