package events

import (
	"time"

	"github.com/citisolve/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAllocated     EventType = "complaint_allocated"
	EventComplaintDeleted       EventType = "complaint_deleted"
	EventSupportMessageReceived EventType = "support_message_received"
)

// Actor identifies who triggered the event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Category domain.Category `json:"category"`
	Priority domain.Priority `json:"priority"`
	Title    string          `json:"title"`
	Location string          `json:"location"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// ComplaintAllocatedPayload payload.
type ComplaintAllocatedPayload struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	WasResolved bool `json:"was_resolved"`
}

// SupportMessageReceivedPayload payload.
type SupportMessageReceivedPayload struct {
	MessageID string `json:"message_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
