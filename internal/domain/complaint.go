package domain

import "time"

// Category is the functional area a complaint belongs to. Staff members are
// attached to exactly one category, which acts as their department.
type Category string

const (
	CategoryRoads      Category = "roads"
	CategoryWater      Category = "water"
	CategoryPower      Category = "power"
	CategorySanitation Category = "sanitation"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryRoads, CategoryWater, CategoryPower, CategorySanitation, CategoryOther}
}

// ValidCategory reports whether the value is a known category.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Priority enumerates complaint urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status enumerates complaint lifecycle states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusProgress Status = "progress"
	StatusResolved Status = "resolved"
)

// ValidStatus reports whether the value is a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProgress, StatusResolved:
		return true
	}
	return false
}

// Complaint is the aggregate for citizen reports.
//
// Invariant: Status == StatusResolved exactly when ResolvedByID, ResolvedByName
// and ResolvedAt are all set. AssignedTo fields are set once an admin allocates
// the complaint to a staff member, which also moves it to progress.
// UserEmail, AssignedToName and ResolvedByName are snapshots: they survive
// deletion of the referenced account.
type Complaint struct {
	ID             string
	UserID         string
	UserEmail      string
	Title          string
	Category       Category
	Location       string
	Description    string
	Priority       Priority
	Status         Status
	ImageURL       string
	AssignedToID   *string
	AssignedToName *string
	ResolvedByID   *string
	ResolvedByName *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}

// Resolved reports whether the complaint is in the resolved state.
func (c *Complaint) Resolved() bool {
	return c.Status == StatusResolved
}
