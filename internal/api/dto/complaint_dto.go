package dto

import "time"

// ComplaintResponse is the wire shape of a complaint.
type ComplaintResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userid"`
	UserEmail      string     `json:"useremail"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	ImageURL       string     `json:"imageurl"`
	AssignedToID   *string    `json:"assignedtoid,omitempty"`
	AssignedToName *string    `json:"assignedtoname,omitempty"`
	ResolvedByID   *string    `json:"resolvedby_id,omitempty"`
	ResolvedByName *string    `json:"resolvedby_name,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedat,omitempty"`
	CreatedAt      time.Time  `json:"createdat"`
}

// StatusUpdateRequest payload for staff status transitions.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// ComplaintDeleteRequest payload.
type ComplaintDeleteRequest struct {
	ID string `json:"id"`
}

// AllocationRequest payload for assigning a complaint to a staff member.
type AllocationRequest struct {
	ComplaintID string `json:"complaintid"`
	StaffID     string `json:"staffid"`
}

// ComplaintEditRequest is the admin edit. Empty fields stay unchanged.
type ComplaintEditRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// UserDashboardResponse is the citizen landing view.
type UserDashboardResponse struct {
	TotalComplaints int                 `json:"totalcomplaints"`
	Pending         int                 `json:"pending"`
	InProgress      int                 `json:"inprogress"`
	Resolved        int                 `json:"resolved"`
	Roads           int                 `json:"roads"`
	Water           int                 `json:"water"`
	Power           int                 `json:"power"`
	Sanitation      int                 `json:"sanitation"`
	Other           int                 `json:"other"`
	Complaints      []ComplaintResponse `json:"complaints"`
}

// DepartmentQueueResponse is the staff landing view.
type DepartmentQueueResponse struct {
	Department      string              `json:"department"`
	TotalComplaints int                 `json:"totalcomplaints"`
	Pending         int                 `json:"pending"`
	InProgress      int                 `json:"inprogress"`
	Resolved        int                 `json:"resolved"`
	Complaints      []ComplaintResponse `json:"complaints"`
}
