package dto

import "time"

// AdminOverviewResponse is the admin dashboard.
type AdminOverviewResponse struct {
	TotalComplaints  int                 `json:"totalcomplaints"`
	Pending          int                 `json:"pending"`
	InProgress       int                 `json:"inprogress"`
	Resolved         int                 `json:"resolved"`
	Roads            int                 `json:"roads"`
	Water            int                 `json:"water"`
	Power            int                 `json:"power"`
	Sanitation       int                 `json:"sanitation"`
	Other            int                 `json:"other"`
	TotalUsers       int                 `json:"totalusers"`
	TotalStaff       int                 `json:"totalstaff"`
	TotalCitizens    int                 `json:"totalcitizens"`
	TotalDepartments int                 `json:"totaldepartments"`
	Complaints       []ComplaintResponse `json:"complaints"`
}

// AllocationViewResponse backs the allocation page: unassigned complaints
// next to the staff available to take them.
type AllocationViewResponse struct {
	Complaints []ComplaintResponse   `json:"complaints"`
	Staff      []StaffMemberResponse `json:"staff"`
}

// DepartmentResponse is one row of the departments table.
type DepartmentResponse struct {
	Department      string `json:"department"`
	TotalStaff      int    `json:"totalstaff"`
	TotalComplaints int    `json:"totalcomplaints"`
	Pending         int    `json:"pending"`
	InProgress      int    `json:"inprogress"`
	Resolved        int    `json:"resolved"`
	ResolutionRate  int    `json:"resolutionrate"`
}

// StaffMemberResponse is one row of the staff directory.
type StaffMemberResponse struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullname"`
	Email             string    `json:"email"`
	Department        *string   `json:"department,omitempty"`
	ResolvedCount     int       `json:"resolvedcount"`
	ActiveAssignments int       `json:"activecomplaints"`
	CreatedAt         time.Time `json:"createdat"`
}

// AdminUserEditRequest is the admin account edit. Empty fields stay
// unchanged; a role change must supply the field the new role requires.
type AdminUserEditRequest struct {
	ID         string `json:"id"`
	FullName   string `json:"fullname"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Ward       string `json:"ward"`
	Department string `json:"department"`
}

// AdminUserDeleteRequest payload.
type AdminUserDeleteRequest struct {
	ID string `json:"id"`
}
