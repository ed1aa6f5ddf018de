package handlers

import (
	"github.com/citisolve/complaint-service/internal/api/dto"
	"github.com/citisolve/complaint-service/internal/domain"
	"github.com/citisolve/complaint-service/internal/service"
)

func userResponse(user *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Role:          string(user.Role),
		Ward:          user.Ward,
		ResolvedCount: user.ResolvedCount,
		CreatedAt:     user.CreatedAt,
	}
	if user.Department != nil {
		dept := string(*user.Department)
		resp.Department = &dept
	}
	return resp
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:             complaint.ID,
		UserID:         complaint.UserID,
		UserEmail:      complaint.UserEmail,
		Title:          complaint.Title,
		Category:       string(complaint.Category),
		Location:       complaint.Location,
		Description:    complaint.Description,
		Priority:       string(complaint.Priority),
		Status:         string(complaint.Status),
		ImageURL:       complaint.ImageURL,
		AssignedToID:   complaint.AssignedToID,
		AssignedToName: complaint.AssignedToName,
		ResolvedByID:   complaint.ResolvedByID,
		ResolvedByName: complaint.ResolvedByName,
		ResolvedAt:     complaint.ResolvedAt,
		CreatedAt:      complaint.CreatedAt,
	}
}

func complaintList(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return items
}

func staffMemberResponse(member service.StaffMember) dto.StaffMemberResponse {
	resp := dto.StaffMemberResponse{
		ID:                member.User.ID,
		FullName:          member.User.FullName,
		Email:             member.User.Email,
		ResolvedCount:     member.User.ResolvedCount,
		ActiveAssignments: member.ActiveAssignments,
		CreatedAt:         member.User.CreatedAt,
	}
	if member.User.Department != nil {
		dept := string(*member.User.Department)
		resp.Department = &dept
	}
	return resp
}

func staffList(members []service.StaffMember) []dto.StaffMemberResponse {
	items := make([]dto.StaffMemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, staffMemberResponse(member))
	}
	return items
}
