package domain

import "math"

// StatusCounts is a complaint tally broken down by lifecycle state.
type StatusCounts struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

// CategoryCounts is a complaint tally broken down by category.
type CategoryCounts struct {
	Roads      int
	Water      int
	Power      int
	Sanitation int
	Other      int
}

// ByCategory returns the tally for a single category.
func (c CategoryCounts) ByCategory(cat Category) int {
	switch cat {
	case CategoryRoads:
		return c.Roads
	case CategoryWater:
		return c.Water
	case CategoryPower:
		return c.Power
	case CategorySanitation:
		return c.Sanitation
	case CategoryOther:
		return c.Other
	}
	return 0
}

// ComplaintStats combines both breakdowns for a scope (one user, one
// department, or global).
type ComplaintStats struct {
	StatusCounts
	CategoryCounts
}

// DepartmentStats is one row of the admin departments view.
type DepartmentStats struct {
	TotalStaff      int
	TotalComplaints int
	Pending         int
	InProgress      int
	Resolved        int
	ResolutionRate  int
}

// ResolutionRate is the resolved share as a rounded percentage,
// defined as 0 when total is 0.
func ResolutionRate(resolved, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(resolved) / float64(total) * 100))
}
