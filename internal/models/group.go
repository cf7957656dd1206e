package models

import "time"

// DateLayout is the wire and storage format for group validity dates.
// Dates are kept as ISO day strings so they compare correctly both in SQL
// and in Go without time-of-day or timezone noise.
const DateLayout = "2006-01-02"

// Group represents a teacher-managed cohort of students with a validity
// window that gates wordle access
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	InitDate  string    `json:"initDate"`
	EndDate   *string   `json:"endDate"`
	TeacherID int64     `json:"teacherId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActiveOn reports whether the group is active on the given day.
// A nil end date means the group is open-ended.
func (g *Group) IsActiveOn(day string) bool {
	if g.InitDate > day {
		return false
	}
	return g.EndDate == nil || *g.EndDate >= day
}

// IsActive reports whether the group is active today
func (g *Group) IsActive() bool {
	return g.IsActiveOn(Today())
}

// Today returns the current day in DateLayout
func Today() string {
	return time.Now().Format(DateLayout)
}

// GroupWithStatus decorates a group with its derived active flag for API responses
type GroupWithStatus struct {
	Group
	IsActive bool `json:"isActive"`
}

// GroupDetail combines a group with its members and accessible wordles
type GroupDetail struct {
	Group
	IsActive bool            `json:"isActive"`
	Students []User          `json:"students"`
	Wordles  []WordleSummary `json:"wordles"`
}

// GroupFilters narrows teacher group listings
type GroupFilters struct {
	Status        string // "active", "inactive" or ""
	StartDateFrom string
	StartDateTo   string
	EndDateFrom   string
	EndDateTo     string
}
