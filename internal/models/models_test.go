package models

import "testing"

func strPtr(s string) *string { return &s }

func TestGroupIsActiveOn(t *testing.T) {
	tests := []struct {
		name     string
		initDate string
		endDate  *string
		day      string
		expected bool
	}{
		{
			name:     "open ended group after start",
			initDate: "2025-01-01",
			endDate:  nil,
			day:      "2025-06-01",
			expected: true,
		},
		{
			name:     "before start date",
			initDate: "2025-01-01",
			endDate:  nil,
			day:      "2024-12-31",
			expected: false,
		},
		{
			name:     "starts today",
			initDate: "2025-06-01",
			endDate:  nil,
			day:      "2025-06-01",
			expected: true,
		},
		{
			name:     "ends today",
			initDate: "2025-01-01",
			endDate:  strPtr("2025-06-01"),
			day:      "2025-06-01",
			expected: true,
		},
		{
			name:     "ended yesterday",
			initDate: "2025-01-01",
			endDate:  strPtr("2025-05-31"),
			day:      "2025-06-01",
			expected: false,
		},
		{
			name:     "within window",
			initDate: "2025-01-01",
			endDate:  strPtr("2025-12-31"),
			day:      "2025-06-01",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := &Group{InitDate: tt.initDate, EndDate: tt.endDate}
			if got := group.IsActiveOn(tt.day); got != tt.expected {
				t.Errorf("IsActiveOn(%s) = %v, want %v", tt.day, got, tt.expected)
			}
		})
	}
}

func TestUserRoleHelpers(t *testing.T) {
	teacher := &User{Role: RoleTeacher}
	if !teacher.IsTeacher() || teacher.IsStudent() {
		t.Error("teacher role helpers disagree")
	}

	student := &User{Role: RoleStudent}
	if !student.IsStudent() || student.IsTeacher() {
		t.Error("student role helpers disagree")
	}
}

func TestTodayUsesDateLayout(t *testing.T) {
	today := Today()
	if len(today) != 10 || today[4] != '-' || today[7] != '-' {
		t.Errorf("Today() = %q, want YYYY-MM-DD", today)
	}
}
