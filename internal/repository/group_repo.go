package repository

import (
	"database/sql"
	"fmt"
	"time"

	"eduwordle/internal/database"
	"eduwordle/internal/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Insert persists a new group row
func (r *GroupRepository) Insert(q database.DBTX, group *models.Group) error {
	query := `
		INSERT INTO class_groups (name, init_date, end_date, teacher_id)
		VALUES (?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(query, group.Name, group.InitDate, group.EndDate, group.TeacherID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	group.ID = id
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()
	return nil
}

// GetOwned retrieves a group only when it belongs to the given teacher.
// Returns nil both for a missing group and for one owned by someone else,
// so callers cannot distinguish the two.
func (r *GroupRepository) GetOwned(q database.DBTX, groupID, teacherID int64) (*models.Group, error) {
	query := `
		SELECT id, name, init_date, end_date, teacher_id, created_at, updated_at
		FROM class_groups
		WHERE id = ? AND teacher_id = ?
	`
	return scanGroup(q.QueryRow(query, groupID, teacherID))
}

// GetByID retrieves a group by ID, or nil when absent
func (r *GroupRepository) GetByID(q database.DBTX, groupID int64) (*models.Group, error) {
	query := `
		SELECT id, name, init_date, end_date, teacher_id, created_at, updated_at
		FROM class_groups
		WHERE id = ?
	`
	return scanGroup(q.QueryRow(query, groupID))
}

// NameExists reports whether the teacher already has another group with the
// given name. excludeID skips the group being updated.
func (r *GroupRepository) NameExists(q database.DBTX, teacherID int64, name string, excludeID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM class_groups WHERE teacher_id = ? AND name = ? AND id != ?"
	var count int
	if err := q.QueryRow(query, teacherID, name, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check group name: %w", err)
	}
	return count > 0, nil
}

// Update rewrites a group's mutable fields
func (r *GroupRepository) Update(q database.DBTX, group *models.Group) error {
	query := `
		UPDATE class_groups
		SET name = ?, init_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := q.Exec(query, group.Name, group.InitDate, group.EndDate, group.ID); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// Delete removes a group; membership rows cascade
func (r *GroupRepository) Delete(q database.DBTX, groupID int64) error {
	if _, err := q.Exec("DELETE FROM class_groups WHERE id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// ListByTeacher retrieves all groups owned by a teacher, narrowed by filters.
// The active/inactive status filter is evaluated against the given day.
func (r *GroupRepository) ListByTeacher(teacherID int64, filters models.GroupFilters, today string) ([]models.Group, error) {
	query := `
		SELECT id, name, init_date, end_date, teacher_id, created_at, updated_at
		FROM class_groups
		WHERE teacher_id = ?
	`
	args := []interface{}{teacherID}

	switch filters.Status {
	case "active":
		query += " AND init_date <= ? AND (end_date IS NULL OR end_date >= ?)"
		args = append(args, today, today)
	case "inactive":
		query += " AND (init_date > ? OR (end_date IS NOT NULL AND end_date < ?))"
		args = append(args, today, today)
	}
	if filters.StartDateFrom != "" {
		query += " AND init_date >= ?"
		args = append(args, filters.StartDateFrom)
	}
	if filters.StartDateTo != "" {
		query += " AND init_date <= ?"
		args = append(args, filters.StartDateTo)
	}
	if filters.EndDateFrom != "" {
		query += " AND end_date IS NOT NULL AND end_date >= ?"
		args = append(args, filters.EndDateFrom)
	}
	if filters.EndDateTo != "" {
		query += " AND end_date IS NOT NULL AND end_date <= ?"
		args = append(args, filters.EndDateTo)
	}
	query += " ORDER BY init_date DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	return collectGroups(rows)
}

// MemberIDs returns the student ids currently linked to a group
func (r *GroupRepository) MemberIDs(q database.DBTX, groupID int64) ([]int64, error) {
	rows, err := q.Query("SELECT user_id FROM student_groups WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Members returns the student users currently linked to a group
func (r *GroupRepository) Members(q database.DBTX, groupID int64) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role
		FROM users u
		INNER JOIN student_groups sg ON sg.user_id = u.id
		WHERE sg.group_id = ?
		ORDER BY u.name ASC
	`
	rows, err := q.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	group := &models.Group{}
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.InitDate,
		&group.EndDate,
		&group.TeacherID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

func collectGroups(rows *sql.Rows) ([]models.Group, error) {
	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.InitDate,
			&group.EndDate,
			&group.TeacherID,
			&group.CreatedAt,
			&group.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}
