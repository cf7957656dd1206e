package repository

import (
	"fmt"
	"strings"

	"eduwordle/internal/database"
	"eduwordle/internal/models"
)

// MembershipRepository maintains the student↔group and wordle↔group
// relations and answers the visibility queries derived from them.
type MembershipRepository struct {
	db *database.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// LinkStudents links students to a group. Pairs that already exist are
// skipped silently, so the call is idempotent.
func (r *MembershipRepository) LinkStudents(q database.DBTX, groupID int64, studentIDs []int64) error {
	if len(studentIDs) == 0 {
		return nil
	}
	query := q.GetDialect().InsertIgnoreQuery(
		"INSERT INTO student_groups (user_id, group_id) VALUES (?, ?)",
		"user_id, group_id",
	)
	for _, studentID := range studentIDs {
		if _, err := q.Exec(query, studentID, groupID); err != nil {
			return fmt.Errorf("failed to link student %d to group %d: %w", studentID, groupID, err)
		}
	}
	return nil
}

// UnlinkStudents removes students from a group; absent pairs are no-ops
func (r *MembershipRepository) UnlinkStudents(q database.DBTX, groupID int64, studentIDs []int64) error {
	if len(studentIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(
		"DELETE FROM student_groups WHERE group_id = ? AND user_id IN (%s)",
		placeholders(len(studentIDs)),
	)
	args := make([]interface{}, 0, len(studentIDs)+1)
	args = append(args, groupID)
	for _, id := range studentIDs {
		args = append(args, id)
	}
	if _, err := q.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to unlink students from group %d: %w", groupID, err)
	}
	return nil
}

// CurrentWordleIDs returns the wordle ids currently assigned to a group
func (r *MembershipRepository) CurrentWordleIDs(q database.DBTX, groupID int64) ([]int64, error) {
	rows, err := q.Query("SELECT wordle_id FROM wordle_groups WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group wordles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wordle id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SyncWordles reconciles a group's wordle assignments towards the desired
// set: rows not in desired are removed, missing ones are added. Added ids
// must reference wordles owned by the group's teacher.
func (r *MembershipRepository) SyncWordles(q database.DBTX, groupID, teacherID int64, desired []int64) error {
	current, err := r.CurrentWordleIDs(q, groupID)
	if err != nil {
		return err
	}

	toAdd, toRemove := setDiff(desired, current)

	if len(toRemove) > 0 {
		query := fmt.Sprintf(
			"DELETE FROM wordle_groups WHERE group_id = ? AND wordle_id IN (%s)",
			placeholders(len(toRemove)),
		)
		args := make([]interface{}, 0, len(toRemove)+1)
		args = append(args, groupID)
		for _, id := range toRemove {
			args = append(args, id)
		}
		if _, err := q.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to remove wordles from group %d: %w", groupID, err)
		}
	}

	if len(toAdd) > 0 {
		owned, err := ownedWordleIDs(q, teacherID, toAdd)
		if err != nil {
			return err
		}
		if len(owned) != len(toAdd) {
			var invalid []string
			for _, id := range toAdd {
				if !owned[id] {
					invalid = append(invalid, fmt.Sprintf("%d", id))
				}
			}
			return fmt.Errorf("%w: %s", ErrRelatedNotFound, strings.Join(invalid, ", "))
		}

		query := q.GetDialect().InsertIgnoreQuery(
			"INSERT INTO wordle_groups (wordle_id, group_id) VALUES (?, ?)",
			"wordle_id, group_id",
		)
		for _, id := range toAdd {
			if _, err := q.Exec(query, id, groupID); err != nil {
				return fmt.Errorf("failed to assign wordle %d to group %d: %w", id, groupID, err)
			}
		}
	}

	return nil
}

// SyncGroups is the wordle-side mirror of SyncWordles: it reconciles the
// groups a single wordle is assigned to. Added group ids must belong to the
// wordle's teacher.
func (r *MembershipRepository) SyncGroups(q database.DBTX, wordleID, teacherID int64, desired []int64) error {
	rows, err := q.Query("SELECT group_id FROM wordle_groups WHERE wordle_id = ?", wordleID)
	if err != nil {
		return fmt.Errorf("failed to query wordle groups: %w", err)
	}
	var current []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan group id: %w", err)
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	toAdd, toRemove := setDiff(desired, current)

	if len(toRemove) > 0 {
		query := fmt.Sprintf(
			"DELETE FROM wordle_groups WHERE wordle_id = ? AND group_id IN (%s)",
			placeholders(len(toRemove)),
		)
		args := make([]interface{}, 0, len(toRemove)+1)
		args = append(args, wordleID)
		for _, id := range toRemove {
			args = append(args, id)
		}
		if _, err := q.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to remove wordle %d from groups: %w", wordleID, err)
		}
	}

	if len(toAdd) > 0 {
		owned, err := ownedGroupIDs(q, teacherID, toAdd)
		if err != nil {
			return err
		}
		if len(owned) != len(toAdd) {
			var invalid []string
			for _, id := range toAdd {
				if !owned[id] {
					invalid = append(invalid, fmt.Sprintf("%d", id))
				}
			}
			return fmt.Errorf("%w: %s", ErrRelatedNotFound, strings.Join(invalid, ", "))
		}

		query := q.GetDialect().InsertIgnoreQuery(
			"INSERT INTO wordle_groups (wordle_id, group_id) VALUES (?, ?)",
			"wordle_id, group_id",
		)
		for _, id := range toAdd {
			if _, err := q.Exec(query, wordleID, id); err != nil {
				return fmt.Errorf("failed to assign wordle %d to group %d: %w", wordleID, id, err)
			}
		}
	}

	return nil
}

// ActiveGroupsForStudent returns the groups a student belongs to whose date
// window covers the given day
func (r *MembershipRepository) ActiveGroupsForStudent(studentID int64, today string) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.init_date, g.end_date, g.teacher_id, g.created_at, g.updated_at
		FROM class_groups g
		INNER JOIN student_groups sg ON sg.group_id = g.id
		WHERE sg.user_id = ?
		  AND g.init_date <= ?
		  AND (g.end_date IS NULL OR g.end_date >= ?)
		ORDER BY g.init_date DESC
	`
	rows, err := r.db.Query(query, studentID, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query active groups: %w", err)
	}
	defer rows.Close()

	return collectGroups(rows)
}

// AccessibleWordlesForStudent returns the distinct wordles reachable through
// any of the student's active groups
func (r *MembershipRepository) AccessibleWordlesForStudent(studentID int64, today string) ([]models.WordleSummary, error) {
	query := `
		SELECT DISTINCT w.id, w.name, w.difficulty
		FROM wordles w
		INNER JOIN wordle_groups wg ON wg.wordle_id = w.id
		INNER JOIN class_groups g ON g.id = wg.group_id
		INNER JOIN student_groups sg ON sg.group_id = g.id
		WHERE sg.user_id = ?
		  AND g.init_date <= ?
		  AND (g.end_date IS NULL OR g.end_date >= ?)
		ORDER BY w.name ASC
	`
	rows, err := r.db.Query(query, studentID, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query accessible wordles: %w", err)
	}
	defer rows.Close()

	var wordles []models.WordleSummary
	for rows.Next() {
		var w models.WordleSummary
		if err := rows.Scan(&w.ID, &w.Name, &w.Difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan wordle: %w", err)
		}
		wordles = append(wordles, w)
	}
	return wordles, rows.Err()
}

// HasAccess reports whether a student can reach a wordle through any of
// their active groups
func (r *MembershipRepository) HasAccess(studentID, wordleID int64, today string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM wordle_groups wg
		INNER JOIN class_groups g ON g.id = wg.group_id
		INNER JOIN student_groups sg ON sg.group_id = g.id
		WHERE wg.wordle_id = ?
		  AND sg.user_id = ?
		  AND g.init_date <= ?
		  AND (g.end_date IS NULL OR g.end_date >= ?)
	`
	var count int
	if err := r.db.QueryRow(query, wordleID, studentID, today, today).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check wordle access: %w", err)
	}
	return count > 0, nil
}

// IsMember reports whether a student belongs to a group
func (r *MembershipRepository) IsMember(studentID, groupID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM student_groups WHERE user_id = ? AND group_id = ?"
	var count int
	if err := r.db.QueryRow(query, studentID, groupID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

// InTeacherGroups reports whether a student belongs to any group owned by
// the given teacher
func (r *MembershipRepository) InTeacherGroups(studentID, teacherID int64) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM student_groups sg
		INNER JOIN class_groups g ON g.id = sg.group_id
		WHERE sg.user_id = ? AND g.teacher_id = ?
	`
	var count int
	if err := r.db.QueryRow(query, studentID, teacherID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check teacher membership: %w", err)
	}
	return count > 0, nil
}

// placeholders builds "?, ?, ?" for n parameters
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// setDiff returns the ids to add (desired minus current) and the ids to
// remove (current minus desired), deduplicated, in input order
func setDiff(desired, current []int64) (toAdd, toRemove []int64) {
	desiredSet := make(map[int64]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}
	currentSet := make(map[int64]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	added := make(map[int64]bool)
	for _, id := range desired {
		if !currentSet[id] && !added[id] {
			toAdd = append(toAdd, id)
			added[id] = true
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func ownedWordleIDs(q database.DBTX, teacherID int64, ids []int64) (map[int64]bool, error) {
	query := fmt.Sprintf(
		"SELECT id FROM wordles WHERE teacher_id = ? AND id IN (%s)",
		placeholders(len(ids)),
	)
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, teacherID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to validate wordle ids: %w", err)
	}
	defer rows.Close()

	owned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wordle id: %w", err)
		}
		owned[id] = true
	}
	return owned, rows.Err()
}

func ownedGroupIDs(q database.DBTX, teacherID int64, ids []int64) (map[int64]bool, error) {
	query := fmt.Sprintf(
		"SELECT id FROM class_groups WHERE teacher_id = ? AND id IN (%s)",
		placeholders(len(ids)),
	)
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, teacherID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to validate group ids: %w", err)
	}
	defer rows.Close()

	owned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		owned[id] = true
	}
	return owned, rows.Err()
}
