package repository

import (
	"database/sql"
	"fmt"
	"time"

	"eduwordle/internal/database"
	"eduwordle/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. It accepts a DBTX so student provisioning
// can participate in the group reconciliation transaction.
func (r *UserRepository) CreateUser(q database.DBTX, name, email, passwordHash, role string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES (?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(query, name, email, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetUserByEmail retrieves a user by email address, or nil when absent
func (r *UserRepository) GetUserByEmail(q database.DBTX, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = ?
	`
	return scanUser(q.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID, or nil when absent
func (r *UserRepository) GetUserByID(q database.DBTX, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return scanUser(q.QueryRow(query, id))
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteStudentIfOrphan deletes a student account that no longer belongs to
// any group. The membership check happens inside the DELETE itself, so a
// student concurrently re-added to another group within a committed
// transaction is not lost. Returns true when a row was deleted.
func (r *UserRepository) DeleteStudentIfOrphan(q database.DBTX, userID int64) (bool, error) {
	query := `
		DELETE FROM users
		WHERE id = ?
		  AND role = 'student'
		  AND NOT EXISTS (SELECT 1 FROM student_groups WHERE user_id = ?)
	`
	result, err := q.Exec(query, userID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete orphaned student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
