package repository

import (
	"database/sql"
	"fmt"
	"time"

	"eduwordle/internal/database"
	"eduwordle/internal/models"
)

// GameRepository stores per-student best scores and serves the reporting
// queries built on them
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// GetForUpdate fetches the result row for a (student, wordle) pair, locking
// it on backends that support row locks so a concurrent submission cannot
// read the same stale score.
func (r *GameRepository) GetForUpdate(q database.DBTX, userID, wordleID int64) (*models.GameResult, error) {
	query := `
		SELECT id, user_id, wordle_id, score, created_at, updated_at
		FROM games
		WHERE user_id = ? AND wordle_id = ?
	` + q.GetDialect().ForUpdateClause()

	var g models.GameResult
	err := q.QueryRow(query, userID, wordleID).
		Scan(&g.ID, &g.UserID, &g.WordleID, &g.Score, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}
	return &g, nil
}

// TryInsert creates the first result row for a (student, wordle) pair.
// FOR UPDATE locks nothing when the row does not exist yet, so two
// concurrent first submissions can both read nil; the insert ignores the
// pair conflict and the loser reports false so the caller can re-read and
// merge instead of failing on the unique constraint.
func (r *GameRepository) TryInsert(q database.DBTX, result *models.GameResult) (bool, error) {
	now := time.Now()
	query := q.GetDialect().InsertIgnoreQuery(`
		INSERT INTO games (user_id, wordle_id, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, "user_id, wordle_id")
	res, err := q.Exec(query, result.UserID, result.WordleID, result.Score, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to insert game result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	result.CreatedAt = now
	result.UpdatedAt = now
	return true, nil
}

// UpdateScore raises the stored score for an existing result row
func (r *GameRepository) UpdateScore(q database.DBTX, resultID int64, score int) error {
	query := "UPDATE games SET score = ?, updated_at = ? WHERE id = ?"
	if _, err := q.Exec(query, score, time.Now(), resultID); err != nil {
		return fmt.Errorf("failed to update game result: %w", err)
	}
	return nil
}

// ResultsForStudent returns a student's results with wordle context,
// best scores first
func (r *GameRepository) ResultsForStudent(userID int64) ([]models.StudentResult, error) {
	query := `
		SELECT g.id, g.user_id, g.wordle_id, g.score, g.created_at, g.updated_at,
		       w.name, w.difficulty
		FROM games g
		INNER JOIN wordles w ON w.id = g.wordle_id
		WHERE g.user_id = ?
		ORDER BY g.score DESC, g.updated_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query student results: %w", err)
	}
	defer rows.Close()

	var results []models.StudentResult
	for rows.Next() {
		var sr models.StudentResult
		err := rows.Scan(&sr.ID, &sr.UserID, &sr.WordleID, &sr.Score, &sr.CreatedAt, &sr.UpdatedAt,
			&sr.WordleName, &sr.WordleDifficulty)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student result: %w", err)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// ResultsForWordle returns all results recorded on a wordle with player
// context, best scores first
func (r *GameRepository) ResultsForWordle(wordleID int64) ([]models.WordleResult, error) {
	query := `
		SELECT g.id, g.user_id, g.wordle_id, g.score, g.created_at, g.updated_at,
		       u.name, u.email
		FROM games g
		INNER JOIN users u ON u.id = g.user_id
		WHERE g.wordle_id = ?
		ORDER BY g.score DESC, g.updated_at DESC
	`
	rows, err := r.db.Query(query, wordleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wordle results: %w", err)
	}
	defer rows.Close()

	var results []models.WordleResult
	for rows.Next() {
		var wr models.WordleResult
		err := rows.Scan(&wr.ID, &wr.UserID, &wr.WordleID, &wr.Score, &wr.CreatedAt, &wr.UpdatedAt,
			&wr.PlayerName, &wr.PlayerEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wordle result: %w", err)
		}
		results = append(results, wr)
	}
	return results, rows.Err()
}

// GroupRanking returns the group's members ordered by the sum of their best
// scores on the group's wordles. Members without results appear with a total
// of zero.
func (r *GameRepository) GroupRanking(groupID int64) ([]models.RankingEntry, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(SUM(g.score), 0) AS total
		FROM users u
		INNER JOIN student_groups sg ON sg.user_id = u.id
		LEFT JOIN games g ON g.user_id = u.id
			AND g.wordle_id IN (SELECT wordle_id FROM wordle_groups WHERE group_id = ?)
		WHERE sg.group_id = ?
		GROUP BY u.id, u.name, u.email
		ORDER BY total DESC, u.name ASC
	`
	rows, err := r.db.Query(query, groupID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group ranking: %w", err)
	}
	defer rows.Close()

	var ranking []models.RankingEntry
	for rows.Next() {
		var entry models.RankingEntry
		if err := rows.Scan(&entry.UserID, &entry.UserName, &entry.UserEmail, &entry.TotalScore); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		ranking = append(ranking, entry)
	}
	return ranking, rows.Err()
}

// GetDetail fetches a single result with player and wordle context
func (r *GameRepository) GetDetail(resultID int64) (*models.ResultDetail, error) {
	query := `
		SELECT g.id, g.user_id, g.wordle_id, g.score, g.created_at, g.updated_at,
		       u.id, u.name, u.email, u.role, u.created_at, u.updated_at,
		       w.id, w.name, w.difficulty
		FROM games g
		INNER JOIN users u ON u.id = g.user_id
		INNER JOIN wordles w ON w.id = g.wordle_id
		WHERE g.id = ?
	`
	var d models.ResultDetail
	err := r.db.QueryRow(query, resultID).Scan(
		&d.ID, &d.UserID, &d.WordleID, &d.Score, &d.CreatedAt, &d.UpdatedAt,
		&d.Player.ID, &d.Player.Name, &d.Player.Email, &d.Player.Role, &d.Player.CreatedAt, &d.Player.UpdatedAt,
		&d.Wordle.ID, &d.Wordle.Name, &d.Wordle.Difficulty,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result detail: %w", err)
	}
	return &d, nil
}
