package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"eduwordle/internal/database"
	"eduwordle/internal/models"
)

// WordleRepository handles wordle storage, including the words and questions
// that make up a puzzle
type WordleRepository struct {
	db *database.DB
}

// NewWordleRepository creates a new wordle repository
func NewWordleRepository(db *database.DB) *WordleRepository {
	return &WordleRepository{db: db}
}

// Insert creates a wordle row and sets its id and timestamps
func (r *WordleRepository) Insert(q database.DBTX, wordle *models.Wordle) error {
	now := time.Now()
	query := `
		INSERT INTO wordles (name, difficulty, teacher_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(query, wordle.Name, wordle.Difficulty, wordle.TeacherID, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert wordle: %w", err)
	}
	wordle.ID = id
	wordle.CreatedAt = now
	wordle.UpdatedAt = now
	return nil
}

// InsertWords stores the target words of a wordle
func (r *WordleRepository) InsertWords(q database.DBTX, wordleID int64, words []models.Word) error {
	query := "INSERT INTO words (wordle_id, word, hint) VALUES (?, ?, ?)"
	for i := range words {
		id, err := q.ExecReturningID(query, wordleID, words[i].Word, words[i].Hint)
		if err != nil {
			return fmt.Errorf("failed to insert word: %w", err)
		}
		words[i].ID = id
		words[i].WordleID = wordleID
	}
	return nil
}

// InsertQuestions stores the questions of a wordle. Options and correct
// answers are serialized as JSON arrays.
func (r *WordleRepository) InsertQuestions(q database.DBTX, wordleID int64, questions []models.Question) error {
	query := `
		INSERT INTO questions (wordle_id, statement, options, correct_answers, type)
		VALUES (?, ?, ?, ?, ?)
	`
	for i := range questions {
		options, err := json.Marshal(questions[i].Options)
		if err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
		answers, err := json.Marshal(questions[i].CorrectAnswers)
		if err != nil {
			return fmt.Errorf("failed to encode correct answers: %w", err)
		}
		id, err := q.ExecReturningID(query, wordleID, questions[i].Statement, string(options), string(answers), questions[i].Type)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
		questions[i].ID = id
		questions[i].WordleID = wordleID
	}
	return nil
}

// ReplaceContent deletes a wordle's words and questions and writes the given
// replacements. Callers run it inside a transaction alongside Update.
func (r *WordleRepository) ReplaceContent(q database.DBTX, wordleID int64, words []models.Word, questions []models.Question) error {
	if _, err := q.Exec("DELETE FROM words WHERE wordle_id = ?", wordleID); err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}
	if _, err := q.Exec("DELETE FROM questions WHERE wordle_id = ?", wordleID); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	if err := r.InsertWords(q, wordleID, words); err != nil {
		return err
	}
	return r.InsertQuestions(q, wordleID, questions)
}

// Update changes a wordle's name and difficulty
func (r *WordleRepository) Update(q database.DBTX, wordle *models.Wordle) error {
	wordle.UpdatedAt = time.Now()
	query := "UPDATE wordles SET name = ?, difficulty = ?, updated_at = ? WHERE id = ?"
	if _, err := q.Exec(query, wordle.Name, wordle.Difficulty, wordle.UpdatedAt, wordle.ID); err != nil {
		return fmt.Errorf("failed to update wordle: %w", err)
	}
	return nil
}

// GetOwned fetches a wordle only if it belongs to the given teacher. Missing
// and non-owned rows both come back as nil.
func (r *WordleRepository) GetOwned(q database.DBTX, wordleID, teacherID int64) (*models.Wordle, error) {
	query := `
		SELECT id, name, difficulty, teacher_id, created_at, updated_at
		FROM wordles
		WHERE id = ? AND teacher_id = ?
	`
	return scanWordle(q.QueryRow(query, wordleID, teacherID))
}

// GetByID fetches a wordle by id
func (r *WordleRepository) GetByID(q database.DBTX, wordleID int64) (*models.Wordle, error) {
	query := `
		SELECT id, name, difficulty, teacher_id, created_at, updated_at
		FROM wordles
		WHERE id = ?
	`
	return scanWordle(q.QueryRow(query, wordleID))
}

// GetSummary fetches the compact form of a wordle
func (r *WordleRepository) GetSummary(q database.DBTX, wordleID int64) (*models.WordleSummary, error) {
	var w models.WordleSummary
	err := q.QueryRow("SELECT id, name, difficulty FROM wordles WHERE id = ?", wordleID).
		Scan(&w.ID, &w.Name, &w.Difficulty)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wordle summary: %w", err)
	}
	return &w, nil
}

// ListByTeacher returns all wordles owned by a teacher, newest first
func (r *WordleRepository) ListByTeacher(teacherID int64) ([]models.Wordle, error) {
	query := `
		SELECT id, name, difficulty, teacher_id, created_at, updated_at
		FROM wordles
		WHERE teacher_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wordles: %w", err)
	}
	defer rows.Close()

	var wordles []models.Wordle
	for rows.Next() {
		var w models.Wordle
		if err := rows.Scan(&w.ID, &w.Name, &w.Difficulty, &w.TeacherID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wordle: %w", err)
		}
		wordles = append(wordles, w)
	}
	return wordles, rows.Err()
}

// Words returns the target words of a wordle in insertion order
func (r *WordleRepository) Words(q database.DBTX, wordleID int64) ([]models.Word, error) {
	rows, err := q.Query("SELECT id, wordle_id, word, hint FROM words WHERE wordle_id = ? ORDER BY id ASC", wordleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.WordleID, &w.Word, &w.Hint); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// Questions returns the questions of a wordle in insertion order
func (r *WordleRepository) Questions(q database.DBTX, wordleID int64) ([]models.Question, error) {
	query := "SELECT id, wordle_id, statement, options, correct_answers, type FROM questions WHERE wordle_id = ? ORDER BY id ASC"
	rows, err := q.Query(query, wordleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var qn models.Question
		var options, answers string
		if err := rows.Scan(&qn.ID, &qn.WordleID, &qn.Statement, &options, &answers, &qn.Type); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &qn.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &qn.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("failed to decode correct answers: %w", err)
		}
		questions = append(questions, qn)
	}
	return questions, rows.Err()
}

// GetWithContent fetches a wordle together with its words and questions
func (r *WordleRepository) GetWithContent(q database.DBTX, wordleID int64) (*models.WordleWithContent, error) {
	wordle, err := r.GetByID(q, wordleID)
	if err != nil || wordle == nil {
		return nil, err
	}
	words, err := r.Words(q, wordleID)
	if err != nil {
		return nil, err
	}
	questions, err := r.Questions(q, wordleID)
	if err != nil {
		return nil, err
	}
	return &models.WordleWithContent{Wordle: *wordle, Words: words, Questions: questions}, nil
}

// Delete removes a wordle. Words, questions and group assignments go with it
// through ON DELETE CASCADE.
func (r *WordleRepository) Delete(q database.DBTX, wordleID int64) error {
	if _, err := q.Exec("DELETE FROM wordles WHERE id = ?", wordleID); err != nil {
		return fmt.Errorf("failed to delete wordle: %w", err)
	}
	return nil
}

// GroupSummaries returns the wordles assigned to a group
func (r *WordleRepository) GroupSummaries(q database.DBTX, groupID int64) ([]models.WordleSummary, error) {
	query := `
		SELECT w.id, w.name, w.difficulty
		FROM wordles w
		INNER JOIN wordle_groups wg ON wg.wordle_id = w.id
		WHERE wg.group_id = ?
		ORDER BY w.name ASC
	`
	rows, err := q.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group wordles: %w", err)
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

func scanWordle(row *sql.Row) (*models.Wordle, error) {
	var w models.Wordle
	err := row.Scan(&w.ID, &w.Name, &w.Difficulty, &w.TeacherID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wordle: %w", err)
	}
	return &w, nil
}
