package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"eduwordle/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string         `json:"version"`
	ExportedAt   time.Time      `json:"exported_at"`
	DatabaseType string         `json:"database_type"`
	Users        []UserBackup   `json:"users"`
	Groups       []GroupBackup  `json:"groups"`
	Wordles      []WordleBackup `json:"wordles"`
	Games        []GameBackup   `json:"games"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GroupBackup represents a group with its student memberships
type GroupBackup struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InitDate   string    `json:"init_date"`
	EndDate    *string   `json:"end_date"`
	TeacherID  int64     `json:"teacher_id"`
	StudentIDs []int64   `json:"student_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WordleBackup represents a wordle with its words, questions and group
// assignments
type WordleBackup struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Difficulty string           `json:"difficulty"`
	TeacherID  int64            `json:"teacher_id"`
	Words      []WordBackup     `json:"words"`
	Questions  []QuestionBackup `json:"questions"`
	GroupIDs   []int64          `json:"group_ids"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// WordBackup represents a target word for backup
type WordBackup struct {
	ID   int64   `json:"id"`
	Word string  `json:"word"`
	Hint *string `json:"hint"`
}

// QuestionBackup represents a question for backup. Options and correct
// answers keep their stored JSON form.
type QuestionBackup struct {
	ID             int64  `json:"id"`
	Statement      string `json:"statement"`
	Options        string `json:"options"`
	CorrectAnswers string `json:"correct_answers"`
	Type           string `json:"type"`
}

// GameBackup represents a best-score record for backup
type GameBackup struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	WordleID  int64     `json:"wordle_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportGroups(backup); err != nil {
		return fmt.Errorf("failed to export groups: %w", err)
	}
	if err := s.exportWordles(backup); err != nil {
		return fmt.Errorf("failed to export wordles: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}

	log.Printf("Exported: %d users, %d groups, %d wordles, %d games",
		len(backup.Users), len(backup.Groups), len(backup.Wordles), len(backup.Games))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importGroups(backup.Groups); err != nil {
		return fmt.Errorf("failed to import groups: %w", err)
	}
	if err := s.importWordles(backup.Wordles); err != nil {
		return fmt.Errorf("failed to import wordles: %w", err)
	}
	if err := s.importGames(backup.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, name, email, password_hash, role, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportGroups(backup *BackupData) error {
	query := "SELECT id, name, init_date, end_date, teacher_id, created_at, updated_at FROM class_groups ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GroupBackup
		var endDate sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &g.InitDate, &endDate, &g.TeacherID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		if endDate.Valid {
			g.EndDate = &endDate.String
		}

		memberRows, err := s.db.Query("SELECT user_id FROM student_groups WHERE group_id = ? ORDER BY user_id", g.ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var studentID int64
			if err := memberRows.Scan(&studentID); err != nil {
				memberRows.Close()
				return err
			}
			g.StudentIDs = append(g.StudentIDs, studentID)
		}
		memberRows.Close()
		if err := memberRows.Err(); err != nil {
			return err
		}

		backup.Groups = append(backup.Groups, g)
	}
	return rows.Err()
}

func (s *BackupService) exportWordles(backup *BackupData) error {
	query := "SELECT id, name, difficulty, teacher_id, created_at, updated_at FROM wordles ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wordles []WordleBackup
	for rows.Next() {
		var w WordleBackup
		if err := rows.Scan(&w.ID, &w.Name, &w.Difficulty, &w.TeacherID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return err
		}
		wordles = append(wordles, w)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range wordles {
		if err := s.exportWordleContent(&wordles[i]); err != nil {
			return err
		}
	}
	backup.Wordles = wordles
	return nil
}

func (s *BackupService) exportWordleContent(w *WordleBackup) error {
	wordRows, err := s.db.Query("SELECT id, word, hint FROM words WHERE wordle_id = ? ORDER BY id", w.ID)
	if err != nil {
		return err
	}
	for wordRows.Next() {
		var word WordBackup
		if err := wordRows.Scan(&word.ID, &word.Word, &word.Hint); err != nil {
			wordRows.Close()
			return err
		}
		w.Words = append(w.Words, word)
	}
	wordRows.Close()
	if err := wordRows.Err(); err != nil {
		return err
	}

	questionRows, err := s.db.Query("SELECT id, statement, options, correct_answers, type FROM questions WHERE wordle_id = ? ORDER BY id", w.ID)
	if err != nil {
		return err
	}
	for questionRows.Next() {
		var q QuestionBackup
		if err := questionRows.Scan(&q.ID, &q.Statement, &q.Options, &q.CorrectAnswers, &q.Type); err != nil {
			questionRows.Close()
			return err
		}
		w.Questions = append(w.Questions, q)
	}
	questionRows.Close()
	if err := questionRows.Err(); err != nil {
		return err
	}

	groupRows, err := s.db.Query("SELECT group_id FROM wordle_groups WHERE wordle_id = ? ORDER BY group_id", w.ID)
	if err != nil {
		return err
	}
	for groupRows.Next() {
		var groupID int64
		if err := groupRows.Scan(&groupID); err != nil {
			groupRows.Close()
			return err
		}
		w.GroupIDs = append(w.GroupIDs, groupID)
	}
	groupRows.Close()
	return groupRows.Err()
}

func (s *BackupService) exportGames(backup *BackupData) error {
	query := "SELECT id, user_id, wordle_id, score, created_at, updated_at FROM games ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GameBackup
		if err := rows.Scan(&g.ID, &g.UserID, &g.WordleID, &g.Score, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Games = append(backup.Games, g)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGroups(groups []GroupBackup) error {
	log.Printf("Importing %d groups...", len(groups))
	for _, g := range groups {
		var endDate interface{}
		if g.EndDate != nil {
			endDate = *g.EndDate
		}
		query := "INSERT INTO class_groups (id, name, init_date, end_date, teacher_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, g.ID, g.Name, g.InitDate, endDate, g.TeacherID, g.CreatedAt, g.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import group %d: %w", g.ID, err)
		}

		for _, studentID := range g.StudentIDs {
			memberQuery := "INSERT INTO student_groups (user_id, group_id) VALUES (?, ?)"
			if _, err := s.db.Exec(memberQuery, studentID, g.ID); err != nil {
				return fmt.Errorf("failed to import membership of student %d in group %d: %w", studentID, g.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importWordles(wordles []WordleBackup) error {
	log.Printf("Importing %d wordles...", len(wordles))
	for _, w := range wordles {
		query := "INSERT INTO wordles (id, name, difficulty, teacher_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, w.ID, w.Name, w.Difficulty, w.TeacherID, w.CreatedAt, w.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import wordle %d: %w", w.ID, err)
		}

		for _, word := range w.Words {
			wordQuery := "INSERT INTO words (id, wordle_id, word, hint) VALUES (?, ?, ?, ?)"
			if _, err := s.db.Exec(wordQuery, word.ID, w.ID, word.Word, word.Hint); err != nil {
				return fmt.Errorf("failed to import word %d: %w", word.ID, err)
			}
		}
		for _, q := range w.Questions {
			questionQuery := "INSERT INTO questions (id, wordle_id, statement, options, correct_answers, type) VALUES (?, ?, ?, ?, ?, ?)"
			if _, err := s.db.Exec(questionQuery, q.ID, w.ID, q.Statement, q.Options, q.CorrectAnswers, q.Type); err != nil {
				return fmt.Errorf("failed to import question %d: %w", q.ID, err)
			}
		}
		for _, groupID := range w.GroupIDs {
			assignQuery := "INSERT INTO wordle_groups (wordle_id, group_id) VALUES (?, ?)"
			if _, err := s.db.Exec(assignQuery, w.ID, groupID); err != nil {
				return fmt.Errorf("failed to import assignment of wordle %d to group %d: %w", w.ID, groupID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importGames(games []GameBackup) error {
	log.Printf("Importing %d games...", len(games))
	for _, g := range games {
		query := "INSERT INTO games (id, user_id, wordle_id, score, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, g.ID, g.UserID, g.WordleID, g.Score, g.CreatedAt, g.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import game %d: %w", g.ID, err)
		}
	}
	return nil
}
