package models

import "time"

// Wordle difficulties
const (
	DifficultyLow  = "low"
	DifficultyHigh = "high"
)

// Question types. Single-answer questions have exactly one correct answer,
// multi-answer questions are graded by exact set match.
const (
	QuestionSingle = "single"
	QuestionMulti  = "multi"
)

// Wordle represents a puzzle: a set of target words plus comprehension questions
type Wordle struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Difficulty string    `json:"difficulty"`
	TeacherID  int64     `json:"teacherId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WordleSummary is the compact listing form of a wordle
type WordleSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

// Word is a target word with an optional hint
type Word struct {
	ID       int64   `json:"id"`
	WordleID int64   `json:"-"`
	Word     string  `json:"word"`
	Hint     *string `json:"hint,omitempty"`
}

// Question is a comprehension question attached to a wordle. Options and
// correct answers are stored as JSON arrays in the database.
type Question struct {
	ID             int64    `json:"id"`
	WordleID       int64    `json:"-"`
	Statement      string   `json:"statement"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correctAnswers"`
	Type           string   `json:"type"`
}

// WordleWithContent combines a wordle with its words and questions
type WordleWithContent struct {
	Wordle
	Words     []Word     `json:"words"`
	Questions []Question `json:"questions"`
}
