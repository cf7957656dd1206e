package models

import "time"

// GameResult holds the best score a student has achieved on a wordle.
// One row per (student, wordle) pair; the score never decreases.
type GameResult struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	WordleID  int64     `json:"wordleId"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Submission outcomes for a score submission
const (
	ScoreInserted = "inserted"
	ScoreUpdated  = "updated"
	ScoreSkipped  = "skipped"
)

// ScoreSubmission reports what a submission did and the score now on record
type ScoreSubmission struct {
	Action string `json:"action"`
	Score  int    `json:"score"`
}

// StudentResult is a game result joined with wordle metadata for reporting
type StudentResult struct {
	GameResult
	WordleName       string `json:"wordleName"`
	WordleDifficulty string `json:"wordleDifficulty"`
}

// WordleResult is a game result joined with player identity for reporting
type WordleResult struct {
	GameResult
	PlayerName  string `json:"playerName"`
	PlayerEmail string `json:"playerEmail"`
}

// RankingEntry is one row of a group ranking: a student and the sum of
// their best scores across the group's accessible wordles
type RankingEntry struct {
	UserID     int64  `json:"userId"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	TotalScore int    `json:"totalScore"`
}

// ResultDetail is a single game result with both player and wordle context
type ResultDetail struct {
	GameResult
	Player User          `json:"player"`
	Wordle WordleSummary `json:"wordle"`
}
