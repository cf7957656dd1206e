package service

import (
	"errors"

	"eduwordle/internal/apperr"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
)

// GameService records best scores and serves the reporting reads built on
// them. A stored score never decreases: submissions merge by keep-maximum.
type GameService struct {
	db             *database.DB
	gameRepo       *repository.GameRepository
	wordleRepo     *repository.WordleRepository
	membershipRepo *repository.MembershipRepository
	guard          *AccessGuard
}

// NewGameService creates a new game service
func NewGameService(db *database.DB, gameRepo *repository.GameRepository, wordleRepo *repository.WordleRepository, membershipRepo *repository.MembershipRepository, guard *AccessGuard) *GameService {
	return &GameService{
		db:             db,
		gameRepo:       gameRepo,
		wordleRepo:     wordleRepo,
		membershipRepo: membershipRepo,
		guard:          guard,
	}
}

// SubmitScore records a student's score on a wordle. The compare-and-write
// runs under a row lock where the backend supports one, so concurrent
// submissions for the same pair converge to the true maximum.
func (s *GameService) SubmitScore(studentID, wordleID int64, score int) (*models.ScoreSubmission, error) {
	if score < 0 {
		return nil, apperr.BadRequest("Validation failed", "score: must be a non-negative integer")
	}
	if err := s.guard.CheckWordleAccess(studentID, wordleID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	existing, err := s.gameRepo.GetForUpdate(tx, studentID, wordleID)
	if err != nil {
		return nil, apperr.Internal("failed to read game result", err)
	}

	submission := &models.ScoreSubmission{}
	if existing == nil {
		result := &models.GameResult{UserID: studentID, WordleID: wordleID, Score: score}
		inserted, err := s.gameRepo.TryInsert(tx, result)
		if err != nil {
			return nil, apperr.Internal("failed to record score", err)
		}
		if inserted {
			submission.Action = models.ScoreInserted
			submission.Score = score
			if err := tx.Commit(); err != nil {
				return nil, apperr.Internal("failed to commit transaction", err)
			}
			return submission, nil
		}
		// A concurrent first submission won the insert. The row is committed
		// now, so this read takes the lock and the merge below applies.
		existing, err = s.gameRepo.GetForUpdate(tx, studentID, wordleID)
		if err != nil {
			return nil, apperr.Internal("failed to read game result", err)
		}
		if existing == nil {
			return nil, apperr.Internal("failed to record score", errors.New("result row missing after insert conflict"))
		}
	}

	if score > existing.Score {
		if err := s.gameRepo.UpdateScore(tx, existing.ID, score); err != nil {
			return nil, apperr.Internal("failed to update score", err)
		}
		submission.Action = models.ScoreUpdated
		submission.Score = score
	} else {
		submission.Action = models.ScoreSkipped
		submission.Score = existing.Score
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}
	return submission, nil
}

// ResultsForStudent returns a student's results to a teacher who manages
// them through at least one group
func (s *GameService) ResultsForStudent(teacherID, studentID int64) ([]models.StudentResult, error) {
	if err := s.guard.CheckManagesStudent(teacherID, studentID); err != nil {
		return nil, err
	}
	results, err := s.gameRepo.ResultsForStudent(studentID)
	if err != nil {
		return nil, apperr.Internal("failed to load student results", err)
	}
	return results, nil
}

// OwnResults returns the calling student's results
func (s *GameService) OwnResults(studentID int64) ([]models.StudentResult, error) {
	results, err := s.gameRepo.ResultsForStudent(studentID)
	if err != nil {
		return nil, apperr.Internal("failed to load results", err)
	}
	return results, nil
}

// ResultsForWordle returns all results on an owned wordle, best first
func (s *GameService) ResultsForWordle(teacherID, wordleID int64) ([]models.WordleResult, error) {
	if _, err := s.guard.OwnedWordle(wordleID, teacherID); err != nil {
		return nil, err
	}
	results, err := s.gameRepo.ResultsForWordle(wordleID)
	if err != nil {
		return nil, apperr.Internal("failed to load wordle results", err)
	}
	return results, nil
}

// GroupRanking returns an owned group's members ordered by total best score
func (s *GameService) GroupRanking(teacherID, groupID int64) ([]models.RankingEntry, error) {
	if _, err := s.guard.OwnedGroup(groupID, teacherID); err != nil {
		return nil, err
	}
	ranking, err := s.gameRepo.GroupRanking(groupID)
	if err != nil {
		return nil, apperr.Internal("failed to load group ranking", err)
	}
	return ranking, nil
}

// ResultDetail returns one result to a teacher who owns the wordle or
// manages the student. Anything else looks like a missing result.
func (s *GameService) ResultDetail(teacherID, resultID int64) (*models.ResultDetail, error) {
	detail, err := s.gameRepo.GetDetail(resultID)
	if err != nil {
		return nil, apperr.Internal("failed to load result", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("game result not found")
	}

	wordle, err := s.wordleRepo.GetOwned(s.db, detail.WordleID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to check wordle ownership", err)
	}
	if wordle != nil {
		return detail, nil
	}

	manages, err := s.membershipRepo.InTeacherGroups(detail.UserID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to check student membership", err)
	}
	if !manages {
		return nil, apperr.NotFound("game result not found")
	}
	return detail, nil
}
