package service

import (
	"fmt"
	"strings"

	"eduwordle/internal/apperr"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
	"eduwordle/internal/validation"
)

// WordleService handles wordle lifecycle for teachers and game-data reads
// for students
type WordleService struct {
	db             *database.DB
	wordleRepo     *repository.WordleRepository
	membershipRepo *repository.MembershipRepository
	guard          *AccessGuard
}

// NewWordleService creates a new wordle service
func NewWordleService(db *database.DB, wordleRepo *repository.WordleRepository, membershipRepo *repository.MembershipRepository, guard *AccessGuard) *WordleService {
	return &WordleService{
		db:             db,
		wordleRepo:     wordleRepo,
		membershipRepo: membershipRepo,
		guard:          guard,
	}
}

// WordInput is one target word in a create or update request
type WordInput struct {
	Word string  `json:"word"`
	Hint *string `json:"hint"`
}

// QuestionInput is one question in a create or update request
type QuestionInput struct {
	Statement      string   `json:"statement"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correctAnswers"`
	Type           string   `json:"type"`
}

// CreateWordleInput is the payload for creating a wordle
type CreateWordleInput struct {
	Name       string          `json:"name"`
	Difficulty string          `json:"difficulty"`
	Words      []WordInput     `json:"words"`
	Questions  []QuestionInput `json:"questions"`
	GroupIDs   []int64         `json:"groupIds"`
}

// UpdateWordleInput carries changes for an existing wordle. Words and
// Questions, when present, replace the existing content wholesale.
type UpdateWordleInput struct {
	Name       *string         `json:"name"`
	Difficulty *string         `json:"difficulty"`
	Words      []WordInput     `json:"words"`
	Questions  []QuestionInput `json:"questions"`
	GroupIDs   *[]int64        `json:"groupIds"`
}

// CreateWordle creates a wordle with its words, questions and optional group
// assignments in one transaction
func (s *WordleService) CreateWordle(teacherID int64, input CreateWordleInput) (*models.WordleWithContent, error) {
	if err := validateWordleContent(input.Name, input.Difficulty, input.Words, input.Questions); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	wordle := &models.Wordle{
		Name:       strings.TrimSpace(input.Name),
		Difficulty: input.Difficulty,
		TeacherID:  teacherID,
	}
	if err := s.wordleRepo.Insert(tx, wordle); err != nil {
		return nil, apperr.Internal("failed to create wordle", err)
	}

	words := toWords(input.Words)
	questions := toQuestions(input.Questions)
	if err := s.wordleRepo.InsertWords(tx, wordle.ID, words); err != nil {
		return nil, apperr.Internal("failed to store words", err)
	}
	if err := s.wordleRepo.InsertQuestions(tx, wordle.ID, questions); err != nil {
		return nil, apperr.Internal("failed to store questions", err)
	}

	if len(input.GroupIDs) > 0 {
		if err := s.membershipRepo.SyncGroups(tx, wordle.ID, teacherID, input.GroupIDs); err != nil {
			return nil, mapSyncError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	return &models.WordleWithContent{Wordle: *wordle, Words: words, Questions: questions}, nil
}

// UpdateWordle applies field changes, optional content replacement and group
// sync to an owned wordle in one transaction
func (s *WordleService) UpdateWordle(wordleID, teacherID int64, input UpdateWordleInput) (*models.WordleWithContent, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	wordle, err := s.wordleRepo.GetOwned(tx, wordleID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to load wordle", err)
	}
	if wordle == nil {
		return nil, apperr.NotFound("wordle not found")
	}

	if input.Name != nil {
		wordle.Name = strings.TrimSpace(*input.Name)
	}
	if input.Difficulty != nil {
		wordle.Difficulty = *input.Difficulty
	}

	replaceContent := input.Words != nil || input.Questions != nil
	if replaceContent {
		if err := validateWordleContent(wordle.Name, wordle.Difficulty, input.Words, input.Questions); err != nil {
			return nil, err
		}
	} else if err := validateWordleFields(wordle.Name, wordle.Difficulty); err != nil {
		return nil, err
	}

	if err := s.wordleRepo.Update(tx, wordle); err != nil {
		return nil, apperr.Internal("failed to update wordle", err)
	}

	if replaceContent {
		if err := s.wordleRepo.ReplaceContent(tx, wordle.ID, toWords(input.Words), toQuestions(input.Questions)); err != nil {
			return nil, apperr.Internal("failed to replace wordle content", err)
		}
	}

	if input.GroupIDs != nil {
		if err := s.membershipRepo.SyncGroups(tx, wordle.ID, teacherID, *input.GroupIDs); err != nil {
			return nil, mapSyncError(err)
		}
	}

	words, err := s.wordleRepo.Words(tx, wordle.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load words", err)
	}
	questions, err := s.wordleRepo.Questions(tx, wordle.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load questions", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	return &models.WordleWithContent{Wordle: *wordle, Words: words, Questions: questions}, nil
}

// DeleteWordle removes an owned wordle; words, questions, assignments and
// recorded scores cascade with it
func (s *WordleService) DeleteWordle(wordleID, teacherID int64) error {
	wordle, err := s.guard.OwnedWordle(wordleID, teacherID)
	if err != nil {
		return err
	}
	if err := s.wordleRepo.Delete(s.db, wordle.ID); err != nil {
		return apperr.Internal("failed to delete wordle", err)
	}
	return nil
}

// ListWordles returns a teacher's wordles
func (s *WordleService) ListWordles(teacherID int64) ([]models.Wordle, error) {
	wordles, err := s.wordleRepo.ListByTeacher(teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to list wordles", err)
	}
	return wordles, nil
}

// GetWordleDetail returns an owned wordle with its words and questions
func (s *WordleService) GetWordleDetail(wordleID, teacherID int64) (*models.WordleWithContent, error) {
	if _, err := s.guard.OwnedWordle(wordleID, teacherID); err != nil {
		return nil, err
	}
	detail, err := s.wordleRepo.GetWithContent(s.db, wordleID)
	if err != nil {
		return nil, apperr.Internal("failed to load wordle", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("wordle not found")
	}
	return detail, nil
}

// AccessibleWordles returns the wordles a student can currently play
func (s *WordleService) AccessibleWordles(studentID int64) ([]models.WordleSummary, error) {
	wordles, err := s.membershipRepo.AccessibleWordlesForStudent(studentID, models.Today())
	if err != nil {
		return nil, apperr.Internal("failed to list accessible wordles", err)
	}
	return wordles, nil
}

// GameData returns the playable content of a wordle to a student who can
// reach it through an active group
func (s *WordleService) GameData(wordleID, studentID int64) (*models.WordleWithContent, error) {
	if err := s.guard.CheckWordleAccess(studentID, wordleID); err != nil {
		return nil, err
	}
	detail, err := s.wordleRepo.GetWithContent(s.db, wordleID)
	if err != nil {
		return nil, apperr.Internal("failed to load wordle", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("wordle not found")
	}
	return detail, nil
}

func toWords(inputs []WordInput) []models.Word {
	words := make([]models.Word, 0, len(inputs))
	for _, in := range inputs {
		words = append(words, models.Word{Word: strings.TrimSpace(in.Word), Hint: in.Hint})
	}
	return words
}

func toQuestions(inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for _, in := range inputs {
		questions = append(questions, models.Question{
			Statement:      strings.TrimSpace(in.Statement),
			Options:        in.Options,
			CorrectAnswers: in.CorrectAnswers,
			Type:           in.Type,
		})
	}
	return questions
}

func validateWordleFields(name, difficulty string) error {
	var details []string
	if err := validation.ValidateName(name); err != nil {
		details = append(details, err.Error())
	}
	if difficulty != models.DifficultyLow && difficulty != models.DifficultyHigh {
		details = append(details, "difficulty: must be 'low' or 'high'")
	}
	if len(details) > 0 {
		return apperr.BadRequest("Validation failed", details...)
	}
	return nil
}

func validateWordleContent(name, difficulty string, words []WordInput, questions []QuestionInput) error {
	var details []string
	if err := validation.ValidateName(name); err != nil {
		details = append(details, err.Error())
	}
	if difficulty != models.DifficultyLow && difficulty != models.DifficultyHigh {
		details = append(details, "difficulty: must be 'low' or 'high'")
	}
	if len(words) == 0 {
		details = append(details, "words: at least one word is required")
	}
	for i, w := range words {
		if strings.TrimSpace(w.Word) == "" {
			details = append(details, fmt.Sprintf("words[%d]: word must not be empty", i))
		}
	}
	if len(questions) == 0 {
		details = append(details, "questions: at least one question is required")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Statement) == "" {
			details = append(details, fmt.Sprintf("questions[%d]: statement must not be empty", i))
		}
		if len(q.Options) < 2 {
			details = append(details, fmt.Sprintf("questions[%d]: at least two options are required", i))
		}
		if q.Type != models.QuestionSingle && q.Type != models.QuestionMulti {
			details = append(details, fmt.Sprintf("questions[%d]: type must be 'single' or 'multi'", i))
			continue
		}
		if q.Type == models.QuestionSingle && len(q.CorrectAnswers) != 1 {
			details = append(details, fmt.Sprintf("questions[%d]: single-answer questions need exactly one correct answer", i))
		}
		if q.Type == models.QuestionMulti && len(q.CorrectAnswers) == 0 {
			details = append(details, fmt.Sprintf("questions[%d]: at least one correct answer is required", i))
		}
		options := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			options[opt] = true
		}
		for _, ans := range q.CorrectAnswers {
			if !options[ans] {
				details = append(details, fmt.Sprintf("questions[%d]: correct answer %q is not among the options", i, ans))
			}
		}
	}
	if len(details) > 0 {
		return apperr.BadRequest("Validation failed", details...)
	}
	return nil
}
