package service

import (
	"eduwordle/internal/apperr"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
)

// AccessGuard centralizes authorization decisions. Ownership failures come
// back as not-found errors so callers cannot probe which ids exist.
type AccessGuard struct {
	db             *database.DB
	groupRepo      *repository.GroupRepository
	wordleRepo     *repository.WordleRepository
	membershipRepo *repository.MembershipRepository
}

// NewAccessGuard creates a new access guard
func NewAccessGuard(db *database.DB, groupRepo *repository.GroupRepository, wordleRepo *repository.WordleRepository, membershipRepo *repository.MembershipRepository) *AccessGuard {
	return &AccessGuard{
		db:             db,
		groupRepo:      groupRepo,
		wordleRepo:     wordleRepo,
		membershipRepo: membershipRepo,
	}
}

// OwnedGroup fetches a group if the teacher owns it. A group that does not
// exist and a group owned by someone else produce the same error.
func (g *AccessGuard) OwnedGroup(groupID, teacherID int64) (*models.Group, error) {
	group, err := g.groupRepo.GetOwned(g.db, groupID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, apperr.NotFound("group not found")
	}
	return group, nil
}

// OwnedWordle fetches a wordle if the teacher owns it, with the same
// indistinguishable not-found behavior as OwnedGroup
func (g *AccessGuard) OwnedWordle(wordleID, teacherID int64) (*models.Wordle, error) {
	wordle, err := g.wordleRepo.GetOwned(g.db, wordleID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to load wordle", err)
	}
	if wordle == nil {
		return nil, apperr.NotFound("wordle not found")
	}
	return wordle, nil
}

// CheckWordleAccess verifies a student can reach a wordle through an active
// group today. Inaccessible wordles are rejected with a forbidden error.
func (g *AccessGuard) CheckWordleAccess(studentID, wordleID int64) error {
	ok, err := g.membershipRepo.HasAccess(studentID, wordleID, models.Today())
	if err != nil {
		return apperr.Internal("failed to check wordle access", err)
	}
	if !ok {
		return apperr.Forbidden("you do not have access to this wordle")
	}
	return nil
}

// CheckManagesStudent verifies the student belongs to at least one of the
// teacher's groups. Students outside the teacher's groups look like they do
// not exist.
func (g *AccessGuard) CheckManagesStudent(teacherID, studentID int64) error {
	ok, err := g.membershipRepo.InTeacherGroups(studentID, teacherID)
	if err != nil {
		return apperr.Internal("failed to check student membership", err)
	}
	if !ok {
		return apperr.NotFound("student not found")
	}
	return nil
}
