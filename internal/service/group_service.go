package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eduwordle/internal/apperr"
	"eduwordle/internal/credentials"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
	"eduwordle/internal/validation"
)

// GroupService reconciles a teacher's desired group state against storage.
// Each Create/Update/Delete call runs in a single transaction, so a failure
// anywhere rolls back every membership change and every provisioned student.
type GroupService struct {
	db             *database.DB
	groupRepo      *repository.GroupRepository
	userRepo       *repository.UserRepository
	wordleRepo     *repository.WordleRepository
	membershipRepo *repository.MembershipRepository
	guard          *AccessGuard
	emailService   *EmailService
}

// NewGroupService creates a new group service
func NewGroupService(db *database.DB, groupRepo *repository.GroupRepository, userRepo *repository.UserRepository, wordleRepo *repository.WordleRepository, membershipRepo *repository.MembershipRepository, guard *AccessGuard, emailService *EmailService) *GroupService {
	return &GroupService{
		db:             db,
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		wordleRepo:     wordleRepo,
		membershipRepo: membershipRepo,
		guard:          guard,
		emailService:   emailService,
	}
}

// CreateGroupInput is the desired state for a new group
type CreateGroupInput struct {
	Name          string   `json:"name"`
	InitDate      string   `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	StudentEmails []string `json:"studentEmails"`
	WordleIDs     []int64  `json:"wordleIds"`
}

// UpdateGroupInput carries the changes for an existing group. Nil fields are
// left untouched; WordleIDs, when present, is the full desired assignment set.
type UpdateGroupInput struct {
	Name             *string  `json:"name"`
	InitDate         *string  `json:"startDate"`
	EndDate          *string  `json:"endDate"`
	ClearEndDate     bool     `json:"clearEndDate"`
	AddStudentEmails []string `json:"addStudentEmails"`
	RemoveStudentIDs []int64  `json:"removeStudentIds"`
	WordleIDs        *[]int64 `json:"wordleIds"`
}

// GroupMutationResult reports what a create or update did to membership
type GroupMutationResult struct {
	Group           *models.GroupWithStatus `json:"group"`
	Students        []models.User           `json:"students"`
	CreatedStudents []string                `json:"createdStudents"`
	LinkedStudents  []string                `json:"linkedStudents"`
}

// Resolution kinds for a requested student email
const (
	resolutionExisting = iota
	resolutionCreated
	resolutionRejected
)

// studentResolution is the outcome of resolving one requested email: an
// existing student to link, a freshly provisioned one, or a rejection
type studentResolution struct {
	kind            int
	email           string
	user            *models.User
	initialPassword string
	reason          string
}

// resolveStudentEmail classifies an email against the user found for it.
// It does not touch the database.
func resolveStudentEmail(email string, existing *models.User) studentResolution {
	if existing == nil {
		return studentResolution{kind: resolutionCreated, email: email}
	}
	if !existing.IsStudent() {
		return studentResolution{
			kind:   resolutionRejected,
			email:  email,
			reason: fmt.Sprintf("email %s belongs to an existing non-student account", email),
		}
	}
	return studentResolution{kind: resolutionExisting, email: email, user: existing}
}

// CreateGroup creates a group with its members and wordle assignments in one
// transaction. Unknown student emails are provisioned as new student accounts
// with a generated initial password; their welcome emails go out only after
// the transaction commits.
func (s *GroupService) CreateGroup(teacherID int64, input CreateGroupInput) (*GroupMutationResult, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateGroupFields(name, input.InitDate, input.EndDate); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	taken, err := s.groupRepo.NameExists(tx, teacherID, name, 0)
	if err != nil {
		return nil, apperr.Internal("failed to check group name", err)
	}
	if taken {
		return nil, apperr.BadRequest("Validation failed", "name: you already have a group with this name")
	}

	group := &models.Group{
		Name:      name,
		InitDate:  input.InitDate,
		EndDate:   input.EndDate,
		TeacherID: teacherID,
	}
	if err := s.groupRepo.Insert(tx, group); err != nil {
		return nil, apperr.Internal("failed to create group", err)
	}

	resolutions, err := s.resolveStudents(tx, input.StudentEmails)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]int64, 0, len(resolutions))
	for _, res := range resolutions {
		studentIDs = append(studentIDs, res.user.ID)
	}
	if err := s.membershipRepo.LinkStudents(tx, group.ID, studentIDs); err != nil {
		return nil, apperr.Internal("failed to link students", err)
	}

	if len(input.WordleIDs) > 0 {
		if err := s.membershipRepo.SyncWordles(tx, group.ID, teacherID, input.WordleIDs); err != nil {
			return nil, mapSyncError(err)
		}
	}

	members, err := s.groupRepo.Members(tx, group.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load group members", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	s.sendWelcomeEmails(resolutions)

	return buildMutationResult(group, members, resolutions), nil
}

// UpdateGroup applies field changes and membership deltas to an owned group.
// Students removed from their last group are deleted; the membership re-check
// happens at delete time inside the same transaction.
func (s *GroupService) UpdateGroup(groupID, teacherID int64, input UpdateGroupInput) (*GroupMutationResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	group, err := s.groupRepo.GetOwned(tx, groupID, teacherID)
	if err != nil {
		return nil, apperr.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, apperr.NotFound("group not found")
	}

	if input.Name != nil {
		group.Name = strings.TrimSpace(*input.Name)
	}
	if input.InitDate != nil {
		group.InitDate = *input.InitDate
	}
	if input.ClearEndDate {
		group.EndDate = nil
	} else if input.EndDate != nil {
		group.EndDate = input.EndDate
	}
	if err := validateGroupFields(group.Name, group.InitDate, group.EndDate); err != nil {
		return nil, err
	}

	if input.Name != nil {
		taken, err := s.groupRepo.NameExists(tx, teacherID, group.Name, group.ID)
		if err != nil {
			return nil, apperr.Internal("failed to check group name", err)
		}
		if taken {
			return nil, apperr.BadRequest("Validation failed", "name: you already have a group with this name")
		}
	}

	if err := s.groupRepo.Update(tx, group); err != nil {
		return nil, apperr.Internal("failed to update group", err)
	}

	resolutions, err := s.resolveStudents(tx, input.AddStudentEmails)
	if err != nil {
		return nil, err
	}
	addIDs := make([]int64, 0, len(resolutions))
	for _, res := range resolutions {
		addIDs = append(addIDs, res.user.ID)
	}
	if err := s.membershipRepo.LinkStudents(tx, group.ID, addIDs); err != nil {
		return nil, apperr.Internal("failed to link students", err)
	}

	if len(input.RemoveStudentIDs) > 0 {
		if err := s.membershipRepo.UnlinkStudents(tx, group.ID, input.RemoveStudentIDs); err != nil {
			return nil, apperr.Internal("failed to unlink students", err)
		}
		for _, studentID := range input.RemoveStudentIDs {
			deleted, err := s.userRepo.DeleteStudentIfOrphan(tx, studentID)
			if err != nil {
				return nil, apperr.Internal("failed to clean up orphaned student", err)
			}
			if deleted {
				log.Printf("Deleted orphaned student account: id=%d", studentID)
			}
		}
	}

	if input.WordleIDs != nil {
		if err := s.membershipRepo.SyncWordles(tx, group.ID, teacherID, *input.WordleIDs); err != nil {
			return nil, mapSyncError(err)
		}
	}

	members, err := s.groupRepo.Members(tx, group.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load group members", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	s.sendWelcomeEmails(resolutions)

	return buildMutationResult(group, members, resolutions), nil
}

// DeleteGroup removes an owned group. Member ids are captured before the
// cascade destroys the join rows, then each one gets the orphan check.
func (s *GroupService) DeleteGroup(groupID, teacherID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	group, err := s.groupRepo.GetOwned(tx, groupID, teacherID)
	if err != nil {
		return apperr.Internal("failed to load group", err)
	}
	if group == nil {
		return apperr.NotFound("group not found")
	}

	memberIDs, err := s.groupRepo.MemberIDs(tx, groupID)
	if err != nil {
		return apperr.Internal("failed to load group members", err)
	}

	if err := s.groupRepo.Delete(tx, groupID); err != nil {
		return apperr.Internal("failed to delete group", err)
	}

	for _, studentID := range memberIDs {
		deleted, err := s.userRepo.DeleteStudentIfOrphan(tx, studentID)
		if err != nil {
			return apperr.Internal("failed to clean up orphaned student", err)
		}
		if deleted {
			log.Printf("Deleted orphaned student account: id=%d", studentID)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("failed to commit transaction", err)
	}
	return nil
}

// ListGroups returns a teacher's groups with derived active status
func (s *GroupService) ListGroups(teacherID int64, filters models.GroupFilters) ([]models.GroupWithStatus, error) {
	today := models.Today()
	groups, err := s.groupRepo.ListByTeacher(teacherID, filters, today)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}

	result := make([]models.GroupWithStatus, 0, len(groups))
	for _, g := range groups {
		result = append(result, models.GroupWithStatus{Group: g, IsActive: g.IsActiveOn(today)})
	}
	return result, nil
}

// GetGroupDetail returns an owned group with its members and assigned wordles
func (s *GroupService) GetGroupDetail(groupID, teacherID int64) (*models.GroupDetail, error) {
	group, err := s.guard.OwnedGroup(groupID, teacherID)
	if err != nil {
		return nil, err
	}
	return s.buildGroupDetail(group)
}

// GetGroupForStudent returns a group to one of its members
func (s *GroupService) GetGroupForStudent(groupID, studentID int64) (*models.GroupDetail, error) {
	isMember, err := s.membershipRepo.IsMember(studentID, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to check group membership", err)
	}
	if !isMember {
		return nil, apperr.NotFound("group not found")
	}
	group, err := s.groupRepo.GetByID(s.db, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, apperr.NotFound("group not found")
	}
	return s.buildGroupDetail(group)
}

// ActiveGroupsForStudent returns the student's currently active groups
func (s *GroupService) ActiveGroupsForStudent(studentID int64) ([]models.Group, error) {
	groups, err := s.membershipRepo.ActiveGroupsForStudent(studentID, models.Today())
	if err != nil {
		return nil, apperr.Internal("failed to list active groups", err)
	}
	return groups, nil
}

func (s *GroupService) buildGroupDetail(group *models.Group) (*models.GroupDetail, error) {
	members, err := s.groupRepo.Members(s.db, group.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load group members", err)
	}
	wordles, err := s.wordleRepo.GroupSummaries(s.db, group.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load group wordles", err)
	}
	return &models.GroupDetail{
		Group:    *group,
		IsActive: group.IsActive(),
		Students: members,
		Wordles:  wordles,
	}, nil
}

// resolveStudents classifies each requested email and provisions the missing
// accounts inside the caller's transaction. A non-student email aborts the
// whole call with a conflict.
func (s *GroupService) resolveStudents(tx database.DBTX, emails []string) ([]studentResolution, error) {
	seen := make(map[string]bool, len(emails))
	resolutions := make([]studentResolution, 0, len(emails))

	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		if err := validation.ValidateEmail(email); err != nil {
			return nil, apperr.BadRequest("Validation failed", err.Error())
		}

		existing, err := s.userRepo.GetUserByEmail(tx, email)
		if err != nil {
			return nil, apperr.Internal("failed to look up student email", err)
		}

		res := resolveStudentEmail(email, existing)
		switch res.kind {
		case resolutionRejected:
			return nil, apperr.Conflict(res.reason)
		case resolutionCreated:
			password, err := credentials.GenerateInitialPassword(email)
			if err != nil {
				return nil, apperr.Internal("failed to generate initial password", err)
			}
			hash, err := credentials.HashPassword(password)
			if err != nil {
				return nil, apperr.Internal("failed to hash initial password", err)
			}
			user, err := s.userRepo.CreateUser(tx, studentNameFromEmail(email), email, hash, models.RoleStudent)
			if err != nil {
				return nil, apperr.Internal("failed to provision student", err)
			}
			res.user = user
			res.initialPassword = password
		}
		resolutions = append(resolutions, res)
	}
	return resolutions, nil
}

// sendWelcomeEmails fires the welcome mail for every provisioned student.
// Runs detached after commit; failures are logged and never surfaced.
func (s *GroupService) sendWelcomeEmails(resolutions []studentResolution) {
	for _, res := range resolutions {
		if res.kind != resolutionCreated {
			continue
		}
		go func(email, name, password string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.emailService.SendStudentWelcomeEmail(ctx, email, name, password); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", email, err)
			}
		}(res.user.Email, res.user.Name, res.initialPassword)
	}
}

// studentNameFromEmail derives a display name for a provisioned student from
// the local part of their email
func studentNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return strings.TrimSpace(local)
}

func validateGroupFields(name, initDate string, endDate *string) error {
	var details []string
	if err := validation.ValidateName(name); err != nil {
		details = append(details, err.Error())
	}
	if err := validation.ValidateDate("startDate", initDate); err != nil {
		details = append(details, err.Error())
	}
	if endDate != nil {
		if err := validation.ValidateDate("endDate", *endDate); err != nil {
			details = append(details, err.Error())
		} else if *endDate < initDate {
			details = append(details, "endDate: must not be before startDate")
		}
	}
	if len(details) > 0 {
		return apperr.BadRequest("Validation failed", details...)
	}
	return nil
}

func buildMutationResult(group *models.Group, members []models.User, resolutions []studentResolution) *GroupMutationResult {
	result := &GroupMutationResult{
		Group:           &models.GroupWithStatus{Group: *group, IsActive: group.IsActive()},
		Students:        members,
		CreatedStudents: []string{},
		LinkedStudents:  []string{},
	}
	for _, res := range resolutions {
		switch res.kind {
		case resolutionCreated:
			result.CreatedStudents = append(result.CreatedStudents, res.email)
		case resolutionExisting:
			result.LinkedStudents = append(result.LinkedStudents, res.email)
		}
	}
	return result
}

// mapSyncError converts membership sync failures into API errors
func mapSyncError(err error) error {
	if errors.Is(err, repository.ErrRelatedNotFound) {
		return apperr.NotFound(err.Error())
	}
	return apperr.Internal("failed to sync group wordles", err)
}
