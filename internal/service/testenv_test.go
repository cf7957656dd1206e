package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"eduwordle/internal/auth"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
)

// testEnv wires the full service layer against a throwaway SQLite database.
type testEnv struct {
	db      *database.DB
	users   *repository.UserRepository
	auth    *AuthService
	groups  *GroupService
	wordles *WordleService
	games   *GameService
}

func setupTestEnv(t *testing.T, dbPath string) *testEnv {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	wordleRepo := repository.NewWordleRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Disabled email service: welcome emails are logged, never sent.
	emailService, err := NewEmailService("", "", "", "", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	guard := NewAccessGuard(db, groupRepo, wordleRepo, membershipRepo)

	tokens, err := auth.NewTokenManager("test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}

	return &testEnv{
		db:      db,
		users:   userRepo,
		auth:    NewAuthService(db, userRepo, tokens, emailService),
		groups:  NewGroupService(db, groupRepo, userRepo, wordleRepo, membershipRepo, guard, emailService),
		wordles: NewWordleService(db, wordleRepo, membershipRepo, guard),
		games:   NewGameService(db, gameRepo, wordleRepo, membershipRepo, guard),
	}
}

var testUserSeq int

// createTestUser inserts a user directly through the repository. The password
// hash is a throwaway; these tests never log in.
func (env *testEnv) createTestUser(t *testing.T, role string) *models.User {
	t.Helper()
	testUserSeq++
	email := fmt.Sprintf("%s%d@example.com", role, testUserSeq)
	user, err := env.users.CreateUser(env.db, fmt.Sprintf("Test %s %d", role, testUserSeq), email, "not-a-real-hash", role)
	if err != nil {
		t.Fatalf("Failed to create test %s: %v", role, err)
	}
	return user
}

func (env *testEnv) createTestTeacher(t *testing.T) *models.User {
	return env.createTestUser(t, models.RoleTeacher)
}

func (env *testEnv) createTestStudent(t *testing.T) *models.User {
	return env.createTestUser(t, models.RoleStudent)
}

// createTestWordle builds a minimal valid wordle owned by the teacher.
func (env *testEnv) createTestWordle(t *testing.T, teacherID int64, name string, groupIDs ...int64) *models.WordleWithContent {
	t.Helper()
	wordle, err := env.wordles.CreateWordle(teacherID, CreateWordleInput{
		Name:       name,
		Difficulty: models.DifficultyLow,
		Words:      []WordInput{{Word: "apple"}},
		Questions: []QuestionInput{
			{
				Statement:      "Is apple a fruit?",
				Options:        []string{"yes", "no"},
				CorrectAnswers: []string{"yes"},
				Type:           models.QuestionSingle,
			},
		},
		GroupIDs: groupIDs,
	})
	if err != nil {
		t.Fatalf("Failed to create test wordle: %v", err)
	}
	return wordle
}

func (env *testEnv) countRows(t *testing.T, query string, args ...interface{}) int {
	t.Helper()
	var count int
	if err := env.db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
