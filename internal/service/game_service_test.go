package service

import (
	"sync"
	"testing"

	"eduwordle/internal/apperr"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
)

// seedPlayableWordle creates a teacher, an active group with one student, and
// a wordle assigned to that group.
func seedPlayableWordle(t *testing.T, env *testEnv) (teacher, student *models.User, wordleID int64) {
	t.Helper()
	teacher = env.createTestTeacher(t)
	student = env.createTestStudent(t)
	wordle := env.createTestWordle(t, teacher.ID, "Fruits")

	_, err := env.groups.CreateGroup(teacher.ID, CreateGroupInput{
		Name:          "Class 5A",
		InitDate:      models.Today(),
		StudentEmails: []string{student.Email},
		WordleIDs:     []int64{wordle.ID},
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return teacher, student, wordle.ID
}

func TestSubmitScoreKeepsMaximum(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_max.db")
	_, student, wordleID := seedPlayableWordle(t, env)

	steps := []struct {
		score      int
		wantAction string
		wantScore  int
	}{
		{70, models.ScoreInserted, 70},
		{50, models.ScoreSkipped, 70},
		{90, models.ScoreUpdated, 90},
		{90, models.ScoreSkipped, 90},
	}

	for _, step := range steps {
		sub, err := env.games.SubmitScore(student.ID, wordleID, step.score)
		if err != nil {
			t.Fatalf("SubmitScore(%d) failed: %v", step.score, err)
		}
		if sub.Action != step.wantAction || sub.Score != step.wantScore {
			t.Errorf("SubmitScore(%d) = %s/%d, want %s/%d",
				step.score, sub.Action, sub.Score, step.wantAction, step.wantScore)
		}
	}

	n := env.countRows(t, "SELECT COUNT(*) FROM games WHERE user_id = ? AND wordle_id = ?", student.ID, wordleID)
	if n != 1 {
		t.Errorf("Expected a single result row per student and wordle, got %d", n)
	}
}

func TestSubmitScoreRejectsNegative(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_negative.db")
	_, student, wordleID := seedPlayableWordle(t, env)

	_, err := env.games.SubmitScore(student.ID, wordleID, -1)
	if err == nil {
		t.Fatal("Expected error for negative score")
	}
	if apperr.From(err).StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", apperr.From(err).StatusCode)
	}
}

func TestSubmitScoreRequiresAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_access.db")
	teacher := env.createTestTeacher(t)
	outsider := env.createTestStudent(t)
	wordle := env.createTestWordle(t, teacher.ID, "Fruits")

	_, err := env.games.SubmitScore(outsider.ID, wordle.ID, 50)
	if err == nil {
		t.Fatal("Expected error for student without access")
	}
	if apperr.From(err).StatusCode != 403 {
		t.Errorf("StatusCode = %d, want 403", apperr.From(err).StatusCode)
	}
}

func TestExpiredGroupRevokesAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_expired.db")
	teacher := env.createTestTeacher(t)
	student := env.createTestStudent(t)
	wordle := env.createTestWordle(t, teacher.ID, "Fruits")

	ended := "2024-06-30"
	_, err := env.groups.CreateGroup(teacher.ID, CreateGroupInput{
		Name:          "Last Year",
		InitDate:      "2024-01-01",
		EndDate:       &ended,
		StudentEmails: []string{student.Email},
		WordleIDs:     []int64{wordle.ID},
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	accessible, err := env.wordles.AccessibleWordles(student.ID)
	if err != nil {
		t.Fatalf("AccessibleWordles failed: %v", err)
	}
	if len(accessible) != 0 {
		t.Errorf("Expected no accessible wordles through an expired group, got %d", len(accessible))
	}

	if _, err := env.games.SubmitScore(student.ID, wordle.ID, 50); err == nil {
		t.Error("Expected score submission to fail through an expired group")
	}

	active, err := env.groups.ActiveGroupsForStudent(student.ID)
	if err != nil {
		t.Fatalf("ActiveGroupsForStudent failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active groups, got %d", len(active))
	}
}

func TestAccessibleWordlesThroughActiveGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_visible.db")
	_, student, wordleID := seedPlayableWordle(t, env)

	accessible, err := env.wordles.AccessibleWordles(student.ID)
	if err != nil {
		t.Fatalf("AccessibleWordles failed: %v", err)
	}
	if len(accessible) != 1 || accessible[0].ID != wordleID {
		t.Fatalf("AccessibleWordles = %v, want the assigned wordle", accessible)
	}

	// Full game payload is gated by the same membership check
	data, err := env.wordles.GameData(wordleID, student.ID)
	if err != nil {
		t.Fatalf("GameData failed: %v", err)
	}
	if len(data.Words) != 1 || len(data.Questions) != 1 {
		t.Errorf("GameData content = %d words, %d questions, want 1 and 1", len(data.Words), len(data.Questions))
	}
}

func TestGroupRankingIncludesStudentsWithoutResults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_ranking.db")
	teacher := env.createTestTeacher(t)
	player := env.createTestStudent(t)
	idle := env.createTestStudent(t)
	wordle := env.createTestWordle(t, teacher.ID, "Fruits")

	created, err := env.groups.CreateGroup(teacher.ID, CreateGroupInput{
		Name:          "Class 5A",
		InitDate:      models.Today(),
		StudentEmails: []string{player.Email, idle.Email},
		WordleIDs:     []int64{wordle.ID},
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if _, err := env.games.SubmitScore(player.ID, wordle.ID, 80); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}

	ranking, err := env.games.GroupRanking(teacher.ID, created.Group.ID)
	if err != nil {
		t.Fatalf("GroupRanking failed: %v", err)
	}
	if len(ranking) != 2 {
		t.Fatalf("Expected 2 ranking entries, got %d", len(ranking))
	}
	if ranking[0].UserID != player.ID || ranking[0].TotalScore != 80 {
		t.Errorf("Top entry = user %d score %d, want user %d score 80", ranking[0].UserID, ranking[0].TotalScore, player.ID)
	}
	if ranking[1].UserID != idle.ID || ranking[1].TotalScore != 0 {
		t.Errorf("Idle entry = user %d score %d, want user %d score 0", ranking[1].UserID, ranking[1].TotalScore, idle.ID)
	}
}

func TestResultsForStudentRequiresManagement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_manage.db")
	_, student, wordleID := seedPlayableWordle(t, env)
	stranger := env.createTestTeacher(t)

	if _, err := env.games.SubmitScore(student.ID, wordleID, 60); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}

	_, err := env.games.ResultsForStudent(stranger.ID, student.ID)
	if err == nil {
		t.Fatal("Expected error for teacher who does not manage the student")
	}
	if apperr.From(err).StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apperr.From(err).StatusCode)
	}

	own, err := env.games.OwnResults(student.ID)
	if err != nil {
		t.Fatalf("OwnResults failed: %v", err)
	}
	if len(own) != 1 || own[0].Score != 60 {
		t.Errorf("OwnResults = %v, want one result with score 60", own)
	}
}

func TestFirstResultInsertIgnoresConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_conflict.db")
	_, student, wordleID := seedPlayableWordle(t, env)
	gameRepo := repository.NewGameRepository(env.db)

	inserted, err := gameRepo.TryInsert(env.db, &models.GameResult{UserID: student.ID, WordleID: wordleID, Score: 70})
	if err != nil {
		t.Fatalf("TryInsert failed: %v", err)
	}
	if !inserted {
		t.Fatal("Expected first insert to create the row")
	}

	inserted, err = gameRepo.TryInsert(env.db, &models.GameResult{UserID: student.ID, WordleID: wordleID, Score: 50})
	if err != nil {
		t.Fatalf("TryInsert on existing pair failed: %v", err)
	}
	if inserted {
		t.Error("Expected insert on an existing pair to report false")
	}

	var score int
	if err := env.db.QueryRow("SELECT score FROM games WHERE user_id = ? AND wordle_id = ?", student.ID, wordleID).Scan(&score); err != nil {
		t.Fatalf("Failed to read stored score: %v", err)
	}
	if score != 70 {
		t.Errorf("Stored score = %d, want 70", score)
	}
}

func TestConcurrentFirstSubmissionsConverge(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_game_concurrent.db")
	_, student, wordleID := seedPlayableWordle(t, env)

	scores := []int{10, 25, 40, 55, 70, 85, 90, 60}
	errs := make(chan error, len(scores))
	var wg sync.WaitGroup
	for _, score := range scores {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := env.games.SubmitScore(student.ID, wordleID, score)
			errs <- err
		}(score)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("SubmitScore failed: %v", err)
		}
	}

	n := env.countRows(t, "SELECT COUNT(*) FROM games WHERE user_id = ? AND wordle_id = ?", student.ID, wordleID)
	if n != 1 {
		t.Errorf("Expected a single result row, got %d", n)
	}

	var stored int
	if err := env.db.QueryRow("SELECT score FROM games WHERE user_id = ? AND wordle_id = ?", student.ID, wordleID).Scan(&stored); err != nil {
		t.Fatalf("Failed to read stored score: %v", err)
	}
	if stored != 90 {
		t.Errorf("Stored score = %d, want the maximum 90", stored)
	}
}
