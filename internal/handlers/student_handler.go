package handlers

import (
	"net/http"

	"eduwordle/internal/service"
)

// StudentHandler handles the student-facing endpoints
type StudentHandler struct {
	groupService  *service.GroupService
	wordleService *service.WordleService
	gameService   *service.GameService
	development   bool
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(groupService *service.GroupService, wordleService *service.WordleService, gameService *service.GameService, development bool) *StudentHandler {
	return &StudentHandler{
		groupService:  groupService,
		wordleService: wordleService,
		gameService:   gameService,
		development:   development,
	}
}

type saveResultRequest struct {
	Score int `json:"score"`
}

// ActiveGroups handles GET /student/groups/active
func (h *StudentHandler) ActiveGroups(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groups, err := h.groupService.ActiveGroupsForStudent(claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// GetGroup handles GET /student/groups/{id}
func (h *StudentHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	detail, err := h.groupService.GetGroupForStudent(groupID, claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// AccessibleWordles handles GET /student/wordles/accessible
func (h *StudentHandler) AccessibleWordles(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordles, err := h.wordleService.AccessibleWordles(claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"wordles": wordles})
}

// GameData handles GET /student/wordles/{id}/game-data
func (h *StudentHandler) GameData(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	wordle, err := h.wordleService.GameData(wordleID, claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, wordle)
}

// SaveResult handles POST /student/games/{wordleId}/save-result
func (h *StudentHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "wordleId")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	var req saveResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	submission, err := h.gameService.SubmitScore(claims.UserID, wordleID, req.Score)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, submission)
}

// OwnResults handles GET /student/games/results
func (h *StudentHandler) OwnResults(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	results, err := h.gameService.OwnResults(claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
