package handlers

import (
	"net/http"

	"eduwordle/internal/service"
)

// ResultsHandler handles the teacher-facing reporting endpoints
type ResultsHandler struct {
	gameService *service.GameService
	development bool
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(gameService *service.GameService, development bool) *ResultsHandler {
	return &ResultsHandler{
		gameService: gameService,
		development: development,
	}
}

// ForStudent handles GET /teacher/game-results/student/{userId}
func (h *ResultsHandler) ForStudent(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	studentID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	results, err := h.gameService.ResultsForStudent(claims.UserID, studentID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// ForWordle handles GET /teacher/game-results/wordle/{wordleId}
func (h *ResultsHandler) ForWordle(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "wordleId")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	results, err := h.gameService.ResultsForWordle(claims.UserID, wordleID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Detail handles GET /teacher/game-results/{id}
func (h *ResultsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	resultID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	detail, err := h.gameService.ResultDetail(claims.UserID, resultID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
