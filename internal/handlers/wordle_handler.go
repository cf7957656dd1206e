package handlers

import (
	"net/http"

	"eduwordle/internal/service"
)

// WordleHandler handles the teacher-facing wordle endpoints
type WordleHandler struct {
	wordleService *service.WordleService
	gameService   *service.GameService
	development   bool
}

// NewWordleHandler creates a new wordle handler
func NewWordleHandler(wordleService *service.WordleService, gameService *service.GameService, development bool) *WordleHandler {
	return &WordleHandler{
		wordleService: wordleService,
		gameService:   gameService,
		development:   development,
	}
}

// Create handles POST /teacher/wordles
func (h *WordleHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	var input service.CreateWordleInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	wordle, err := h.wordleService.CreateWordle(claims.UserID, input)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, wordle)
}

// List handles GET /teacher/wordles
func (h *WordleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordles, err := h.wordleService.ListWordles(claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"wordles": wordles})
}

// Get handles GET /teacher/wordles/{id}
func (h *WordleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	wordle, err := h.wordleService.GetWordleDetail(wordleID, claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, wordle)
}

// Update handles PUT /teacher/wordles/{id}
func (h *WordleHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	var input service.UpdateWordleInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	wordle, err := h.wordleService.UpdateWordle(wordleID, claims.UserID, input)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, wordle)
}

// Delete handles DELETE /teacher/wordles/{id}
func (h *WordleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	wordleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	if err := h.wordleService.DeleteWordle(wordleID, claims.UserID); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
