package handlers

import (
	"net/http"

	"eduwordle/internal/models"
	"eduwordle/internal/service"
)

// GroupHandler handles the teacher-facing group endpoints
type GroupHandler struct {
	groupService *service.GroupService
	gameService  *service.GameService
	development  bool
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *service.GroupService, gameService *service.GameService, development bool) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		gameService:  gameService,
		development:  development,
	}
}

// Create handles POST /teacher/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	var input service.CreateGroupInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	result, err := h.groupService.CreateGroup(claims.UserID, input)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /teacher/groups with optional status and date filters
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	query := r.URL.Query()
	filters := models.GroupFilters{
		Status:        query.Get("status"),
		StartDateFrom: query.Get("startDateFrom"),
		StartDateTo:   query.Get("startDateTo"),
		EndDateFrom:   query.Get("endDateFrom"),
		EndDateTo:     query.Get("endDateTo"),
	}

	groups, err := h.groupService.ListGroups(claims.UserID, filters)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// Get handles GET /teacher/groups/{id}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	detail, err := h.groupService.GetGroupDetail(groupID, claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Update handles PUT /teacher/groups/{id}
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	var input service.UpdateGroupInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	result, err := h.groupService.UpdateGroup(groupID, claims.UserID, input)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /teacher/groups/{id}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	if err := h.groupService.DeleteGroup(groupID, claims.UserID); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Ranking handles GET /teacher/groups/{id}/ranking
func (h *GroupHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	ranking, err := h.gameService.GroupRanking(claims.UserID, groupID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ranking": ranking})
}
