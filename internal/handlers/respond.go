package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"eduwordle/internal/apperr"
)

// errorEnvelope is the uniform JSON error body
type errorEnvelope struct {
	Status     string   `json:"status"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError renders any error as the JSON error envelope. Operational
// errors pass through as-is; unexpected ones are logged with their cause and
// shown generically unless the server runs in development mode.
func writeError(w http.ResponseWriter, r *http.Request, err error, development bool) {
	apiErr := apperr.From(err)

	if !apiErr.IsOperational() {
		log.Printf("Internal error on %s %s: %v", r.Method, r.URL.Path, apiErr)
	}

	message := apiErr.Message
	if !apiErr.IsOperational() && !development {
		message = "An unexpected error occurred."
	} else if !apiErr.IsOperational() && apiErr.Err != nil {
		message = apiErr.Error()
	}

	writeJSON(w, apiErr.StatusCode, errorEnvelope{
		Status:     "error",
		StatusCode: apiErr.StatusCode,
		Message:    message,
		Details:    apiErr.Details,
	})
}

// decodeJSON parses a request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.BadRequest("Invalid JSON body")
	}
	return nil
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return id, nil
}
