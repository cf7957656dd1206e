package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eduwordle/internal/apperr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Response is not a valid error envelope: %v", err)
	}
	return envelope
}

func TestWriteErrorOperational(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/groups/42", nil)

	writeError(rec, req, apperr.NotFound("group not found"), false)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "error" || envelope.StatusCode != 404 {
		t.Errorf("envelope = %+v, want status error/404", envelope)
	}
	if envelope.Message != "group not found" {
		t.Errorf("message = %q, want the operational message verbatim", envelope.Message)
	}
}

func TestWriteErrorCarriesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/groups", nil)

	writeError(rec, req, apperr.BadRequest("Validation failed",
		"name: name is required",
		"startDate: date must use YYYY-MM-DD format"), false)

	envelope := decodeEnvelope(t, rec)
	if len(envelope.Details) != 2 {
		t.Fatalf("details = %v, want 2 entries", envelope.Details)
	}
	if envelope.Details[0] != "name: name is required" {
		t.Errorf("details[0] = %q", envelope.Details[0])
	}
}

func TestWriteErrorHidesInternalCauseInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/groups", nil)

	writeError(rec, req, apperr.Internal("failed to load groups", errors.New("dial tcp: connection refused")), false)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Message != "An unexpected error occurred." {
		t.Errorf("message = %q, internal cause must not leak", envelope.Message)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("response body leaks the internal cause")
	}
}

func TestWriteErrorShowsInternalCauseInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/groups", nil)

	writeError(rec, req, apperr.Internal("failed to load groups", errors.New("dial tcp: connection refused")), true)

	envelope := decodeEnvelope(t, rec)
	if !strings.Contains(envelope.Message, "connection refused") {
		t.Errorf("message = %q, development mode should show the cause", envelope.Message)
	}
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/groups", nil)

	writeError(rec, req, errors.New("plain failure"), false)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "valid id", value: "42", want: 42, wantErr: false},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-3", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/groups/x", nil)
			req.SetPathValue("id", tt.value)

			got, err := pathID(req, "id")
			if (err != nil) != tt.wantErr {
				t.Errorf("pathID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("pathID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest("POST", "/groups", strings.NewReader("{not json"))

	var payload struct{ Name string }
	err := decodeJSON(req, &payload)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if apperr.From(err).StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", apperr.From(err).StatusCode)
	}
}
