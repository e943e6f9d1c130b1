// Package httputil tests
package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	err := WriteJSON(rr, map[string]string{"status": "ok"})
	if err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestWriteJSONError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSONError(rr, "todo not found", http.StatusNotFound)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["error"] != "todo not found" {
		t.Errorf("error = %q, want 'todo not found'", body["error"])
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/todos", strings.NewReader(`{"title":"buy milk"}`))

	var data struct {
		Title string `json:"title"`
	}
	if err := DecodeJSON(req, &data); err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	if data.Title != "buy milk" {
		t.Errorf("title = %q, want 'buy milk'", data.Title)
	}
}

func TestDecodeJSONInvalidBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/todos", strings.NewReader(`{not json`))

	var data struct{}
	if err := DecodeJSON(req, &data); err == nil {
		t.Error("expected error for invalid JSON body, got nil")
	}
}

func TestSeeOther(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", nil)

	SeeOther(rr, req, "/todos")

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/todos" {
		t.Errorf("Location = %q, want /todos", loc)
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(w http.ResponseWriter)
		status int
	}{
		{"MethodNotAllowed", func(w http.ResponseWriter) { MethodNotAllowed(w) }, http.StatusMethodNotAllowed},
		{"Unauthorized default", func(w http.ResponseWriter) { Unauthorized(w, "") }, http.StatusUnauthorized},
		{"Forbidden default", func(w http.ResponseWriter) { Forbidden(w, "") }, http.StatusForbidden},
		{"BadRequest", func(w http.ResponseWriter) { BadRequest(w, "bad") }, http.StatusBadRequest},
		{"NotFound default", func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound},
		{"InternalServerError default", func(w http.ResponseWriter) { InternalServerError(w, "", nil) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.fn(rr)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}
