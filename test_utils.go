// test_utils.go
package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/relay"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/template"

	"golang.org/x/crypto/bcrypt"
)

// ensureTestApp wires the package globals the handlers depend on and gives
// every test a clean database.
func ensureTestApp(t *testing.T) {
	t.Helper()

	if db == nil {
		initDB("test_todos.db")
	}
	for _, table := range []string{"todos", "tags", "sessions", "login_attempts", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}

	if relayStore == nil {
		store, err := relay.New(time.Minute)
		if err != nil {
			t.Fatalf("failed to create relay store: %v", err)
		}
		relayStore = store
	}
	if renderer == nil {
		renderer = template.NewRenderer("templates", "base.html")
	}
	if len(appSecret) == 0 {
		appSecret = []byte("test-signing-key")
	}
}

// createTestUser inserts a user directly, bypassing the signup flow.
// MinCost keeps the test suite fast.
func createTestUser(t *testing.T, username, email, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id, err := createUser(username, email, string(hash))
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &User{ID: id, Username: username, Email: email}
}

// postForm builds a form-encoded POST request.
func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// sessionCookieFor creates a fresh session for user and returns its cookie.
func sessionCookieFor(t *testing.T, user *User) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := createSession(rr, user); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("createSession did not set a session cookie")
	return nil
}

// visitorCookieFrom extracts the visitor id cookie a handler set, if any.
func visitorCookieFrom(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == visitorCookieName {
			return c
		}
	}
	return nil
}
