// api_test.go
package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func TestTodosAPIRequiresAuth(t *testing.T) {
	ensureTestApp(t)

	apitest.New().
		Handler(newRouter()).
		Get("/api/todos").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.New().
		Handler(newRouter()).
		Post("/api/todos").
		JSON(`{"title": "sneaky"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestTodosAPICRUD(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "alice", "alice@x.com", "secret1")
	session := sessionCookieFor(t, user)
	router := newRouter()

	apitest.New().
		Handler(router).
		Post("/api/todos").
		Cookie(session.Name, session.Value).
		JSON(`{"title": "buy milk", "tag": "errands", "dueDate": "2026-09-02"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.success`, true)).
		End()

	apitest.New().
		Handler(router).
		Get("/api/todos").
		Cookie(session.Name, session.Value).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		Assert(jsonpath.Equal(`$[0].title`, "buy milk")).
		Assert(jsonpath.Equal(`$[0].completed`, false)).
		End()

	todos, err := getTodos(user.ID)
	if err != nil || len(todos) != 1 {
		t.Fatalf("expected one stored todo, got %v (%v)", todos, err)
	}

	apitest.New().
		Handler(router).
		Put("/api/todos").
		Cookie(session.Name, session.Value).
		JSON(fmt.Sprintf(`{"id": %d, "title": "buy milk", "tag": "errands", "dueDate": "2026-09-02", "completed": true}`, todos[0].ID)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		End()

	apitest.New().
		Handler(router).
		Get("/api/todos").
		Cookie(session.Name, session.Value).
		Expect(t).
		Assert(jsonpath.Equal(`$[0].completed`, true)).
		End()

	apitest.New().
		Handler(router).
		Delete("/api/todos").
		Query("id", fmt.Sprintf("%d", todos[0].ID)).
		Cookie(session.Name, session.Value).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(router).
		Get("/api/todos").
		Cookie(session.Name, session.Value).
		Expect(t).
		Assert(jsonpath.Len(`$`, 0)).
		End()
}

func TestTodosAPIValidation(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "bob", "bob@x.com", "secret1")
	session := sessionCookieFor(t, user)

	apitest.New().
		Handler(newRouter()).
		Post("/api/todos").
		Cookie(session.Name, session.Value).
		JSON(`{"title": ""}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.success`, false)).
		End()
}

// The API never serves another user's rows.
func TestTodosAPIScopedToSession(t *testing.T) {
	ensureTestApp(t)
	owner := createTestUser(t, "carol", "carol@x.com", "secret1")
	intruder := createTestUser(t, "mallory", "mallory@x.com", "secret1")
	session := sessionCookieFor(t, intruder)

	id, err := createTodo(owner.ID, "private", "", "", "", "")
	if err != nil {
		t.Fatalf("createTodo failed: %v", err)
	}
	router := newRouter()

	apitest.New().
		Handler(router).
		Get("/api/todos").
		Cookie(session.Name, session.Value).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 0)).
		End()

	apitest.New().
		Handler(router).
		Delete("/api/todos").
		Query("id", fmt.Sprintf("%d", id)).
		Cookie(session.Name, session.Value).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	if _, err := getTodoByID(owner.ID, id); err != nil {
		t.Errorf("owner's todo should survive the attempt: %v", err)
	}
}

func TestTagsAPI(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "dave", "dave@x.com", "secret1")
	session := sessionCookieFor(t, user)
	router := newRouter()

	apitest.New().
		Handler(router).
		Post("/api/tags").
		Cookie(session.Name, session.Value).
		JSON(`{"name": "work"}`).
		Expect(t).
		Status(http.StatusCreated).
		End()

	// duplicates conflict
	apitest.New().
		Handler(router).
		Post("/api/tags").
		Cookie(session.Name, session.Value).
		JSON(`{"name": "work"}`).
		Expect(t).
		Status(http.StatusConflict).
		End()

	apitest.New().
		Handler(router).
		Get("/api/tags").
		Cookie(session.Name, session.Value).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		Assert(jsonpath.Equal(`$[0].name`, "work")).
		End()
}
