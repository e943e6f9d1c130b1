// handlers.go
package main

import (
	"net/http"
	"strconv"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/api"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/httputil"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/relay"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/template"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/validation"
)

// Routing tags carried through the session relay. These double as the form
// field names the router dispatches on.
const (
	tagLogin          = "login"
	tagSignUp         = "sign_up"
	tagForgotPassword = "forgot_password"
	tagSubmitSignup   = "submit_signup"
	tagSubmitLogin    = "submit_login"
	tagBackToMain     = "back_to_main"
)

// formPriority is the fixed order the router checks submitted field names
// in; the first present field wins. The legitimate UI only ever sends one,
// but a hand-crafted submission carrying several must resolve the same way
// every time.
var formPriority = []string{
	tagLogin,
	tagSignUp,
	tagForgotPassword,
	tagSubmitSignup,
	tagSubmitLogin,
	tagBackToMain,
}

// Package-level collaborators, wired up in main (and by tests).
var (
	relayStore *relay.Store
	renderer   *template.Renderer
)

// pageData is the options bag handed to templates.
type pageData struct {
	Username string
	Email    string
	Error    string
	Recovery bool
	User     *User
	Todos    []Todo
	Tags     []Tag
}

// landingHandler serves GET /. Authenticated visitors go straight to the
// authenticated area; everyone else gets the page a pending relay entry
// selects, or the plain landing page when the slot is empty.
func landingHandler(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(r); user != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	entry, ok := relayStore.Take(visitorID(w, r))
	if !ok {
		renderer.RenderWithBase(w, "landing.html", pageData{})
		return
	}

	data := pageData{
		Username: entry.Payload["username"],
		Email:    entry.Payload["email"],
		Error:    entry.Payload["error"],
	}
	switch entry.Tag {
	case tagLogin:
		renderer.RenderWithBase(w, "login.html", data)
	case tagSignUp:
		renderer.RenderWithBase(w, "signup.html", data)
	case tagForgotPassword:
		data.Recovery = true
		renderer.RenderWithBase(w, "recover.html", data)
	default:
		// back_to_main and anything unexpected fall back to the landing page.
		renderer.RenderWithBase(w, "landing.html", pageData{})
	}
}

// formRouterHandler serves POST /. It classifies the submission by which
// recognized field is present and dispatches exactly one branch.
func formRouterHandler(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(r); user != nil {
		// Already authenticated: the form content is not even inspected.
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Malformed form submission")
		return
	}

	var branch string
	for _, field := range formPriority {
		if _, present := r.PostForm[field]; present {
			branch = field
			break
		}
	}

	switch branch {
	case tagLogin, tagSignUp, tagForgotPassword, tagBackToMain:
		// Stateless branches: stash the tag and redirect so a refresh of
		// the next page never resubmits this form.
		relayStore.Stash(visitorID(w, r), branch, nil)
		httputil.SeeOther(w, r, "/")
	case tagSubmitSignup:
		handleSubmitSignup(w, r)
	case tagSubmitLogin:
		handleSubmitLogin(w, r)
	default:
		renderer.RenderWithBase(w, "landing.html", pageData{})
	}
}

// logoutHandler clears the session unconditionally and returns to the
// landing page; calling it while logged out is a no-op with the same result.
func logoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// todosPageHandler serves the authenticated landing page.
func todosPageHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(r)
	if !ok || user == nil {
		httputil.Unauthorized(w, "")
		return
	}

	todos, err := getTodos(user.ID)
	if err != nil {
		httputil.InternalServerError(w, "Failed to load todos", err)
		return
	}
	tags, err := getTags(user.ID)
	if err != nil {
		httputil.InternalServerError(w, "Failed to load tags", err)
		return
	}

	renderer.RenderWithBase(w, "todos.html", pageData{User: user, Todos: todos, Tags: tags})
}

// todosAPIHandler provides a RESTful interface for to-do management.
func todosAPIHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(r)
	if !ok || user == nil {
		httputil.Unauthorized(w, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		todos, err := getTodos(user.ID)
		if err != nil {
			httputil.InternalServerError(w, "Failed to retrieve todos", err)
			return
		}
		httputil.WriteJSON(w, todos)

	case http.MethodPost:
		var data api.CreateTodoRequest
		if !api.DecodeRequest(w, r, &data, "todo creation") {
			return
		}
		v := validation.ValidateTodo(validation.TodoRequest{
			Title: data.Title, Tag: data.Tag, Body: data.Body,
			StartDate: data.StartDate, DueDate: data.DueDate,
		})
		if v.HasErrors() {
			api.WriteErrorResponse(w, http.StatusBadRequest, v.FirstError())
			return
		}
		id, err := createTodo(user.ID, data.Title, data.Tag, data.Body, data.StartDate, data.DueDate)
		if err != nil {
			httputil.InternalServerError(w, "Failed to create todo", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		api.WriteSuccessResponse(w, "todo created", map[string]int{"id": id})

	case http.MethodPut:
		var data api.UpdateTodoRequest
		if !api.DecodeRequest(w, r, &data, "todo update") {
			return
		}
		v := validation.ValidateTodo(validation.TodoRequest{
			Title: data.Title, Tag: data.Tag, Body: data.Body,
			StartDate: data.StartDate, DueDate: data.DueDate,
		})
		if v.HasErrors() {
			api.WriteErrorResponse(w, http.StatusBadRequest, v.FirstError())
			return
		}
		if err := updateTodo(user.ID, data.ID, data.Title, data.Tag, data.Body, data.StartDate, data.DueDate, data.Completed); err != nil {
			api.WriteErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		api.WriteSuccessResponse(w, "todo updated", nil)

	case http.MethodDelete:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid todo ID")
			return
		}
		if err := deleteTodo(user.ID, id); err != nil {
			api.WriteErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		api.WriteSuccessResponse(w, "todo deleted", nil)

	default:
		httputil.MethodNotAllowed(w)
	}
}

// tagsAPIHandler provides a RESTful interface for the tag registry.
func tagsAPIHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(r)
	if !ok || user == nil {
		httputil.Unauthorized(w, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		tags, err := getTags(user.ID)
		if err != nil {
			httputil.InternalServerError(w, "Failed to retrieve tags", err)
			return
		}
		httputil.WriteJSON(w, tags)

	case http.MethodPost:
		var data api.CreateTagRequest
		if !api.DecodeRequest(w, r, &data, "tag creation") {
			return
		}
		if v := validation.ValidateTag(validation.TagRequest{Name: data.Name}); v.HasErrors() {
			api.WriteErrorResponse(w, http.StatusBadRequest, v.FirstError())
			return
		}
		if err := createTag(user.ID, data.Name); err != nil {
			api.WriteErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		api.WriteSuccessResponse(w, "tag created", nil)

	case http.MethodPut:
		var data api.UpdateTagRequest
		if !api.DecodeRequest(w, r, &data, "tag update") {
			return
		}
		if v := validation.ValidateTag(validation.TagRequest{Name: data.Name}); v.HasErrors() {
			api.WriteErrorResponse(w, http.StatusBadRequest, v.FirstError())
			return
		}
		if err := updateTag(user.ID, data.ID, data.Name); err != nil {
			api.WriteErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		api.WriteSuccessResponse(w, "tag updated", nil)

	case http.MethodDelete:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tag ID")
			return
		}
		if err := deleteTag(user.ID, id); err != nil {
			api.WriteErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		api.WriteSuccessResponse(w, "tag deleted", nil)

	default:
		httputil.MethodNotAllowed(w)
	}
}
