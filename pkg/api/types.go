// Package api provides common API request and response types
package api

// To-do related request types
type CreateTodoRequest struct {
	Title     string `json:"title"`
	Tag       string `json:"tag"`
	Body      string `json:"body"`
	StartDate string `json:"startDate"`
	DueDate   string `json:"dueDate"`
}

type UpdateTodoRequest struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Tag       string `json:"tag"`
	Body      string `json:"body"`
	StartDate string `json:"startDate"`
	DueDate   string `json:"dueDate"`
	Completed *bool  `json:"completed"`
}

// Tag-related request types
type CreateTagRequest struct {
	Name string `json:"name"`
}

type UpdateTagRequest struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Common response types
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
