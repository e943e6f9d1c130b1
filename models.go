// models.go
package main

// User represents an account holder.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Todo represents a single to-do item owned by a user.
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Tag       string `json:"tag"`
	Body      string `json:"body"`
	StartDate string `json:"startDate"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"-"`
}

// Tag is an entry in a user's denormalized tag registry, kept separately
// from the free-form label on each Todo.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
