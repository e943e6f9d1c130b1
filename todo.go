// todo.go
package main

import (
	"database/sql"
	"fmt"
)

// getTodos retrieves all of a user's to-do items, incomplete first, then by
// due date.
func getTodos(userID int) ([]Todo, error) {
	rows, err := db.Query(`
		SELECT id, title, tag, body, start_date, due_date, completed
		FROM todos WHERE user_id = ?
		ORDER BY completed ASC, due_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var td Todo
		if err := rows.Scan(&td.ID, &td.Title, &td.Tag, &td.Body, &td.StartDate, &td.DueDate, &td.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		td.UserID = userID
		todos = append(todos, td)
	}

	if todos == nil {
		return []Todo{}, nil
	}
	return todos, nil
}

// getTodoByID retrieves a single to-do item, scoped to its owner.
func getTodoByID(userID, todoID int) (*Todo, error) {
	var td Todo
	err := db.QueryRow(`
		SELECT id, title, tag, body, start_date, due_date, completed
		FROM todos WHERE id = ? AND user_id = ?
	`, todoID, userID).Scan(&td.ID, &td.Title, &td.Tag, &td.Body, &td.StartDate, &td.DueDate, &td.Completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("todo not found or permission denied")
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	td.UserID = userID
	return &td, nil
}

// createTodo inserts a new to-do item for a user. A non-empty tag label is
// also registered in the user's tag registry.
func createTodo(userID int, title, tag, body, startDate, dueDate string) (int, error) {
	res, err := db.Exec(`
		INSERT INTO todos (user_id, title, tag, body, start_date, due_date, completed)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`, userID, title, tag, body, startDate, dueDate)
	if err != nil {
		return 0, fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new todo id: %w", err)
	}

	if tag != "" {
		if err := registerTag(userID, tag); err != nil {
			return 0, err
		}
	}
	return int(id), nil
}

// updateTodo updates an existing to-do item, scoped to its owner. A nil
// completed pointer leaves the completion flag untouched.
func updateTodo(userID, todoID int, title, tag, body, startDate, dueDate string, completed *bool) error {
	var res sql.Result
	var err error
	if completed != nil {
		res, err = db.Exec(`
			UPDATE todos SET title = ?, tag = ?, body = ?, start_date = ?, due_date = ?, completed = ?
			WHERE id = ? AND user_id = ?
		`, title, tag, body, startDate, dueDate, *completed, todoID, userID)
	} else {
		res, err = db.Exec(`
			UPDATE todos SET title = ?, tag = ?, body = ?, start_date = ?, due_date = ?
			WHERE id = ? AND user_id = ?
		`, title, tag, body, startDate, dueDate, todoID, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("todo not found or you don't have permission to update it")
	}

	if tag != "" {
		return registerTag(userID, tag)
	}
	return nil
}

// deleteTodo deletes a to-do item, scoped to its owner.
func deleteTodo(userID, todoID int) error {
	res, err := db.Exec("DELETE FROM todos WHERE id = ? AND user_id = ?", todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("todo not found or you don't have permission to delete it")
	}
	return nil
}

// getTags retrieves a user's tag registry, sorted by name.
func getTags(userID int) ([]Tag, error) {
	rows, err := db.Query("SELECT id, name FROM tags WHERE user_id = ? ORDER BY name COLLATE NOCASE ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}

	if tags == nil {
		return []Tag{}, nil
	}
	return tags, nil
}

// registerTag adds a label to the user's tag registry if it is not already
// present (case-insensitively).
func registerTag(userID int, name string) error {
	exists, err := tagExists(userID, name, 0)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := db.Exec("INSERT INTO tags (user_id, name) VALUES (?, ?)", userID, name); err != nil {
		return fmt.Errorf("failed to register tag: %w", err)
	}
	return nil
}

// createTag creates a tag registry entry, rejecting duplicates.
func createTag(userID int, name string) error {
	exists, err := tagExists(userID, name, 0)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag '%s' already exists", name)
	}
	if _, err := db.Exec("INSERT INTO tags (user_id, name) VALUES (?, ?)", userID, name); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// updateTag renames a tag registry entry, scoped to its owner.
func updateTag(userID, tagID int, newName string) error {
	exists, err := tagExists(userID, newName, tagID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag '%s' already exists", newName)
	}

	res, err := db.Exec("UPDATE tags SET name = ? WHERE id = ? AND user_id = ?", newName, tagID, userID)
	if err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("tag not found or you don't have permission to update it")
	}
	return nil
}

// deleteTag removes a tag registry entry, scoped to its owner. Labels on
// existing todos are free-form text and are left alone.
func deleteTag(userID, tagID int) error {
	res, err := db.Exec("DELETE FROM tags WHERE id = ? AND user_id = ?", tagID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("tag not found or you don't have permission to delete it")
	}
	return nil
}

// tagExists checks for a registry entry with the given name, excluding
// excludeID when it is > 0 (useful when renaming).
func tagExists(userID int, name string, excludeID int) (bool, error) {
	query := "SELECT COUNT(*) FROM tags WHERE user_id = ? AND name = ? COLLATE NOCASE"
	args := []interface{}{userID, name}
	if excludeID > 0 {
		query += " AND id != ?"
		args = append(args, excludeID)
	}

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check for existing tag: %w", err)
	}
	return count > 0, nil
}
