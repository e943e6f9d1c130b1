// user.go
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials is the single failure for login: an unknown username
// and a wrong password are indistinguishable to the caller, which keeps
// usernames from being enumerated through the login form.
var errInvalidCredentials = errors.New("invalid username or password")

// Signup-time uniqueness failures. These surface both from the pre-check
// and from a lost race against the unique indexes at insert time.
var (
	errUsernameTaken = errors.New("username already taken")
	errEmailTaken    = errors.New("email already registered")
)

// dummyHash is compared against when the username does not exist, so the
// unknown-user path costs roughly the same as a real comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.DefaultCost)

// authenticateUser checks username and password, returning the User on
// success and errInvalidCredentials on any mismatch.
func authenticateUser(username, password string) (*User, error) {
	var u User
	var hash string
	err := db.QueryRow(
		"SELECT id, username, email, password_hash FROM users WHERE username = ? COLLATE NOCASE",
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &u, nil
}

// usernameExists reports whether the username is already registered.
func usernameExists(username string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE", username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing username: %w", err)
	}
	return count > 0, nil
}

// emailExists reports whether the email is already registered.
func emailExists(email string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE", email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing email: %w", err)
	}
	return count > 0, nil
}

// createUser inserts a new user row with a precomputed password hash and
// returns the new id. A UNIQUE violation maps onto the same taken errors
// the pre-checks produce, so a race lost between check and insert looks to
// the visitor like an ordinary duplicate.
func createUser(username, email, passwordHash string) (int, error) {
	res, err := db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(err.Error(), "users.email") {
				return 0, errEmailTaken
			}
			return 0, errUsernameTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new user id: %w", err)
	}
	return int(id), nil
}

// getUserByID retrieves a user by id.
func getUserByID(id int) (*User, error) {
	var u User
	err := db.QueryRow("SELECT id, username, email FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Username, &u.Email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// getUserByUsername retrieves a user by exact username match.
func getUserByUsername(username string) (*User, error) {
	var u User
	err := db.QueryRow("SELECT id, username, email FROM users WHERE username = ? COLLATE NOCASE", username).
		Scan(&u.ID, &u.Username, &u.Email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// updatePassword replaces a user's password hash and revokes every active
// session for that user, so stolen cookies die with the old password.
func updatePassword(userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if _, err := db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hash), userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return clearAllUserSessions(userID)
}
