// auth.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/logger"

	"github.com/google/uuid"
)

// contextKey is a private type for request-context keys to avoid collisions.
type contextKey string

const userContextKey contextKey = "user"

// getUserFromContext extracts the authenticated user from the request
// context set by authMiddleware.
func getUserFromContext(r *http.Request) (*User, bool) {
	user, ok := r.Context().Value(userContextKey).(*User)
	return user, ok
}

// setUserContext attaches the authenticated user to the request context.
func setUserContext(r *http.Request, user *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

// Rate limiting constants
const (
	maxLoginAttempts     = 3
	cooldownDuration     = 30 * time.Second
	maxLoginAttemptsHard = 6
	hardCooldownDuration = 5 * time.Minute
)

const (
	sessionCookieName = "session_token"
	visitorCookieName = "visitor_id"
	sessionLifetime   = 30 * time.Minute
)

// cookieSecure is set from config at startup; tests leave it off.
var cookieSecure bool

// getClientIP extracts the client IP address from the request.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// visitorID returns the anonymous id that keys this visitor's relay slot,
// setting the cookie when the visitor does not have one yet.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return id
}

// recordLoginAttempt records a login attempt in the database.
func recordLoginAttempt(username, ipAddress string, successful bool) error {
	_, err := db.Exec(
		"INSERT INTO login_attempts (username, ip_address, successful, attempted_at) VALUES (?, ?, ?, ?)",
		username, ipAddress, successful, time.Now(),
	)
	return err
}

// checkRateLimitByUsername checks if a username is rate limited. The check
// runs identically for usernames that exist and usernames that don't, so it
// leaks nothing about the credential store.
func checkRateLimitByUsername(username string) (bool, time.Duration, error) {
	now := time.Now()

	limited, left, err := cooldownFor(username, now, maxLoginAttemptsHard, hardCooldownDuration)
	if err != nil || limited {
		return limited, left, err
	}
	return cooldownFor(username, now, maxLoginAttempts, cooldownDuration)
}

func cooldownFor(username string, now time.Time, threshold int, window time.Duration) (bool, time.Duration, error) {
	var failedAttempts int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM login_attempts
		WHERE username = ? COLLATE NOCASE
		AND successful = 0
		AND attempted_at > ?
	`, username, now.Add(-window)).Scan(&failedAttempts)
	if err != nil {
		return false, 0, err
	}
	if failedAttempts < threshold {
		return false, 0, nil
	}

	var lastAttempt time.Time
	err = db.QueryRow(`
		SELECT attempted_at FROM login_attempts
		WHERE username = ? COLLATE NOCASE
		AND successful = 0
		ORDER BY attempted_at DESC LIMIT 1
	`, username).Scan(&lastAttempt)
	if err != nil {
		return false, 0, err
	}

	timeLeft := window - now.Sub(lastAttempt)
	if timeLeft > 0 {
		return true, timeLeft, nil
	}
	return false, 0, nil
}

// createSession creates a new database-backed session for a user and sets
// the session cookie.
func createSession(w http.ResponseWriter, user *User) error {
	sessionToken := uuid.NewString()
	expiresAt := time.Now().Add(sessionLifetime)

	_, err := db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		sessionToken, user.ID, expiresAt,
	)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// clearSession removes the visitor's session from database and cookie. Safe
// to call with no session present, which makes logout idempotent.
func clearSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err == nil {
		if _, err := db.Exec("DELETE FROM sessions WHERE id = ?", c.Value); err != nil {
			logger.Error("Failed to delete session", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// clearAllUserSessions removes every session for one user (password change).
func clearAllUserSessions(userID int) error {
	_, err := db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// validateSession checks that a session token exists and has not expired,
// refreshing the sliding expiration window, and returns the session's user.
func validateSession(sessionToken string) (*User, error) {
	var userID int
	var expiresAt time.Time
	err := db.QueryRow(`
		SELECT user_id, expires_at FROM sessions
		WHERE id = ? AND expires_at > ?
	`, sessionToken, time.Now()).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found or expired")
		}
		return nil, err
	}

	newExpiresAt := time.Now().Add(sessionLifetime)
	if _, err := db.Exec("UPDATE sessions SET expires_at = ? WHERE id = ?", newExpiresAt, sessionToken); err != nil {
		logger.Error("Failed to refresh session expiration", err)
	}

	return getUserByID(userID)
}

// currentUser resolves the authenticated user for a request, or nil when
// the visitor holds no valid session.
func currentUser(r *http.Request) *User {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	user, err := validateSession(c.Value)
	if err != nil {
		return nil
	}
	return user
}

// cleanupExpiredSessions removes expired sessions from the database.
func cleanupExpiredSessions() {
	if _, err := db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now()); err != nil {
		logger.Error("Failed to clean up expired sessions", err)
	}
}

// cleanupOldLoginAttempts removes login attempts older than 24 hours.
func cleanupOldLoginAttempts() {
	cutoff := time.Now().Add(-24 * time.Hour)
	if _, err := db.Exec("DELETE FROM login_attempts WHERE attempted_at <= ?", cutoff); err != nil {
		logger.Error("Failed to clean up old login attempts", err)
	}
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; object-src 'none'; base-uri 'self'")
		next.ServeHTTP(w, r)
	})
}

// authMiddleware protects routes that require authentication. Page requests
// are redirected to the landing page; API requests get a JSON-friendly 401.
func authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isAPIRequest := strings.HasPrefix(r.URL.Path, "/api/") ||
			r.Header.Get("X-Requested-With") == "XMLHttpRequest"

		c, err := r.Cookie(sessionCookieName)
		if err != nil {
			if isAPIRequest {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
			} else {
				http.Redirect(w, r, "/", http.StatusFound)
			}
			return
		}

		user, err := validateSession(c.Value)
		if err != nil {
			clearSession(w, r)
			if isAPIRequest {
				http.Error(w, "Session expired", http.StatusUnauthorized)
			} else {
				http.Redirect(w, r, "/", http.StatusFound)
			}
			return
		}

		// Keep the cookie lifetime in step with the refreshed session.
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    c.Value,
			Expires:  time.Now().Add(sessionLifetime),
			HttpOnly: true,
			Secure:   cookieSecure,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		})

		next(w, setUserContext(r, user))
	}
}
