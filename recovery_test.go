// recovery_test.go
package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	ensureTestApp(t)

	token, err := signResetToken(42)
	require.NoError(t, err)

	userID, err := parseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestResetTokenTampered(t *testing.T) {
	ensureTestApp(t)

	token, err := signResetToken(42)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = parseResetToken(tampered)
	assert.Error(t, err)
}

func TestResetTokenExpired(t *testing.T) {
	ensureTestApp(t)

	claims := &resetClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Subject:   "password-reset",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(appSecret)
	require.NoError(t, err)

	_, err = parseResetToken(token)
	assert.Error(t, err, "expired tokens must be rejected")
}

func TestResetTokenWrongSubject(t *testing.T) {
	ensureTestApp(t)

	claims := &resetClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   "something-else",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(appSecret)
	require.NoError(t, err)

	_, err = parseResetToken(token)
	assert.Error(t, err, "tokens issued for other purposes must be rejected")
}

func TestResetTokenWrongKey(t *testing.T) {
	ensureTestApp(t)

	claims := &resetClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   "password-reset",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("a different key"))
	require.NoError(t, err)

	_, err = parseResetToken(token)
	assert.Error(t, err)
}

func TestResetFormRejectsBadToken(t *testing.T) {
	ensureTestApp(t)

	req := httptest.NewRequest("GET", "/reset?token=garbage", nil)
	rr := httptest.NewRecorder()
	resetFormHandler(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestResetFlowEndToEnd(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "alice", "alice@x.com", "oldpass")
	cookie := sessionCookieFor(t, user)

	token, err := signResetToken(user.ID)
	require.NoError(t, err)

	// the form renders for a valid token
	req := httptest.NewRequest("GET", "/reset?token="+url.QueryEscape(token), nil)
	rr := httptest.NewRecorder()
	resetFormHandler(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="token"`)

	// submitting a new password succeeds and revokes the old session
	rr = httptest.NewRecorder()
	resetSubmitHandler(rr, postForm("/reset", url.Values{
		"token":            {token},
		"password":         {"newpass"},
		"confirm_password": {"newpass"},
	}))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	_, err = validateSession(cookie.Value)
	assert.Error(t, err, "old sessions must die with the old password")

	_, err = authenticateUser("alice", "oldpass")
	assert.Error(t, err)
	_, err = authenticateUser("alice", "newpass")
	assert.NoError(t, err)
}

func TestResetRejectsMismatchedPasswords(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "bob", "bob@x.com", "oldpass")

	token, err := signResetToken(user.ID)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	resetSubmitHandler(rr, postForm("/reset", url.Values{
		"token":            {token},
		"password":         {"newpass"},
		"confirm_password": {"different"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), msgPasswordsDiffer)

	_, err = authenticateUser("bob", "oldpass")
	assert.NoError(t, err, "a failed reset must not change the password")
}

func TestResetRejectsShortPassword(t *testing.T) {
	ensureTestApp(t)
	user := createTestUser(t, "carol", "carol@x.com", "oldpass")

	token, err := signResetToken(user.ID)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	resetSubmitHandler(rr, postForm("/reset", url.Values{
		"token":            {token},
		"password":         {"abcd"},
		"confirm_password": {"abcd"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), msgPasswordShort)
}
