// recovery.go
package main

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/httputil"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/logger"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

// appSecret signs password recovery tokens. Set from config at startup.
var appSecret []byte

const resetTokenLifetime = 30 * time.Minute

type resetClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

// signResetToken issues a short-lived token bound to one user id.
func signResetToken(userID int) (string, error) {
	claims := &resetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "password-reset",
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(appSecret)
}

// parseResetToken verifies a recovery token and returns the user id it was
// issued for. Expired, tampered or foreign tokens all fail.
func parseResetToken(tokenStr string) (int, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &resetClaims{}, func(t *jwt.Token) (interface{}, error) {
		return appSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid reset token")
	}
	if claims.Subject != "password-reset" {
		return 0, errors.New("invalid reset token")
	}
	return claims.UserID, nil
}

// recoverHandler accepts the recovery form. The response is identical
// whether or not the username/email pair matches an account, so the form
// cannot be used to probe for accounts. When a match exists, the reset
// token is issued and logged; delivering it (normally by email) is a
// deployment concern.
func recoverHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")

	user, err := getUserByUsername(username)
	if err == nil && user.Email == email {
		token, signErr := signResetToken(user.ID)
		if signErr != nil {
			httputil.InternalServerError(w, "", signErr)
			return
		}
		logger.Info("Password reset token issued", "username", user.Username, "token", token)
	} else if err != nil && err != sql.ErrNoRows {
		httputil.InternalServerError(w, "", err)
		return
	}

	renderer.RenderWithBase(w, "recover_sent.html", pageData{})
}

// resetFormHandler renders the new-password form for a valid token.
func resetFormHandler(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if _, err := parseResetToken(tokenStr); err != nil {
		logger.Security("rejected reset token", map[string]interface{}{
			"ip": getClientIP(r),
		})
		relayStore.Stash(visitorID(w, r), tagForgotPassword, map[string]string{
			"error": "This reset link is invalid or has expired",
		})
		httputil.SeeOther(w, r, "/")
		return
	}

	renderer.RenderStandalone(w, "reset.html", map[string]string{"Token": tokenStr})
}

// resetSubmitHandler verifies the token again and applies the new password.
// Every session of the user is revoked on success.
func resetSubmitHandler(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.PostFormValue("token")
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	userID, err := parseResetToken(tokenStr)
	if err != nil {
		logger.Security("rejected reset token", map[string]interface{}{
			"ip": getClientIP(r),
		})
		relayStore.Stash(visitorID(w, r), tagForgotPassword, map[string]string{
			"error": "This reset link is invalid or has expired",
		})
		httputil.SeeOther(w, r, "/")
		return
	}

	if password != confirm {
		renderer.RenderStandalone(w, "reset.html", map[string]string{
			"Token": tokenStr,
			"Error": msgPasswordsDiffer,
		})
		return
	}
	if len(password) < validation.MinPasswordLen {
		renderer.RenderStandalone(w, "reset.html", map[string]string{
			"Token": tokenStr,
			"Error": msgPasswordShort,
		})
		return
	}

	if err := updatePassword(userID, password); err != nil {
		httputil.InternalServerError(w, "", err)
		return
	}

	relayStore.Stash(visitorID(w, r), tagLogin, map[string]string{
		"error": "Password updated. Please log in",
	})
	httputil.SeeOther(w, r, "/")
}
