package main

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --------- Helpers (cookie) ---------

func setAuthCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Domain:   cookieDomain,
		HttpOnly: true,
		SameSite: cookieSameSite,
		Secure:   cookieSecure,
		Expires:  time.Now().Add(tokenTTL),
	}
	http.SetCookie(w, c)
}

func clearAuthCookie(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Domain:   cookieDomain,
		HttpOnly: true,
		SameSite: cookieSameSite,
		Secure:   cookieSecure,
		MaxAge:   -1,
	}
	http.SetCookie(w, c)
}

// --------- DTOs ---------

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --------- Handlers ---------

// handleLogin checks the credentials and issues a fresh 7-day token. Lookup
// miss and bad password are indistinguishable to the caller.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		errorJSON(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var u User
	err := DB.Where("email = ?", in.Email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusBadRequest, "Invalid credentials")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	p := toPrincipal(u)
	tok, err := signToken(jwtSecret, p)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "token error")
		return
	}
	setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, p)
}

// handleLogout clears the cookie. Tokens stay valid until expiry; there is no
// server-side revocation list.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out!"})
}

// handleVerify echoes the principal established by requireAuth.
func handleVerify(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
