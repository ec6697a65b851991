package main

import (
	"context"
	"net/http"
	"os"
	"strings"
)

// cookie configuration (shared with auth.go); overwritten from Config in main.
var cookieName = "cq_auth"
var cookieSecure = false

// optional cookie domain for subdomain setups (e.g., api.yourdomain.com + www.yourdomain.com)
var cookieDomain = os.Getenv("COOKIE_DOMAIN")

// let env control SameSite: "none" | "lax" | "strict"  (default: lax)
var cookieSameSite = func() http.SameSite {
	switch strings.ToLower(os.Getenv("COOKIE_SAMESITE")) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}()

// jwtSecret is injected from Config in main before the server starts.
var jwtSecret []byte

type ctxKey int

const principalKey ctxKey = iota

// tokenFromRequest extracts the raw token: the auth cookie is the primary
// source, the Authorization header the fallback.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// requireAuth rejects the request before any handler work happens unless it
// carries a valid, unexpired token. The verified principal snapshot is placed
// on the request context.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFromRequest(r)
		if tok == "" {
			errorJSON(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		claims, err := parseToken(jwtSecret, tok)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, claims.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole layers on top of requireAuth for routes restricted to one role.
func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFrom(r.Context())
			if !ok {
				errorJSON(w, http.StatusUnauthorized, "Authorization required")
				return
			}
			if p.Role != role {
				errorJSON(w, http.StatusForbidden, "Unauthorized to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// canActOn reports whether the principal may modify the given user record:
// admins always, everyone else only themselves.
func canActOn(p Principal, userID string) bool {
	return p.Role == roleAdmin || p.ID == userID
}
