// Package attribution implements the agent-referral cookie mechanism that
// attributes signups to referring agents.
package attribution

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CookieName is the agent-referral cookie.
const CookieName = "epicare_agent"

// SessionCookieName identifies the browser session server-side attribution
// records are keyed by.
const SessionCookieName = "epicare_session"

// cookieMaxAge keeps the attribution alive for 30 days after the referral
// click.
const cookieMaxAge = 30 * 24 * time.Hour

type sessionContextKey struct{}

// Middleware captures an `agent` query parameter on any request and persists
// it as the referral cookie. An existing cookie is refreshed by a new
// referral link (last referrer wins). It also mints a session cookie on the
// first request so attributions can be stored server-side.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if agentID, ok := AgentFromQuery(r); ok {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    strconv.Itoa(agentID),
				Path:     "/",
				MaxAge:   int(cookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if _, err := r.Cookie(SessionCookieName); err != nil {
			sessionID := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			// Downstream handlers need the id on the very request that
			// created it, before the browser echoes the cookie back.
			r = r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, sessionID))
		}

		next.ServeHTTP(w, r)
	})
}

// AgentFromQuery extracts the referral agent id from the query string alone.
func AgentFromQuery(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("agent")
	if raw == "" {
		return 0, false
	}
	agentID, err := strconv.Atoi(raw)
	if err != nil || agentID <= 0 {
		return 0, false
	}
	return agentID, true
}

// AgentFromRequest resolves the referring agent for a request: a fresh
// `agent` query parameter wins over the stored cookie.
func AgentFromRequest(r *http.Request) (int, bool) {
	if agentID, ok := AgentFromQuery(r); ok {
		return agentID, true
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return 0, false
	}
	agentID, err := strconv.Atoi(cookie.Value)
	if err != nil || agentID <= 0 {
		return 0, false
	}
	return agentID, true
}

// SessionFromRequest returns the session identifier for the request, from
// the session cookie or, on the request that minted it, from the context.
func SessionFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	if sessionID, ok := r.Context().Value(sessionContextKey{}).(string); ok && sessionID != "" {
		return sessionID, true
	}
	return "", false
}
