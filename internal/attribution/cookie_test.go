package attribution

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMiddleware_SetsCookieFromQueryParam(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans?agent=123", nil))

	agent := cookieByName(t, rec, CookieName)
	require.NotNil(t, agent)
	assert.Equal(t, "123", agent.Value)
	assert.Positive(t, agent.MaxAge)
}

func TestMiddleware_IgnoresInvalidAgent(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	for _, q := range []string{"agent=abc", "agent=-1", "agent=0", ""} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans?"+q, nil))
		assert.Nil(t, cookieByName(t, rec, CookieName), "query %q", q)
	}
}

func TestMiddleware_MintsSessionCookie(t *testing.T) {
	var sessionID string
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		sessionID, _ = SessionFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	session := cookieByName(t, rec, SessionCookieName)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	// The minted id is already visible to the handler on this request.
	assert.Equal(t, session.Value, sessionID)
}

func TestMiddleware_KeepsExistingSession(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Nil(t, cookieByName(t, rec, SessionCookieName))
}

func TestSessionFromRequest_ReadsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/enroll", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})

	sessionID, ok := SessionFromRequest(req)
	require.True(t, ok)
	assert.Equal(t, "sess-1", sessionID)
}

func TestSessionFromRequest_NoSession(t *testing.T) {
	_, ok := SessionFromRequest(httptest.NewRequest(http.MethodGet, "/enroll", nil))
	assert.False(t, ok)
}

func TestAgentFromRequest_QueryWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/enroll?agent=7", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "123"})

	agentID, ok := AgentFromRequest(req)
	require.True(t, ok)
	assert.Equal(t, 7, agentID)
}

func TestAgentFromRequest_FallsBackToCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/enroll", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "123"})

	agentID, ok := AgentFromRequest(req)
	require.True(t, ok)
	assert.Equal(t, 123, agentID)
}

func TestAgentFromRequest_NoAttribution(t *testing.T) {
	_, ok := AgentFromRequest(httptest.NewRequest(http.MethodGet, "/enroll", nil))
	assert.False(t, ok)
}
