package middleware

import (
	"blog/internal/reqctx"
	"blog/internal/services"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	id *services.Identity
}

func (s stubResolver) CurrentIdentity(*http.Request) (*services.Identity, bool) {
	return s.id, s.id != nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	if uid, ok := reqctx.GetUserID(r.Context()); ok {
		w.Header().Set("X-User", strconv.Itoa(uid))
	}
	w.WriteHeader(http.StatusOK)
}

func TestSessionAuth_PutsIdentityIntoContext(t *testing.T) {
	h := SessionAuth(stubResolver{id: &services.Identity{UserID: 7, SessionID: "jti"}})(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "7", rec.Header().Get("X-User"))
}

func TestRequireLogin(t *testing.T) {
	anon := SessionAuth(stubResolver{})(RequireLogin(http.HandlerFunc(echoUser)))
	rec := httptest.NewRecorder()
	anon.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/account", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	authed := SessionAuth(stubResolver{id: &services.Identity{UserID: 3}})(RequireLogin(http.HandlerFunc(echoUser)))
	rec = httptest.NewRecorder()
	authed.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/account", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	h := SessionAuth(stubResolver{id: &services.Identity{UserID: 3}})(RedirectIfAuthenticated(http.HandlerFunc(echoUser)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestLogging_PassesStatusThrough(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
