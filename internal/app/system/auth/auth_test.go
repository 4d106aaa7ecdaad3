package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, time.Hour, zap.NewNop())
	require.NoError(t, err)
	return tm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.CurrentUser(r)
		if u != nil {
			w.Header().Set("X-User", u.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := auth.NewTokenManager("", time.Hour, zap.NewNop())
	assert.Error(t, err)
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)

	raw, err := tm.Issue(auth.Principal{ID: "abc123", Email: "a@example.com", Role: "therapist"})
	require.NoError(t, err)

	p, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc123", p.ID)
	assert.Equal(t, "a@example.com", p.Email)
	assert.Equal(t, "therapist", p.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, err := auth.NewTokenManager("another-secret-that-is-32-chars-long!", time.Hour, zap.NewNop())
	require.NoError(t, err)

	raw, err := other.Issue(auth.Principal{ID: "abc", Role: "user"})
	require.NoError(t, err)

	_, err = tm.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	tm, err := auth.NewTokenManager(testSecret, time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	raw, err := tm.Issue(auth.Principal{ID: "abc", Role: "user"})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = tm.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLoadBearerUser_ValidToken(t *testing.T) {
	tm := newTestTokenManager(t)
	raw, err := tm.Issue(auth.Principal{ID: "u1", Role: "user"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	tm.LoadBearerUser(tm.RequireSignedIn(okHandler())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Header().Get("X-User"))
}

func TestRequireSignedIn_Returns401(t *testing.T) {
	tm := newTestTokenManager(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tm.LoadBearerUser(tm.RequireSignedIn(okHandler())).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		user *auth.Principal
		want int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"wrong role", &auth.Principal{ID: "1", Role: "user"}, http.StatusForbidden},
		{"admin allowed", &auth.Principal{ID: "1", Role: "admin"}, http.StatusOK},
		{"therapist allowed", &auth.Principal{ID: "1", Role: "Therapist"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			auth.RequireRole("admin", "therapist")(okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
