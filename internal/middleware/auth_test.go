package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
	"github.com/owusuprince21/cheaprides.backend/internal/users"
)

type fakeVerifier struct {
	identity *auth.Identity
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if token == "valid" && f.identity != nil {
		return f.identity, nil
	}
	return nil, verifier.ErrAuthenticationFailed
}

type fakeDirectory struct {
	user           *users.User
	getOrCreate    int
	touchLastLogin int
}

func (f *fakeDirectory) GetOrCreate(_ context.Context, identity *auth.Identity) (*users.User, error) {
	f.getOrCreate++
	if identity.Email == "" {
		return nil, users.ErrEmailRequired
	}
	return f.user, nil
}

func (f *fakeDirectory) TouchLastLogin(_ context.Context, _ int64) error {
	f.touchLastLogin++
	return nil
}

func (f *fakeDirectory) List(_ context.Context) ([]users.Summary, error) {
	return nil, nil
}

func (f *fakeDirectory) Counts(_ context.Context) (users.Counts, error) {
	return users.Counts{}, nil
}

func activeUser() *users.User {
	return &users.User{ID: 1, Email: "ada@example.com", IsActive: true}
}

func adminUser() *users.User {
	return &users.User{ID: 2, Email: "root@example.com", IsActive: true, IsStaff: true}
}

func newTestRouter(v verifier.Verifier, dir users.Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(v, dir))
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		u, _ := UserFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func do(r *gin.Engine, authHeader string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard scheme", "Bearer abc123", "abc123"},
		{"missing scheme", "abc123", "abc123"},
		{"extra whitespace", "Bearer   abc123", "abc123"},
		{"empty", "", ""},
		{"scheme only", "Bearer ", "Bearer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BearerToken(tt.header))
		})
	}
}

func TestNoHeaderIsAnonymousOnPublicRoute(t *testing.T) {
	dir := &fakeDirectory{user: activeUser()}
	r := newTestRouter(&fakeVerifier{identity: &auth.Identity{UID: "u", Email: "a@b.c"}}, dir)

	w := do(r, "", "/public")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, dir.getOrCreate)
}

func TestInvalidTokenIsHardFailureEvenOnPublicRoute(t *testing.T) {
	dir := &fakeDirectory{user: activeUser()}
	r := newTestRouter(&fakeVerifier{}, dir)

	w := do(r, "Bearer bogus", "/public")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, dir.getOrCreate, "failed verification must never touch the directory")
}

func TestValidTokenResolvesUser(t *testing.T) {
	dir := &fakeDirectory{user: activeUser()}
	r := newTestRouter(&fakeVerifier{identity: &auth.Identity{UID: "u", Email: "ada@example.com"}}, dir)

	w := do(r, "Bearer valid", "/private")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.Equal(t, 1, dir.getOrCreate)
}

func TestIdentityWithoutEmailFailsAuthentication(t *testing.T) {
	dir := &fakeDirectory{user: activeUser()}
	r := newTestRouter(&fakeVerifier{identity: &auth.Identity{UID: "u"}}, dir)

	w := do(r, "Bearer valid", "/private")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthWithoutCredentials(t *testing.T) {
	dir := &fakeDirectory{user: activeUser()}
	r := newTestRouter(&fakeVerifier{}, dir)

	w := do(r, "", "/private")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *users.User
		authHeader string
		wantStatus int
	}{
		{
			name:       "no credentials",
			user:       adminUser(),
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "authenticated but not staff",
			user:       activeUser(),
			authHeader: "Bearer valid",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "inactive staff",
			user:       &users.User{ID: 3, Email: "x@y.z", IsStaff: true, IsActive: false},
			authHeader: "Bearer valid",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "active staff",
			user:       adminUser(),
			authHeader: "Bearer valid",
			wantStatus: http.StatusOK,
		},
		{
			name: "active superuser",
			user: &users.User{
				ID: 4, Email: "s@y.z", IsSuperuser: true, IsActive: true,
			},
			authHeader: "Bearer valid",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &fakeDirectory{user: tt.user}
			r := newTestRouter(&fakeVerifier{identity: &auth.Identity{UID: "u", Email: tt.user.Email}}, dir)

			w := do(r, tt.authHeader, "/admin")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
