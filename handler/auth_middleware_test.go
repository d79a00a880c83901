package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/cache"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/repository"
	"github.com/Lawrence9908/ecommerce-backend-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type middlewareFixture struct {
	users     *repository.MemoryUserRepository
	protect   func(http.Handler) http.Handler
	access    func(userID string) string
	expiredFn func(userID string) string
}

func newMiddlewareFixture(t *testing.T) middlewareFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	cfg := service.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
	tokens := service.NewTokenService(cache.NewMemoryClient(), cfg)
	expiredCfg := cfg
	expiredCfg.AccessTTL = -time.Minute
	expiredTokens := service.NewTokenService(cache.NewMemoryClient(), expiredCfg)

	mw := NewAuthMiddleware(service.NewAuthService(users, tokens))
	return middlewareFixture{
		users:   users,
		protect: mw.Protect,
		access: func(userID string) string {
			token, err := tokens.IssueAccess(userID)
			require.NoError(t, err)
			return token
		},
		expiredFn: func(userID string) string {
			token, err := expiredTokens.IssueAccess(userID)
			require.NoError(t, err)
			return token
		},
	}
}

func (f middlewareFixture) createUser(t *testing.T, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{Name: "Test", Email: email, Password: "hash", Role: role}
	require.NoError(t, f.users.CreateUser(context.Background(), user))
	return user
}

func serveWithCookie(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_Protect(t *testing.T) {
	f := newMiddlewareFixture(t)
	customer := f.createUser(t, "c@example.com", model.RoleCustomer)

	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := f.protect(next)

	tests := []struct {
		name    string
		token   string
		code    int
		message string
	}{
		{"no cookie", "", http.StatusUnauthorized, "Unauthorized - No access token provided"},
		{"expired token", f.expiredFn(customer.ID), http.StatusUnauthorized, "Unauthorized - Access token expired"},
		{"garbage token", "abc.def.ghi", http.StatusUnauthorized, "Unauthorized - Invalid access token"},
		{"deleted user", f.access("ghost"), http.StatusUnauthorized, "User not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveWithCookie(h, tt.token)
			assert.Equal(t, tt.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.message)
		})
	}

	t.Run("valid token attaches the user", func(t *testing.T) {
		rr := serveWithCookie(h, f.access(customer.ID))
		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, seen)
		assert.Equal(t, customer.ID, seen.ID)
		assert.Empty(t, seen.Password)
	})
}

func TestAdminMiddleware(t *testing.T) {
	f := newMiddlewareFixture(t)
	customer := f.createUser(t, "c@example.com", model.RoleCustomer)
	admin := f.createUser(t, "a@example.com", model.RoleAdmin)

	h := f.protect(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := serveWithCookie(h, f.access(customer.ID))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Access denied - Admin only")

	rr = serveWithCookie(h, f.access(admin.ID))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	t.Run("without Protect", func(t *testing.T) {
		rr := httptest.NewRecorder()
		AdminMiddleware(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	setAuthCookies(rr, &model.TokenPair{AccessToken: "a", RefreshToken: "r"})
	clearAuthCookies(rr)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 4)

	byName := map[string][]*http.Cookie{}
	for _, c := range cookies {
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.False(t, c.Secure)
		byName[c.Name] = append(byName[c.Name], c)
	}
	assert.Equal(t, 15*60, byName[AccessTokenCookie][0].MaxAge)
	assert.Equal(t, 7*24*60*60, byName[RefreshTokenCookie][0].MaxAge)
	assert.Equal(t, -1, byName[AccessTokenCookie][1].MaxAge)
	assert.Equal(t, -1, byName[RefreshTokenCookie][1].MaxAge)
}
