package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
)

// stubResolver resolves a single known user id.
type stubResolver struct {
	user *model.User
}

func (r *stubResolver) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func identityApp(t *testing.T, tokens *TokenService, resolver *stubResolver) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(Identity(tokens, resolver))
	e.GET("/whoami", func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, user.Email)
	})
	return e
}

func TestIdentity_ResolvesCookieAndHeader(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "cook@example.com", Role: model.RoleUser}
	tokens := NewTokenService("secret", time.Hour)
	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	e := identityApp(t, tokens, &stubResolver{user: user})

	// cookie
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cook@example.com", rec.Body.String())

	// bearer header
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cook@example.com", rec.Body.String())
}

func TestIdentity_FailsOpenToAnonymous(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "cook@example.com"}
	tokens := NewTokenService("secret", time.Hour)

	expired, err := NewTokenService("secret", -time.Minute).Issue(user.ID)
	require.NoError(t, err)
	forUnknownUser, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{name: "no token", setup: func(req *http.Request) {}},
		{name: "malformed cookie", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		}},
		{name: "expired token", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: expired})
		}},
		{name: "user no longer exists", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: forUnknownUser})
		}},
	}

	e := identityApp(t, tokens, &stubResolver{user: user})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "anonymous", rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequireAuth(next)(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	c = e.NewContext(req, httptest.NewRecorder())
	c.Set(identityKey, &model.User{ID: uuid.New()})
	assert.NoError(t, RequireAuth(next)(c))
}
