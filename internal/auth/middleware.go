package auth

import (
	"context"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
)

const (
	// CookieName is the session cookie carrying the token.
	CookieName = "token"
	// identityKey is the echo context key the resolved user is stored under.
	identityKey = "identity"
)

// UserResolver loads the full user record for a verified token subject.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Identity resolves the request identity from the "token" cookie, falling
// back to an Authorization bearer header. Resolution is non-blocking: a
// missing token, a token that fails verification, or a verified id whose user
// no longer exists all degrade to anonymous and the request continues.
// Handlers that need an identity must check for one themselves.
func Identity(tokens *TokenService, users UserResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "cookie:" + CookieName + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			userID, err := tokens.Verify(raw)
			if err != nil {
				return nil, err
			}
			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return nil, ErrInvalidToken
			}
			return user, nil
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			// fail open to anonymous
			c.Set(identityKey, nil)
			return nil
		},
	})
}

// CurrentUser returns the identity attached to the request, or nil for
// anonymous callers.
func CurrentUser(c echo.Context) *model.User {
	if user, ok := c.Get(identityKey).(*model.User); ok {
		return user
	}
	return nil
}

// RequireAuth rejects anonymous requests with an unauthorized error. It must
// run after Identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return apperrors.ErrUnauthorized
		}
		return next(c)
	}
}
