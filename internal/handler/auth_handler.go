package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/service"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new auth handler. tokenTTL drives the session
// cookie max-age and must match the token service lifetime.
func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the login response data: the user plus the token for
// header-based clients. Cookie-based clients get the same token as an
// http-only cookie.
type LoginResult struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrValidation
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login godoc
// @Summary Login with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrValidation
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(sessionCookie(token, int(h.tokenTTL.Seconds())))
	return respond(c, http.StatusOK, LoginResult{User: user, Token: token}, "User login successfully")
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags users
// @Produce json
// @Success 200 {object} Response
// @Router /users/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(sessionCookie("", -1))
	return respond(c, http.StatusOK, nil, "User logged out successfully")
}

// GetUser godoc
// @Summary Return the current identity, or null for anonymous callers
// @Tags users
// @Produce json
// @Success 200 {object} Response
// @Router /users/getUser [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return respond(c, http.StatusOK, nil, "User is not authenticated")
	}
	return respond(c, http.StatusOK, user, "User data retrieved successfully")
}
