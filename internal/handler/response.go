package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "recipebox/internal/errors"
)

// Response is the uniform success envelope.
type Response struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respond(c echo.Context, statusCode int, data interface{}, message string) error {
	return c.JSON(statusCode, Response{
		Success:    true,
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	})
}

// HTTPErrorHandler converts every error escaping a handler into the error
// envelope, using the taxonomy mapping for domain errors and passing through
// statuses Echo itself produced (binding failures, 404s on unknown routes).
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		statusCode = echoErr.Code
		message = fmt.Sprintf("%v", echoErr.Message)
	} else {
		httpErr := apperrors.MapErrorToHTTP(err)
		statusCode = httpErr.StatusCode
		message = httpErr.Message
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
		return
	}
	_ = c.JSON(statusCode, ErrorResponse{Success: false, Message: message})
}
