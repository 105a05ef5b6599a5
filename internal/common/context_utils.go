package common

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateErrorResponse builds a standardized error response.
func CreateErrorResponse(code string, message string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return &resp
}

// SendError sends an error envelope with the given status.
func SendError(c echo.Context, status int, code string, message string) error {
	return c.JSON(status, CreateErrorResponse(code, message))
}

// SendValidationError sends a 400 with a VALIDATION_ERROR code.
func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// SendUnauthorizedError sends a 401.
func SendUnauthorizedError(c echo.Context) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized access")
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
