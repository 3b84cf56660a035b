package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendCapacityExhausted reports the domain-level "no capacity" outcome.
// It is a normal negative result, surfaced as 409 so callers can present a
// user-facing message rather than treat it as a server fault.
func SendCapacityExhausted(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CAPACITY_EXHAUSTED", message, nil))
}

// SendNotFound sends a not-found error response
func SendNotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", message, nil))
}
