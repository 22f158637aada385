package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/you/healthrecords/domain"
)

const internalErrorMessage = "An unexpected error occurred"

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusFor maps a domain error kind to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateResource), errors.Is(err, domain.ErrUserInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// WriteError aborts the request with the error body for status and message
func WriteError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// RespondError writes err using its domain kind. Unclassified errors are
// logged and reported with a generic message.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		WriteError(c, status, internalErrorMessage)
		return
	}
	WriteError(c, status, domain.Message(err))
}

// respondBindError reports a request body that failed to decode or validate
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		WriteError(c, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}
	WriteError(c, http.StatusBadRequest, "Malformed request body: "+err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathID reads an unsigned numeric path parameter. Zero passes through so
// lookups report it as not found.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, strconv.IntSize)
	if err != nil {
		WriteError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		WriteError(c, http.StatusUnauthorized, "User ID not found in context")
		return 0, false
	}
	s, _ := raw.(string)
	id, err := strconv.ParseUint(s, 10, strconv.IntSize)
	if err != nil {
		WriteError(c, http.StatusUnauthorized, "Invalid user ID")
		return 0, false
	}
	return uint(id), true
}
