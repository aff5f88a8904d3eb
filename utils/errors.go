package utils

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// HTTPError is an error that knows the status code it should be rendered with.
type HTTPError struct {
	Status  int
	Message string
	Details string
}

func (e *HTTPError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func newHTTPError(status int, format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusConflict, format, args...)
}

func TooManyRequests(format string, args ...interface{}) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, format, args...)
}

// Internal wraps an unexpected failure. The cause is logged, never rendered.
func Internal(cause error) *HTTPError {
	e := &HTTPError{Status: http.StatusInternalServerError, Message: "Internal server error"}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// StoreError maps a gorm error to 404 (with notFound as message) or 500.
func StoreError(err error, notFound string) *HTTPError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s", notFound)
	}
	return Internal(err)
}

// BindError converts a gin binding failure into a 400 naming the offending field.
func BindError(err error) *HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return BadRequest("%s", strings.Join(msgs, "; "))
	}
	return &HTTPError{Status: http.StatusBadRequest, Message: "Invalid request body", Details: err.Error()}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// AbortWithError renders err as {"error", "details"?} and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = Internal(err)
	}
	if he.Status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, he)
		c.AbortWithStatusJSON(he.Status, gin.H{"error": he.Message})
		return
	}
	body := gin.H{"error": he.Message}
	if he.Details != "" {
		body["details"] = he.Details
	}
	c.AbortWithStatusJSON(he.Status, body)
}
