package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind classifies a service failure and maps it to an HTTP status.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

// Error is the failure type every service method returns. Guard and state
// violations are reported through it rather than thrown; nothing crosses a
// service boundary as a panic.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to its response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func ServerError(msg string) *Error  { return &Error{Kind: KindInternal, Message: msg} }

// Response is the envelope every endpoint answers with.
type Response struct {
	Succeeded  bool        `json:"succeeded"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// JSONSuccess writes a success envelope.
func JSONSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Succeeded: true, StatusCode: status, Message: message, Data: data})
}

// JSONError writes a failure envelope from a service error. Unknown error
// types are masked as a generic server error so no internals leak.
func JSONError(c *gin.Context, err error) {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		svcErr = ServerError("An unexpected error occurred")
	}
	status := svcErr.HTTPStatus()
	c.JSON(status, Response{Succeeded: false, StatusCode: status, Message: svcErr.Message, Data: nil})
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", r))
				c.JSON(http.StatusInternalServerError, Response{
					Succeeded:  false,
					StatusCode: http.StatusInternalServerError,
					Message:    "Internal Server Error",
					Data:       nil,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
