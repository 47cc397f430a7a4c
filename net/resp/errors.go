package resp

import (
	"net/http"

	"github.com/eventhub/eventhub/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.Unauthorized, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newResponse(http.StatusConflict, ecode.Conflict, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}
