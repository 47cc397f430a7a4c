package ecode

import "net/http"

// Error codes follow a standardized numbering scheme:
//   - 0: Success (OK)
//   - -100 to -199: Authentication/authorization errors
//   - -400 to -499: Request and resource errors
//   - -500+: Server errors
const (
	OK = 0

	Unauthorized = -101

	RequestErr       = -400
	ParamErr         = -401
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409

	ServerErr = -500
)

var messages = map[int]string{
	OK:               "success",
	Unauthorized:     "Account not logged in",
	RequestErr:       "Invalid request",
	ParamErr:         "Invalid parameters",
	AccessDenied:     "Access denied",
	NothingFound:     "Resource not found",
	MethodNotAllowed: "Method not allowed",
	Conflict:         "Resource conflict",
	ServerErr:        "Internal server error",
}

var httpStatus = map[int]int{
	OK:               http.StatusOK,
	Unauthorized:     http.StatusUnauthorized,
	RequestErr:       http.StatusBadRequest,
	ParamErr:         http.StatusBadRequest,
	AccessDenied:     http.StatusForbidden,
	NothingFound:     http.StatusNotFound,
	MethodNotAllowed: http.StatusMethodNotAllowed,
	Conflict:         http.StatusConflict,
	ServerErr:        http.StatusInternalServerError,
}

// Text returns the human-readable message for a code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status code.
func ToHTTPStatus(code int) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
