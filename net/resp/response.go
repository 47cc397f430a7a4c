package resp

import (
	"encoding/json"
	"net/http"

	"github.com/eventhub/eventhub/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

// newResponse creates a new response.
func newResponse(status, code int, message string, data ...any) *Exception {
	var responseData any
	if len(data) > 0 {
		responseData = data[0]
	}

	if status < 200 || status >= 400 || code != 0 {
		return &Exception{
			Status:  status,
			Code:    code,
			Message: message,
			Errors:  responseData,
		}
	}

	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Data:    responseData,
	}
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var message string
	var responseData any

	if len(data) > 0 {
		responseData = data[0]
		if strData, ok := responseData.(string); ok {
			message = strData
			responseData = nil
		}
	}

	r := newResponse(statusCode, 0, message, responseData)
	statusCode, result := buildSuccessResponse(r)
	writeJSON(w, statusCode, result)
}

// buildSuccessResponse builds the success response.
func buildSuccessResponse(r *Exception) (int, any) {
	status := http.StatusOK

	if r != nil && r.Status != 0 {
		status = r.Status
	}

	if status < 200 || status >= 400 {
		return buildFailureResponse(r)
	}

	if r != nil && r.Data != nil {
		return status, r.Data
	}

	message := "ok"
	if r != nil && r.Message != "" {
		message = r.Message
	}

	return status, map[string]any{"message": message}
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	statusCode, result := buildFailureResponse(r)
	writeJSON(w, statusCode, result)
}

// ErrorBody is the failure payload. The wire contract pins the key to
// "error"; the business code rides along for programmatic clients.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, any) {
	status := http.StatusBadRequest
	code := ecode.RequestErr
	message := ecode.Text(code)

	if r.Code != 0 {
		code = r.Code
		status = ecode.ToHTTPStatus(code)
	}
	if r.Status != 0 {
		status = r.Status
	}
	if r.Message != "" {
		message = r.Message
	}

	return status, &ErrorBody{
		Error:   message,
		Code:    code,
		Details: r.Errors,
	}
}

// writeJSON writes the response as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
