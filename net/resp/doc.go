// Package resp provides the JSON response envelope used by all handlers.
//
// Success responses carry the payload directly; failures carry
// {code, message, errors}. Constructors (BadRequest, UnAuthorized,
// NotFound, Conflict, InternalServer) pair an HTTP status with the
// matching ecode so the two never drift apart.
package resp
