// Package ecode defines standardized error codes for API responses.
//
// Codes map one-to-one onto the error taxonomy the API exposes:
// RequestErr (400), Unauthorized (401), NothingFound (404), Conflict (409)
// and ServerErr (500). Handlers should never write raw status codes;
// they go through resp with an ecode attached.
package ecode
