// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers used across all endpoints so that
// success and failure bodies keep one shape.
//
// Conventions:
//   - Every error response is an apierror.Response with a stable `code` and a
//     localized `error` text.
//   - `fail()` centralizes error logging, ensuring 5xx responses are logged
//     with request context.
//   - Success bodies always carry `"ok": true`.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "ok": false,
//	  "error": "이름, 제목, 문의 내용을 모두 입력해주세요.",
//	  "code": "validation_failed",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{ "ok": true, "id": 42 }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/flexai-site/internal/http/apierror"
	"github.com/tbourn/flexai-site/internal/http/middleware"
)

// fail aborts the request with the localized envelope for code.
//
// Server errors (>=500) are logged using the request-scoped logger from
// middleware; cause, when non-nil, is attached to that log line but never
// sent to the client.
func fail(c *gin.Context, status int, code string, cause error) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Err(cause).
			Int("status", status).
			Str("code", code).
			Msg("api error")
	}
	apierror.Abort(c, status, code)
}

// Fail is the exported variant of fail() for the router's NoRoute and
// NoMethod handlers.
func Fail(c *gin.Context, status int, code string) { fail(c, status, code, nil) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
