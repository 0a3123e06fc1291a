// Package handlers maps service-layer errors to HTTP statuses and the stable
// codes defined in package apierror.
//
// Handlers never branch on error strings: they classify with errors.Is so
// that wrapped sentinel values from package services keep working.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/flexai-site/internal/http/apierror"
	"github.com/tbourn/flexai-site/internal/services"
)

// classify returns the status and code for err. fallback is the code used
// for unexpected (5xx) errors, so the client learns which operation failed.
func classify(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, apierror.CodeValidation
	case errors.Is(err, services.ErrIdempotencyConflict):
		return http.StatusConflict, apierror.CodeIdempotencyConflict
	case errors.Is(err, services.ErrIdempotencyMismatch):
		return http.StatusUnprocessableEntity, apierror.CodeIdempotencyMismatch
	default:
		return http.StatusInternalServerError, fallback
	}
}

// failWith writes the response classify picks for err.
func failWith(c *gin.Context, err error, fallback string) {
	status, code := classify(err, fallback)
	var cause error
	if status >= http.StatusInternalServerError {
		cause = err
	}
	fail(c, status, code, cause)
}
