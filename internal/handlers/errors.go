package handlers

import (
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondError writes err with the status its code maps to. Errors without a
// known code are logged and answered with fallback.
func respondError(c *drift.Context, err error, fallback string) {
	msg := apperr.MessageOf(err)
	switch apperr.CodeOf(err) {
	case apperr.ErrCodeValidation:
		c.BadRequest(msg)
	case apperr.ErrCodeUnauthorized:
		c.Unauthorized(msg)
	case apperr.ErrCodeForbidden:
		c.Forbidden(msg)
	case apperr.ErrCodeNotFound:
		c.NotFound(msg)
	case apperr.ErrCodeDomainState, apperr.ErrCodeAlreadyExists:
		c.Conflict(msg)
	default:
		logger.Error(fallback, "error", err, "path", c.Request.URL.Path)
		c.InternalServerError(fallback)
	}
}
