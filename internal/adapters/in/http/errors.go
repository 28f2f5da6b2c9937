package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusOf maps an application error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, shipment.ErrShipmentIsNotEditable),
		errors.Is(err, shipment.ErrNotEligibleForSession),
		errors.Is(err, shipment.ErrSessionLinkChanged),
		errors.Is(err, session.ErrCompletedSessionDelete),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Server errors are logged and their
// message is replaced with message.
func (s *Server) fail(c echo.Context, err error, message string) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(message,
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(code, Error{Code: code, Message: message})
	}
	return c.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
