package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/service"
)

const unexpectedError = "unexpected error occurred"

// statusFor maps service errors to HTTP status codes.  Unknown errors are 500.
func statusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRoomTypeNotFound),
		errors.Is(err, service.ErrInsufficientAvailability),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrInvalidPaymentPlan),
		errors.Is(err, service.ErrPageOutOfBounds),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoomTypeAlreadyExists),
		errors.Is(err, service.ErrRoomNumberAlreadyExists),
		errors.Is(err, service.ErrRolesNotFound),
		errors.Is(err, service.ErrPasswordsDoNotMatch),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRoomInUse):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserDisabled):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope and logs the error once.
func fail(c echo.Context, logger *zap.Logger, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = unexpectedError
	}
	body := echo.Map{
		"status":    status,
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}

	fields := []zap.Field{
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Warn("request rejected", fields...)
	}
	return c.JSON(status, body)
}
