package http

import (
	"errors"
	"net/http"

	"tablesync/internal/core/application/printing"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps an application error to its HTTP status. Store failures are
// checked first since their cause may itself be a domain error.
func statusOf(err error) int {
	var duplicate *errs.DuplicateOrderError
	switch {
	case errors.Is(err, errs.ErrRemoteStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, printing.ErrNotPrintingDevice),
		errors.Is(err, printjob.ErrAlreadyProcessed),
		errors.Is(err, printjob.ErrNotProcessed):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPrintExecution):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	body := Error{Code: code, Message: err.Error()}
	if code == http.StatusInternalServerError {
		body.Message = http.StatusText(code)
	}

	var duplicate *errs.DuplicateOrderError
	if errors.As(err, &duplicate) {
		body.ExistingOrderID = duplicate.ExistingOrderID
	}
	return ctx.JSON(code, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
