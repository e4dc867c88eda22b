package handler

import (
	"errors"
	"net/http"

	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/pkg/response"
)

// respondServiceError maps business error codes to HTTP statuses and sends
// the message essentially verbatim, so callers can display it.
func respondServiceError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	status := http.StatusInternalServerError
	switch be.Code {
	case customError.ErrCodeValidation:
		status = http.StatusBadRequest
	case customError.ErrCodeMaintenanceBlocked:
		status = http.StatusUnprocessableEntity
	case customError.ErrCodeConflict, customError.ErrCodeStateTransition:
		status = http.StatusConflict
	case customError.ErrCodeNotFound:
		status = http.StatusNotFound
	}

	response.ErrorWithCode(w, status, be.Code, be.Message, be.Err)
}
