package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"parking/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	errorCodeHeader   = "X-Error-Code"
	internalErrorCode = "INTERNAL_ERROR"
)

var statusByKind = map[entities.ErrorKind]int{
	entities.KindValidation:              http.StatusBadRequest,
	entities.KindVehicleAlreadyCheckedIn: http.StatusConflict,
	entities.KindTicketAlreadyCompleted:  http.StatusConflict,
	entities.KindTicketNotFound:          http.StatusNotFound,
}

// handleError writes every failed request as a plain text message with the
// error kind in the X-Error-Code header.
func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := describeError(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}

	c.Response().Header().Set(errorCodeHeader, code)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.String(status, message)
	}
	if writeErr != nil {
		log.FromContext(c.Request().Context()).WithError(writeErr).Error("Could not write error response")
	}
}

func describeError(err error) (status int, code string, message string) {
	if kind, ok := entities.KindOf(err); ok {
		if status, ok := statusByKind[kind]; ok {
			return status, string(kind), err.Error()
		}
		return http.StatusInternalServerError, string(kind), err.Error()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusBadRequest {
			return http.StatusBadRequest, string(entities.KindValidation), fmt.Sprint(httpErr.Message)
		}
		if httpErr.Code < http.StatusInternalServerError {
			code := strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_"))
			return httpErr.Code, code, fmt.Sprint(httpErr.Message)
		}
	}

	return http.StatusInternalServerError, internalErrorCode, "internal server error"
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return entities.NewValidationError("invalid request: %s", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", jsonFieldName(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", jsonFieldName(fe.Field()), fe.Tag(), fe.Param()))
		}
	}

	return entities.NewValidationError("%s", strings.Join(msgs, "; "))
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
