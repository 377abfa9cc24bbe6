package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/middleware"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

var kindStatus = map[services.Kind]int{
	services.KindValidation:         http.StatusUnprocessableEntity,
	services.KindInvalidCredentials: http.StatusUnauthorized,
	services.KindUnauthorized:       http.StatusUnauthorized,
	services.KindForbidden:          http.StatusForbidden,
	services.KindNotFound:           http.StatusNotFound,
	services.KindInvalidStatus:      http.StatusBadRequest,
	services.KindInvalidTransition:  http.StatusBadRequest,
	services.KindConflict:           http.StatusConflict,
	services.KindPayment:            http.StatusInternalServerError,
	services.KindInternal:           http.StatusInternalServerError,
}

// ErrorHandler renders service errors and echo errors in the response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

func errorResponse(err error) (int, Envelope) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status, ok := kindStatus[svcErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		return status, Envelope{
			Message: svcErr.Message,
			Error:   &ErrorBody{Code: string(svcErr.Kind), Details: svcErr.Details},
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := string(services.KindInternal)
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = string(services.KindNotFound)
		case http.StatusUnauthorized:
			code = string(services.KindUnauthorized)
		case http.StatusForbidden:
			code = string(services.KindForbidden)
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			code = string(services.KindValidation)
		}
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}
		return httpErr.Code, Envelope{Message: message, Error: &ErrorBody{Code: code}}
	}

	return http.StatusInternalServerError, Envelope{
		Message: "Internal server error",
		Error:   &ErrorBody{Code: string(services.KindInternal)},
	}
}

func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return services.ValidationError("body", "The request body must be valid JSON.")
	}
	return nil
}

func caller(c echo.Context) (models.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.Identity{}, services.Unauthorized("User not authenticated")
	}
	return *identity, nil
}

// pageRequest reads page and limit (or per_page) from the query string.
func pageRequest(c echo.Context) (models.PageRequest, error) {
	var req models.PageRequest
	var limit int
	err := echo.QueryParamsBinder(c).
		Int("page", &req.Page).
		Int("per_page", &req.PerPage).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return req, services.ValidationError("page", "The page and limit parameters must be integers.")
	}
	if limit > 0 {
		req.PerPage = limit
	}
	return req.Normalize(), nil
}

func optionalBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, services.ValidationError(name, "The "+name+" field must be true or false.")
	}
	return &v, nil
}
