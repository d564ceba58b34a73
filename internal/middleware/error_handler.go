package middleware

import (
	"errors"
	"net/http"
	"strings"

	"myCreditAdvisor/pkg/logger"
	jsonres "myCreditAdvisor/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler. It writes errors that escape the
// handlers (routing, binding, panics) as response envelopes.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "path", c.Request().URL.Path, "trace_id", c.Response().Header().Get(echo.HeaderXRequestID))
	}

	body := jsonres.Error(errorCode(code), message, nil)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}

// errorCode turns a status into "NOT_FOUND" style codes.
func errorCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
