package middleware

import (
	"myCreditAdvisor/business/recommend"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestTrace reuses the caller's X-Request-ID or generates one, echoes it
// on the response and puts it in the request context.
func RequestTrace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(recommend.WithTraceID(req.Context(), id)))

			return next(c)
		}
	}
}
