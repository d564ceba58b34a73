package router

import (
	"myCreditAdvisor/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRecommendRoutes mounts the recommendation API. authRequired may be
// empty when the service runs without JWT.
func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler, authRequired ...echo.MiddlewareFunc) {
	api.POST("/recommendations", handler.Recommend, authRequired...)
	api.GET("/schema", handler.Schema, authRequired...)
}

func SetupOpsRoutes(e *echo.Echo, handler *rest.RecommendHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
