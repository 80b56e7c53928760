package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

type RouterConfig struct {
	AllowedOrigins []string
	HealthChecks   []HealthCheck
}

func NewHttpRouter(lifecycle Lifecycle, cfg RouterConfig) *echo.Echo {
	e := libHttp.NewEcho()
	e.HTTPErrorHandler = handleError
	e.Validator = newRequestValidator()

	e.Use(otelecho.Middleware("parking"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  allowedOrigins(cfg.AllowedOrigins),
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{errorCodeHeader},
	}))

	handler := Handler{
		lifecycle:    lifecycle,
		healthChecks: cfg.HealthChecks,
	}

	e.GET("/health", handler.GetHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/checkin", handler.PostCheckIn)
	api.POST("/checkout/preview", handler.PostCheckOutPreview)
	api.POST("/checkout/confirm", handler.PostCheckOutConfirm)
	api.GET("/tickets/:id", handler.GetTicket)

	return e
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
