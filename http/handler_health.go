package http

import (
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

func (h Handler) GetHealth(c echo.Context) error {
	for _, check := range h.healthChecks {
		if err := check.Check(c.Request().Context()); err != nil {
			log.FromContext(c.Request().Context()).WithError(err).Warn("Health check failed")
			return c.String(http.StatusServiceUnavailable, "unavailable")
		}
	}

	return c.String(http.StatusOK, "ok")
}
