package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health serves the liveness probe.  It only proves the process is up
// and accepting connections; it deliberately touches no dependency so
// a database or broker outage does not take the instance out of
// rotation while it can still shed load gracefully.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
