package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const requestTimeout = 5 * time.Second

// reqCtx derives a bounded context for one service call.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a numeric path parameter.  Zero means absent or malformed.
func pathID(c echo.Context, name string) uint64 {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// queryInt parses an optional integer query parameter with a fallback.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
