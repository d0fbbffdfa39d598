package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database with a short deadline.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	status := echo.Map{"status": "ok", "time": time.Now().UTC()}
	if err := h.db.PingContext(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
