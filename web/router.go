package web

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"vfs-simulator/logging"
	"vfs-simulator/metrics"
)

//go:embed static/index.html
var indexHTML string

// SetupRouter creates the echo router for the browser terminal. rec may be
// nil, in which case no metrics are recorded or exposed.
func SetupRouter(handler *Handler, log *zap.Logger, rec *metrics.Recorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware. Recover runs inside RequestLogger so a panic is
	// logged and counted as a 500.
	e.Use(RequestLogger(log, rec))
	e.Use(middleware.Recover())

	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, indexHTML)
	})
	e.GET("/health", handler.HandleHealth)

	e.POST("/api/sessions", handler.HandleCreateSession)
	e.POST("/api/sessions/:id/commands", handler.HandleCommand)
	e.DELETE("/api/sessions/:id", handler.HandleCloseSession)

	if rec != nil {
		e.GET("/metrics", echo.WrapHandler(rec.Handler()))
	}

	return e
}

// RequestLogger returns an echo middleware that logs requests using zap and
// records them on rec when it is set.
func RequestLogger(log *zap.Logger, rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			elapsed := time.Since(start)

			log.Info("request",
				logging.String("method", req.Method),
				logging.String("path", req.URL.Path),
				logging.Int("status", res.Status),
				logging.Duration("latency", elapsed),
				logging.String("ip", c.RealIP()),
				logging.Int64("bytes_out", res.Size),
			)
			if rec != nil {
				rec.ObserveRequest(req.Method, c.Path(), res.Status, elapsed)
			}

			return nil
		}
	}
}
