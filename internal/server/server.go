package server

import (
	"log/slog"
	"net/http"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はルーティング済みのechoインスタンスを返す。
func New(
	cfg config.Config,
	logger *slog.Logger,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	orderH *handler.OrderHandler,
	userH *handler.UserHandler,
	tagH *handler.TagHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	//アクセスログ
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
	userH.RegisterRoutes(e, cfg)
	tagH.RegisterRoutes(e, cfg)

	return e
}
