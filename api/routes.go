package api

import (
	"strconv"
	"time"

	"woof-coffee/metrics"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewApp builds the fiber app with all routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "woofcoffee",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	SetupRoutes(app, h)
	return app
}

func SetupRoutes(app *fiber.App, h *Handler) {
	// Prometheus metrics endpoint (no auth required for scraping)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now(),
			"menu_size": h.catalog.Len(),
		})
	})

	api := app.Group("/api", requestLogger(h.log))
	api.Get("/menu", h.GetMenu)
	api.Get("/faq/quick-questions", h.GetQuickQuestions)
	api.Post("/chat", h.Chat)
	api.Post("/quote", h.Quote)
	api.Post("/checkout", h.Checkout)
}

// requestLogger counts and logs every API request.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		log.Debug("request",
			zap.String("method", c.Method()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
