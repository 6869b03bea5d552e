package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

// InitMetrics registers the Prometheus HTTP metrics collector for serviceName.
// It registers collectors globally and must only be called once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware records request metrics and serves them on path.
func MetricsMiddleware(app *fiber.App, prom *fiberprometheus.FiberPrometheus, path string) fiber.Handler {
	prom.RegisterAt(app, path)
	return prom.Middleware
}
